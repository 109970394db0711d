// Package archiver copies ended cycles into the history table and removes
// their entries.
package archiver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/questx-lab/lottery/internal/common"
	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/internal/model"
	"github.com/questx-lab/lottery/internal/repository"
	"github.com/questx-lab/lottery/pkg/storage"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

const defaultDeleteBatchSize = 500

type Archiver interface {
	MoveToHistory(ctx context.Context, event *entity.CycleEvent) (*entity.CycleHistory, error)
	ClearEntries(ctx context.Context, cycleID string) int64
	ExportSnapshot(ctx context.Context, history *entity.CycleHistory) error
}

type archiver struct {
	cycleRepo repository.CycleRepository
	entryRepo repository.CycleEntryRepository
	storage   storage.Storage
	now       func() time.Time
}

// New creates an archiver. storage may be nil, then snapshots are not
// exported.
func New(
	cycleRepo repository.CycleRepository,
	entryRepo repository.CycleEntryRepository,
	storage storage.Storage,
) *archiver {
	return &archiver{
		cycleRepo: cycleRepo,
		entryRepo: entryRepo,
		storage:   storage,
		now:       time.Now,
	}
}

// MoveToHistory writes the history copy of event. Writing the same event
// twice keeps the first copy.
func (a *archiver) MoveToHistory(
	ctx context.Context, event *entity.CycleEvent,
) (*entity.CycleHistory, error) {
	history := &entity.CycleHistory{
		ID:          event.ID,
		CycleNumber: event.CycleNumber,
		CycleFields: event.CycleFields,
		ArchivedAt:  a.now(),
	}

	if err := a.cycleRepo.CreateHistory(ctx, history); err != nil {
		return nil, err
	}

	return history, nil
}

// ClearEntries deletes the entries of cycleID in batches of
// Cycle.EntryDeleteBatchSize and returns how many were deleted. It stops at
// the first failed batch, the remaining entries stay scoped to their ended
// cycle.
func (a *archiver) ClearEntries(ctx context.Context, cycleID string) int64 {
	batchSize := xcontext.Configs(ctx).Cycle.EntryDeleteBatchSize
	if batchSize <= 0 {
		batchSize = defaultDeleteBatchSize
	}

	var total int64
	for {
		userIDs, err := a.entryRepo.GetUserIDsByCycleID(ctx, cycleID, batchSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get entries of cycle %s: %v", cycleID, err)
			common.PromCounters[common.CycleEntryCleanupFailuresTotal].WithLabelValues().Inc()
			return total
		}

		if len(userIDs) == 0 {
			return total
		}

		n, err := a.entryRepo.DeleteByUserIDs(ctx, cycleID, userIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete entries of cycle %s: %v", cycleID, err)
			common.PromCounters[common.CycleEntryCleanupFailuresTotal].WithLabelValues().Inc()
			return total
		}

		total += n
		if n == 0 {
			xcontext.Logger(ctx).Warnf("No entries of cycle %s deleted in a non-empty batch", cycleID)
			return total
		}
	}
}

// ExportSnapshot uploads the history as JSON to history/<id>.json in
// Cycle.SnapshotBucket. The key only depends on the cycle id, so exporting
// twice overwrites the same object.
func (a *archiver) ExportSnapshot(ctx context.Context, history *entity.CycleHistory) error {
	bucket := xcontext.Configs(ctx).Cycle.SnapshotBucket
	if a.storage == nil || bucket == "" {
		return nil
	}

	b, err := json.Marshal(model.ConvertCycleHistory(history))
	if err != nil {
		return err
	}

	_, err = a.storage.Upload(ctx, &storage.UploadObject{
		Bucket: bucket,
		Key:    SnapshotKey(history.ID),
		Mime:   "application/json",
		Data:   b,
	})
	return err
}

func SnapshotKey(eventID string) string {
	return fmt.Sprintf("history/%s.json", eventID)
}
