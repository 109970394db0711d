// Package orchestrator ends expired cycles, draws their winner and starts the
// next cycle.
package orchestrator

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/lottery/internal/common"
	"github.com/questx-lab/lottery/internal/domain/archiver"
	"github.com/questx-lab/lottery/internal/domain/ledger"
	"github.com/questx-lab/lottery/internal/domain/winner"
	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/internal/model"
	"github.com/questx-lab/lottery/internal/repository"
	"github.com/questx-lab/lottery/pkg/crypto"
	"github.com/questx-lab/lottery/pkg/pubsub"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"github.com/questx-lab/lottery/pkg/xredis"
	"gorm.io/gorm"
)

type Orchestrator struct {
	cycleRepo   repository.CycleRepository
	entryRepo   repository.CycleEntryRepository
	ledger      ledger.Ledger
	archiver    archiver.Archiver
	redisClient xredis.Client
	publisher   pubsub.Publisher

	now        func() time.Time
	randomSeed func() (string, error)
}

// New creates an orchestrator. publisher may be nil, then no completion
// event is published.
func New(
	cycleRepo repository.CycleRepository,
	entryRepo repository.CycleEntryRepository,
	ledger ledger.Ledger,
	archiver archiver.Archiver,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
) *Orchestrator {
	return &Orchestrator{
		cycleRepo:   cycleRepo,
		entryRepo:   entryRepo,
		ledger:      ledger,
		archiver:    archiver,
		redisClient: redisClient,
		publisher:   publisher,
		now:         time.Now,
		randomSeed:  crypto.GenerateRandomSeed,
	}
}

// transition is the outcome of a committed tick which ended a cycle.
type transition struct {
	summary *model.CycleTickSummary
	history *entity.CycleHistory
}

// Tick runs one step of the cycle state machine. It returns the summary of
// the transition, or nil if the tick only created the first cycle or had
// nothing to do. Invoking Tick concurrently or repeatedly is safe, the live
// cycle is locked while it is checked and changed.
func (o *Orchestrator) Tick(ctx context.Context) (*model.CycleTickSummary, error) {
	var result *transition
	var bootstrapped bool
	err := common.RunInTransaction(ctx, func(ctx context.Context) error {
		result, bootstrapped = nil, false

		live, err := o.cycleRepo.GetLiveForUpdate(ctx)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			bootstrapped, err = o.cycleRepo.CreateLive(ctx, o.newCycle(ctx, 0))
			return err
		}

		if live.Status != entity.CycleStatusActive {
			return nil
		}

		if o.now().Before(live.EndTime) {
			return nil
		}

		result, err = o.endCycle(ctx, live)
		return err
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot process the cycle tick: %v", err)
		return nil, err
	}

	if bootstrapped {
		xcontext.Logger(ctx).Infof("Created the first cycle")
		o.invalidateCache(ctx)
		return nil, nil
	}

	if result == nil {
		return nil, nil
	}

	o.afterTransition(ctx, result)
	return result.summary, nil
}

// endCycle runs inside the tick transaction with the live cycle locked.
func (o *Orchestrator) endCycle(ctx context.Context, live *entity.CycleEvent) (*transition, error) {
	now := o.now()

	// The seed is persisted together with the status change, before it is
	// used to draw the winner.
	seed := sql.NullString{}
	if live.TotalEntries > 0 {
		s, err := o.randomSeed()
		if err != nil {
			return nil, err
		}
		seed = sql.NullString{String: s, Valid: true}
	}

	if err := o.cycleRepo.MarkEnded(ctx, live.ID, now, seed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	ended := *live
	ended.Status = entity.CycleStatusEnded
	ended.ProcessedAt = sql.NullTime{Time: now, Valid: true}
	ended.RNGSeed = seed

	if live.TotalEntries > 0 {
		if err := o.drawWinner(ctx, &ended); err != nil {
			return nil, err
		}
	}

	history, err := o.archiver.MoveToHistory(ctx, &ended)
	if err != nil {
		return nil, err
	}

	next := o.newCycle(ctx, live.CycleNumber+1)
	if err := o.cycleRepo.ReplaceLive(ctx, next); err != nil {
		return nil, err
	}

	summary := &model.CycleTickSummary{
		PreviousEventID:     ended.ID,
		PreviousCycleNumber: ended.CycleNumber,
		NextEventID:         next.ID,
		NextCycleNumber:     next.CycleNumber,
		TotalEntries:        ended.TotalEntries,
		WinnerID:            model.ConvertNullString(ended.WinnerID),
		WinnerTicket:        model.ConvertNullInt64(ended.WinnerTicket),
		PrizeAmount:         ended.PrizeAmount,
	}

	return &transition{summary: summary, history: history}, nil
}

// drawWinner sets the winner fields of event. A ticket without an entry is
// a consistency violation, it is logged and the cycle ends without winner.
func (o *Orchestrator) drawWinner(ctx context.Context, event *entity.CycleEvent) error {
	ticket, err := winner.SelectWinnerTicket(event.RNGSeed.String, event.TotalEntries)
	if err != nil {
		return err
	}

	entry, err := o.entryRepo.GetByTicket(ctx, event.ID, ticket)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("No entry has ticket %d of cycle %s (%d entries), "+
				"the cycle ends without winner", ticket, event.ID, event.TotalEntries)
			return nil
		}

		return err
	}

	prize := PrizeAmount(event.TotalEntries, event.EntryCost, xcontext.Configs(ctx).Cycle.PayoutRatio)
	if err := o.cycleRepo.SetWinner(ctx, event.ID, entry.UserID, ticket, prize); err != nil {
		return err
	}

	event.WinnerID = sql.NullString{String: entry.UserID, Valid: true}
	event.WinnerTicket = sql.NullInt64{Int64: ticket, Valid: true}
	event.PrizeAmount = prize
	return nil
}

// afterTransition runs the follow-ups of a committed transition. None of them
// can undo the transition, failures are only logged.
func (o *Orchestrator) afterTransition(ctx context.Context, t *transition) {
	summary := t.summary
	xcontext.Logger(ctx).Infof("Cycle %d (%s) ended with %d entries, next cycle %d (%s)",
		summary.PreviousCycleNumber, summary.PreviousEventID, summary.TotalEntries,
		summary.NextCycleNumber, summary.NextEventID)

	hasWinner := summary.WinnerID != nil
	common.PromCounters[common.CycleTransitionsTotal].WithLabelValues(strconv.FormatBool(hasWinner)).Inc()

	if hasWinner && summary.PrizeAmount > 0 {
		_, err := o.ledger.Credit(ctx, ledger.Operation{
			UserID:       *summary.WinnerID,
			CurrencyType: entity.CurrencyGold,
			Amount:       summary.PrizeAmount,
			Description:  "Cycle prize",
			Metadata: model.CurrencyTransactionMetadata{
				EventID:     summary.PreviousEventID,
				CycleNumber: summary.PreviousCycleNumber,
			},
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot pay %d gold to winner %s of cycle %s: %v",
				summary.PrizeAmount, *summary.WinnerID, summary.PreviousEventID, err)
			common.PromCounters[common.CyclePayoutFailuresTotal].WithLabelValues().Inc()
		}
	}

	deleted := o.archiver.ClearEntries(ctx, summary.PreviousEventID)
	xcontext.Logger(ctx).Debugf("Deleted %d entries of cycle %s", deleted, summary.PreviousEventID)

	if err := o.archiver.ExportSnapshot(ctx, t.history); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot export snapshot of cycle %s: %v", summary.PreviousEventID, err)
	}

	o.invalidateCache(ctx)
	o.publish(ctx, summary)
}

func (o *Orchestrator) invalidateCache(ctx context.Context) {
	if o.redisClient == nil {
		return
	}

	if err := o.redisClient.Del(ctx, common.RedisKeyCurrentCycle()); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate the current cycle cache: %v", err)
	}
}

func (o *Orchestrator) publish(ctx context.Context, summary *model.CycleTickSummary) {
	if o.publisher == nil {
		return
	}

	b, err := json.Marshal(model.CycleCompletedEvent{
		CycleTickSummary: *summary,
		CompletedAt:      o.now().Format(model.DefaultTimeLayout),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal the cycle completed event: %v", err)
		return
	}

	err = o.publisher.Publish(ctx, xcontext.Configs(ctx).Cycle.NotificationTopic, &pubsub.Pack{
		Key: []byte(summary.PreviousEventID),
		Msg: b,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish the cycle completed event: %v", err)
	}
}

func (o *Orchestrator) newCycle(ctx context.Context, cycleNumber int64) *entity.CycleEvent {
	cfg := xcontext.Configs(ctx).Cycle
	now := o.now()
	return &entity.CycleEvent{
		ID:          uuid.NewString(),
		CycleNumber: cycleNumber,
		CycleFields: entity.CycleFields{
			StartTime: now,
			EndTime:   now.Add(cfg.Duration),
			EntryCost: cfg.EntryCost,
			Status:    entity.CycleStatusActive,
		},
	}
}

// PrizeAmount returns floor(totalEntries * entryCost * ratio). The ratio is
// applied in basis points with integer arithmetic.
func PrizeAmount(totalEntries int64, entryCost uint64, ratio float64) uint64 {
	if totalEntries <= 0 || ratio <= 0 {
		return 0
	}

	basisPoints := int64(math.Round(ratio * 10000))
	if basisPoints > 10000 {
		basisPoints = 10000
	}

	prize := new(big.Int).SetInt64(totalEntries)
	prize.Mul(prize, new(big.Int).SetUint64(entryCost))
	prize.Mul(prize, big.NewInt(basisPoints))
	prize.Quo(prize, big.NewInt(10000))
	if !prize.IsUint64() {
		return math.MaxUint64
	}

	return prize.Uint64()
}
