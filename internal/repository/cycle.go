package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CycleRepository interface {
	// Live cycle
	GetLive(ctx context.Context) (*entity.CycleEvent, error)
	GetLiveForUpdate(ctx context.Context) (*entity.CycleEvent, error)
	CreateLive(ctx context.Context, event *entity.CycleEvent) (bool, error)
	ReplaceLive(ctx context.Context, event *entity.CycleEvent) error
	MarkEnded(ctx context.Context, eventID string, processedAt time.Time, seed sql.NullString) error
	SetWinner(ctx context.Context, eventID, winnerID string, ticket int64, prize uint64) error
	IncreaseEntries(ctx context.Context, eventID string, cost uint64) error

	// History
	CreateHistory(ctx context.Context, history *entity.CycleHistory) error
	GetHistoryByID(ctx context.Context, eventID string) (*entity.CycleHistory, error)
	GetHistoryList(ctx context.Context, offset, limit int) ([]entity.CycleHistory, error)
}

type cycleRepository struct{}

func NewCycleRepository() *cycleRepository {
	return &cycleRepository{}
}

func (r *cycleRepository) GetLive(ctx context.Context) (*entity.CycleEvent, error) {
	var result entity.CycleEvent
	if err := xcontext.DB(ctx).Take(&result, "slot=?", entity.LiveCycleSlot).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetLiveForUpdate reads the live cycle and locks it until the transaction of
// ctx ends.
func (r *cycleRepository) GetLiveForUpdate(ctx context.Context) (*entity.CycleEvent, error) {
	var result entity.CycleEvent
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "slot=?", entity.LiveCycleSlot).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateLive inserts the live cycle if there is none. It returns false if
// another live cycle already exists.
func (r *cycleRepository) CreateLive(ctx context.Context, event *entity.CycleEvent) (bool, error) {
	event.Slot = entity.LiveCycleSlot
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slot"}}, DoNothing: true}).
		Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *cycleRepository) ReplaceLive(ctx context.Context, event *entity.CycleEvent) error {
	event.Slot = entity.LiveCycleSlot
	return xcontext.DB(ctx).Save(event).Error
}

// MarkEnded moves the live cycle from active to ended. It returns
// gorm.ErrRecordNotFound if the cycle is not the live one or is not active.
func (r *cycleRepository) MarkEnded(
	ctx context.Context, eventID string, processedAt time.Time, seed sql.NullString,
) error {
	tx := xcontext.DB(ctx).Model(&entity.CycleEvent{}).
		Where("slot=? AND id=? AND status=?", entity.LiveCycleSlot, eventID, entity.CycleStatusActive).
		Updates(map[string]any{
			"status":       entity.CycleStatusEnded,
			"processed_at": processedAt,
			"rng_seed":     seed,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cycleRepository) SetWinner(
	ctx context.Context, eventID, winnerID string, ticket int64, prize uint64,
) error {
	return xcontext.DB(ctx).Model(&entity.CycleEvent{}).
		Where("slot=? AND id=?", entity.LiveCycleSlot, eventID).
		Updates(map[string]any{
			"winner_id":     winnerID,
			"winner_ticket": ticket,
			"prize_amount":  prize,
		}).Error
}

// IncreaseEntries counts one more entry and adds its cost to the prize pool.
// It returns gorm.ErrRecordNotFound if the cycle is not the active live one.
func (r *cycleRepository) IncreaseEntries(ctx context.Context, eventID string, cost uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.CycleEvent{}).
		Where("slot=? AND id=? AND status=?", entity.LiveCycleSlot, eventID, entity.CycleStatusActive).
		Updates(map[string]any{
			"total_entries": gorm.Expr("total_entries+?", 1),
			"prize_pool":    gorm.Expr("prize_pool+?", cost),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CreateHistory does nothing if the history of this cycle was already written.
func (r *cycleRepository) CreateHistory(ctx context.Context, history *entity.CycleHistory) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(history).Error
}

func (r *cycleRepository) GetHistoryByID(ctx context.Context, eventID string) (*entity.CycleHistory, error) {
	var result entity.CycleHistory
	if err := xcontext.DB(ctx).Take(&result, "id=?", eventID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cycleRepository) GetHistoryList(ctx context.Context, offset, limit int) ([]entity.CycleHistory, error) {
	var result []entity.CycleHistory
	err := xcontext.DB(ctx).
		Order("cycle_number DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
