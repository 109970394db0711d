package repository

import (
	"context"

	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

type CycleEntryRepository interface {
	Create(ctx context.Context, entry *entity.CycleEntry) error
	Get(ctx context.Context, cycleID, userID string) (*entity.CycleEntry, error)
	GetByIdempotencyKey(ctx context.Context, cycleID, key string) (*entity.CycleEntry, error)
	GetByTicket(ctx context.Context, cycleID string, ticket int64) (*entity.CycleEntry, error)
	GetListByCycleID(ctx context.Context, cycleID string) ([]entity.CycleEntry, error)
	GetUserIDsByCycleID(ctx context.Context, cycleID string, limit int) ([]string, error)
	DeleteByUserIDs(ctx context.Context, cycleID string, userIDs []string) (int64, error)
}

type cycleEntryRepository struct{}

func NewCycleEntryRepository() *cycleEntryRepository {
	return &cycleEntryRepository{}
}

func (r *cycleEntryRepository) Create(ctx context.Context, entry *entity.CycleEntry) error {
	return xcontext.DB(ctx).Create(entry).Error
}

func (r *cycleEntryRepository) Get(ctx context.Context, cycleID, userID string) (*entity.CycleEntry, error) {
	var result entity.CycleEntry
	err := xcontext.DB(ctx).Take(&result, "cycle_id=? AND user_id=?", cycleID, userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cycleEntryRepository) GetByIdempotencyKey(
	ctx context.Context, cycleID, key string,
) (*entity.CycleEntry, error) {
	var result entity.CycleEntry
	err := xcontext.DB(ctx).Take(&result, "cycle_id=? AND idempotency_key=?", cycleID, key).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cycleEntryRepository) GetByTicket(
	ctx context.Context, cycleID string, ticket int64,
) (*entity.CycleEntry, error) {
	var result entity.CycleEntry
	err := xcontext.DB(ctx).Take(&result, "cycle_id=? AND ticket_number=?", cycleID, ticket).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cycleEntryRepository) GetListByCycleID(ctx context.Context, cycleID string) ([]entity.CycleEntry, error) {
	var result []entity.CycleEntry
	err := xcontext.DB(ctx).
		Where("cycle_id=?", cycleID).
		Order("ticket_number ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *cycleEntryRepository) GetUserIDsByCycleID(
	ctx context.Context, cycleID string, limit int,
) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.CycleEntry{}).
		Where("cycle_id=?", cycleID).
		Limit(limit).
		Pluck("user_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *cycleEntryRepository) DeleteByUserIDs(
	ctx context.Context, cycleID string, userIDs []string,
) (int64, error) {
	tx := xcontext.DB(ctx).
		Where("cycle_id=? AND user_id IN (?)", cycleID, userIDs).
		Delete(&entity.CycleEntry{})
	return tx.RowsAffected, tx.Error
}
