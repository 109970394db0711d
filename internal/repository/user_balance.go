package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserBalanceRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserBalance, error)
	Increase(ctx context.Context, userID string, currency entity.CurrencyType, amount uint64, now time.Time) error
	Decrease(ctx context.Context, userID string, currency entity.CurrencyType, amount uint64, now time.Time) error
}

type userBalanceRepository struct{}

func NewUserBalanceRepository() *userBalanceRepository {
	return &userBalanceRepository{}
}

func (r *userBalanceRepository) Get(ctx context.Context, userID string) (*entity.UserBalance, error) {
	var result entity.UserBalance
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// Increase creates the balance if the user has none.
func (r *userBalanceRepository) Increase(
	ctx context.Context, userID string, currency entity.CurrencyType, amount uint64, now time.Time,
) error {
	column := string(currency)
	balance := &entity.UserBalance{UserID: userID, LastUpdated: now}
	switch currency {
	case entity.CurrencyGold:
		balance.Gold = amount
	case entity.CurrencyGems:
		balance.Gems = amount
	case entity.CurrencyTokens:
		balance.Tokens = amount
	default:
		return fmt.Errorf("invalid currency %s", currency)
	}

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				column:         gorm.Expr(column+"+?", amount),
				"last_updated": now,
			}),
		}).
		Create(balance).Error
}

// Decrease returns gorm.ErrRecordNotFound if the user has no balance or the
// balance is less than amount. Nothing is changed in that case.
func (r *userBalanceRepository) Decrease(
	ctx context.Context, userID string, currency entity.CurrencyType, amount uint64, now time.Time,
) error {
	column := string(currency)
	switch currency {
	case entity.CurrencyGold, entity.CurrencyGems, entity.CurrencyTokens:
	default:
		return fmt.Errorf("invalid currency %s", currency)
	}

	tx := xcontext.DB(ctx).Model(&entity.UserBalance{}).
		Where("user_id=? AND "+column+">=?", userID, amount).
		Updates(map[string]any{
			column:         gorm.Expr(column+"-?", amount),
			"last_updated": now,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
