package repository

import (
	"context"

	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

type CurrencyTransactionFilter struct {
	UserID       string
	CurrencyType entity.CurrencyType
	Offset       int
	Limit        int
}

type CurrencyTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CurrencyTransaction) error
	GetList(ctx context.Context, filter CurrencyTransactionFilter) ([]entity.CurrencyTransaction, error)
}

type currencyTransactionRepository struct{}

func NewCurrencyTransactionRepository() *currencyTransactionRepository {
	return &currencyTransactionRepository{}
}

func (r *currencyTransactionRepository) Create(ctx context.Context, tx *entity.CurrencyTransaction) error {
	return xcontext.DB(ctx).Create(tx).Error
}

// GetList returns the transactions of a user, newest first. An empty
// CurrencyType matches every currency.
func (r *currencyTransactionRepository) GetList(
	ctx context.Context, filter CurrencyTransactionFilter,
) ([]entity.CurrencyTransaction, error) {
	tx := xcontext.DB(ctx).Where("user_id=?", filter.UserID)
	if filter.CurrencyType != "" {
		tx = tx.Where("currency_type=?", filter.CurrencyType)
	}

	var result []entity.CurrencyTransaction
	err := tx.Order("id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
