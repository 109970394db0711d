// Package ledger moves currency in and out of user balances. Every movement
// updates the balance and appends one immutable transaction record in the
// same database transaction.
package ledger

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fatih/structs"
	"github.com/questx-lab/lottery/internal/common"
	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/internal/model"
	"github.com/questx-lab/lottery/internal/repository"
	"github.com/questx-lab/lottery/pkg/enum"
	"gorm.io/gorm"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCurrency   = errors.New("invalid currency")
)

type Operation struct {
	UserID       string
	CurrencyType entity.CurrencyType
	Amount       uint64
	Description  string
	Metadata     model.CurrencyTransactionMetadata
}

type Ledger interface {
	Debit(ctx context.Context, op Operation) (*entity.CurrencyTransaction, error)
	Credit(ctx context.Context, op Operation) (*entity.CurrencyTransaction, error)
	GetBalance(ctx context.Context, userID string) (*entity.UserBalance, error)
}

type ledger struct {
	balanceRepo     repository.UserBalanceRepository
	transactionRepo repository.CurrencyTransactionRepository
	node            *snowflake.Node
	now             func() time.Time
}

func New(
	balanceRepo repository.UserBalanceRepository,
	transactionRepo repository.CurrencyTransactionRepository,
	node *snowflake.Node,
) *ledger {
	return &ledger{
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		node:            node,
		now:             time.Now,
	}
}

// Debit fails with ErrInsufficientFunds, changing nothing, if the balance is
// less than the amount. It joins the transaction of ctx if there is one.
func (l *ledger) Debit(ctx context.Context, op Operation) (*entity.CurrencyTransaction, error) {
	if err := validate(op); err != nil {
		return nil, err
	}

	var record *entity.CurrencyTransaction
	err := common.RunInTransaction(ctx, func(ctx context.Context) error {
		now := l.now()
		err := l.balanceRepo.Decrease(ctx, op.UserID, op.CurrencyType, op.Amount, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsufficientFunds
			}

			return err
		}

		record, err = l.appendRecord(ctx, op, entity.CurrencyTransactionSpend, -int64(op.Amount), now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Credit creates the balance of the user if it does not exist yet.
func (l *ledger) Credit(ctx context.Context, op Operation) (*entity.CurrencyTransaction, error) {
	if err := validate(op); err != nil {
		return nil, err
	}

	var record *entity.CurrencyTransaction
	err := common.RunInTransaction(ctx, func(ctx context.Context) error {
		now := l.now()
		err := l.balanceRepo.Increase(ctx, op.UserID, op.CurrencyType, op.Amount, now)
		if err != nil {
			return err
		}

		record, err = l.appendRecord(ctx, op, entity.CurrencyTransactionReward, int64(op.Amount), now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetBalance returns an empty balance for users who never had one.
func (l *ledger) GetBalance(ctx context.Context, userID string) (*entity.UserBalance, error) {
	balance, err := l.balanceRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.UserBalance{UserID: userID}, nil
		}

		return nil, err
	}

	return balance, nil
}

func (l *ledger) appendRecord(
	ctx context.Context,
	op Operation,
	txType entity.CurrencyTransactionType,
	amount int64,
	now time.Time,
) (*entity.CurrencyTransaction, error) {
	balance, err := l.balanceRepo.Get(ctx, op.UserID)
	if err != nil {
		return nil, err
	}

	record := &entity.CurrencyTransaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: l.node.Generate().Int64()},
		UserID:        op.UserID,
		Type:          txType,
		CurrencyType:  op.CurrencyType,
		Amount:        amount,
		BalanceAfter:  balance.Amount(op.CurrencyType),
		Description:   op.Description,
		Metadata:      structs.Map(op.Metadata),
		Timestamp:     now,
	}

	if err := l.transactionRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func validate(op Operation) error {
	if op.Amount == 0 || op.Amount > math.MaxInt64 {
		return ErrInvalidAmount
	}

	if _, err := enum.ToEnum[entity.CurrencyType](string(op.CurrencyType)); err != nil {
		return ErrInvalidCurrency
	}

	return nil
}
