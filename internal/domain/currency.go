package domain

import (
	"context"

	"github.com/questx-lab/lottery/internal/domain/ledger"
	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/internal/model"
	"github.com/questx-lab/lottery/internal/repository"
	"github.com/questx-lab/lottery/pkg/enum"
	"github.com/questx-lab/lottery/pkg/errorx"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

type CurrencyDomain interface {
	GetMyBalance(context.Context, *model.GetMyBalanceRequest) (*model.GetMyBalanceResponse, error)
	GetMyTransactions(context.Context, *model.GetMyCurrencyTransactionsRequest) (*model.GetMyCurrencyTransactionsResponse, error)
}

type currencyDomain struct {
	ledger          ledger.Ledger
	transactionRepo repository.CurrencyTransactionRepository
}

func NewCurrencyDomain(
	ledger ledger.Ledger,
	transactionRepo repository.CurrencyTransactionRepository,
) *currencyDomain {
	return &currencyDomain{ledger: ledger, transactionRepo: transactionRepo}
}

func (d *currencyDomain) GetMyBalance(
	ctx context.Context, req *model.GetMyBalanceRequest,
) (*model.GetMyBalanceResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	balance, err := d.ledger.GetBalance(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyBalanceResponse{Balance: model.ConvertBalance(balance)}, nil
}

func (d *currencyDomain) GetMyTransactions(
	ctx context.Context, req *model.GetMyCurrencyTransactionsRequest,
) (*model.GetMyCurrencyTransactionsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset and limit must be positive")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	filter := repository.CurrencyTransactionFilter{
		UserID: userID,
		Offset: req.Offset,
		Limit:  req.Limit,
	}

	if req.CurrencyType != "" {
		currency, err := enum.ToEnum[entity.CurrencyType](req.CurrencyType)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid currency type: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid currency type")
		}
		filter.CurrencyType = currency
	}

	txs, err := d.transactionRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get currency transactions: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.CurrencyTransaction{}
	for i := range txs {
		tx, err := model.ConvertCurrencyTransaction(&txs[i])
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot decode metadata of transaction %d: %v", txs[i].ID, err)
			return nil, errorx.Unknown
		}

		result = append(result, tx)
	}

	return &model.GetMyCurrencyTransactionsResponse{Transactions: result}, nil
}
