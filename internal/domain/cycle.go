package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/lottery/internal/common"
	"github.com/questx-lab/lottery/internal/domain/ledger"
	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/internal/model"
	"github.com/questx-lab/lottery/internal/repository"
	"github.com/questx-lab/lottery/pkg/errorx"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"github.com/questx-lab/lottery/pkg/xredis"
	"gorm.io/gorm"
)

// Column sizes of cycle_entries.
const (
	maxEventIDLength        = 36
	maxIdempotencyKeyLength = 128
)

type CycleDomain interface {
	Enter(context.Context, *model.EnterCycleRequest) (*model.EnterCycleResponse, error)
	GetCurrent(context.Context, *model.GetCurrentCycleRequest) (*model.GetCurrentCycleResponse, error)
	GetMyEntry(context.Context, *model.GetMyEntryRequest) (*model.GetMyEntryResponse, error)
	GetHistory(context.Context, *model.GetCycleHistoryRequest) (*model.GetCycleHistoryResponse, error)
	GetServerTime(context.Context, *model.GetServerTimeRequest) (*model.GetServerTimeResponse, error)
}

type cycleDomain struct {
	cycleRepo   repository.CycleRepository
	entryRepo   repository.CycleEntryRepository
	ledger      ledger.Ledger
	redisClient xredis.Client
	now         func() time.Time
}

func NewCycleDomain(
	cycleRepo repository.CycleRepository,
	entryRepo repository.CycleEntryRepository,
	ledger ledger.Ledger,
	redisClient xredis.Client,
) *cycleDomain {
	return &cycleDomain{
		cycleRepo:   cycleRepo,
		entryRepo:   entryRepo,
		ledger:      ledger,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (d *cycleDomain) Enter(
	ctx context.Context, req *model.EnterCycleRequest,
) (*model.EnterCycleResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if req.EventID == "" || req.IdempotencyKey == "" {
		countEntry("invalid")
		return nil, errorx.New(errorx.BadRequest, "Require event id and idempotency key")
	}

	if len(req.EventID) > maxEventIDLength {
		countEntry("invalid")
		return nil, errorx.New(errorx.BadRequest, "Event id is too long (max %d)", maxEventIDLength)
	}

	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		countEntry("invalid")
		return nil, errorx.New(errorx.BadRequest, "Idempotency key is too long (max %d)", maxIdempotencyKeyLength)
	}

	var resp *model.EnterCycleResponse
	err := common.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		resp, err = d.enter(ctx, userID, req)
		return err
	})
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			xcontext.Logger(ctx).Debugf("Entry of %s to %s rejected: %v", userID, req.EventID, err)
			countEntry("rejected")
			return nil, err
		}

		xcontext.Logger(ctx).Errorf("Cannot enter the cycle: %v", err)
		countEntry("error")
		return nil, errorx.New(errorx.Internal, "Cannot enter the cycle")
	}

	if resp.AlreadyEntered {
		countEntry("already_entered")
		return resp, nil
	}

	countEntry("success")
	d.invalidateCurrent(ctx)
	return resp, nil
}

// enter runs inside one transaction. The live cycle row is locked first, so
// concurrent entries are serialized and read the same counters they update.
func (d *cycleDomain) enter(
	ctx context.Context, userID string, req *model.EnterCycleRequest,
) (*model.EnterCycleResponse, error) {
	live, err := d.cycleRepo.GetLiveForUpdate(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	_, err = d.entryRepo.GetByIdempotencyKey(ctx, req.EventID, req.IdempotencyKey)
	if err == nil {
		return &model.EnterCycleResponse{AlreadyEntered: true}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if live == nil || live.ID != req.EventID {
		_, err := d.cycleRepo.GetHistoryByID(ctx, req.EventID)
		if err == nil {
			return nil, errorx.New(errorx.FailedPrecondition, "Event ended")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		return nil, errorx.New(errorx.NotFound, "Not found event")
	}

	if live.Status != entity.CycleStatusActive {
		return nil, errorx.New(errorx.FailedPrecondition, "Event ended")
	}

	now := d.now()
	if !now.Before(live.EndTime) {
		return nil, errorx.New(errorx.FailedPrecondition, "Event expired")
	}

	_, err = d.entryRepo.Get(ctx, live.ID, userID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "User already entered this event")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	balance, err := d.ledger.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	if balance.Gold < live.EntryCost {
		return nil, errorx.New(errorx.FailedPrecondition, "Insufficient funds")
	}

	ticket := live.TotalEntries
	if live.EntryCost > 0 {
		_, err = d.ledger.Debit(ctx, ledger.Operation{
			UserID:       userID,
			CurrencyType: entity.CurrencyGold,
			Amount:       live.EntryCost,
			Description:  "Cycle entry",
			Metadata: model.CurrencyTransactionMetadata{
				EventID:      live.ID,
				CycleNumber:  live.CycleNumber,
				TicketNumber: &ticket,
			},
		})
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientFunds) {
				return nil, errorx.New(errorx.FailedPrecondition, "Insufficient funds")
			}

			return nil, err
		}
	}

	err = d.entryRepo.Create(ctx, &entity.CycleEntry{
		CycleID:        live.ID,
		UserID:         userID,
		TicketNumber:   ticket,
		IdempotencyKey: req.IdempotencyKey,
		EntryTime:      now,
		GoldPaid:       live.EntryCost,
	})
	if err != nil {
		return nil, err
	}

	if err := d.cycleRepo.IncreaseEntries(ctx, live.ID, live.EntryCost); err != nil {
		return nil, err
	}

	return &model.EnterCycleResponse{Success: true, TicketNumber: &ticket}, nil
}

func (d *cycleDomain) GetCurrent(
	ctx context.Context, req *model.GetCurrentCycleRequest,
) (*model.GetCurrentCycleResponse, error) {
	var cached model.Cycle
	err := d.redisClient.GetObj(ctx, common.RedisKeyCurrentCycle(), &cached)
	if err == nil {
		return &model.GetCurrentCycleResponse{Cycle: cached}, nil
	}

	if !errors.Is(err, xredis.ErrNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot get the current cycle from cache: %v", err)
	}

	live, err := d.cycleRepo.GetLive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No cycle is running")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the current cycle: %v", err)
		return nil, errorx.Unknown
	}

	cycle := model.ConvertCycle(live)
	ttl := xcontext.Configs(ctx).Cycle.CurrentCacheTTL
	if err := d.redisClient.SetObj(ctx, common.RedisKeyCurrentCycle(), cycle, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache the current cycle: %v", err)
		return &model.GetCurrentCycleResponse{Cycle: cycle}, nil
	}

	// An entry or transition may have committed and invalidated the key
	// between the read above and the write. Drop what was just cached if the
	// row moved on.
	latest, err := d.cycleRepo.GetLive(ctx)
	if err != nil || !sameCycleState(live, latest) {
		d.invalidateCurrent(ctx)
	}

	return &model.GetCurrentCycleResponse{Cycle: cycle}, nil
}

func sameCycleState(a, b *entity.CycleEvent) bool {
	return a.ID == b.ID &&
		a.Status == b.Status &&
		a.TotalEntries == b.TotalEntries &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

func (d *cycleDomain) GetMyEntry(
	ctx context.Context, req *model.GetMyEntryRequest,
) (*model.GetMyEntryResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event id")
	}

	entry, err := d.entryRepo.Get(ctx, req.EventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found entry")
		}

		xcontext.Logger(ctx).Errorf("Cannot get entry: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyEntryResponse{Entry: model.ConvertCycleEntry(entry)}, nil
}

func (d *cycleDomain) GetHistory(
	ctx context.Context, req *model.GetCycleHistoryRequest,
) (*model.GetCycleHistoryResponse, error) {
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

	histories, err := d.cycleRepo.GetHistoryList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get cycle history: %v", err)
		return nil, errorx.Unknown
	}

	cycles := []model.Cycle{}
	for i := range histories {
		cycles = append(cycles, model.ConvertCycleHistory(&histories[i]))
	}

	return &model.GetCycleHistoryResponse{Cycles: cycles}, nil
}

func (d *cycleDomain) GetServerTime(
	ctx context.Context, req *model.GetServerTimeRequest,
) (*model.GetServerTimeResponse, error) {
	return &model.GetServerTimeResponse{ServerTime: d.now().UnixMilli()}, nil
}

func (d *cycleDomain) invalidateCurrent(ctx context.Context) {
	if err := d.redisClient.Del(ctx, common.RedisKeyCurrentCycle()); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate the current cycle cache: %v", err)
	}
}

func countEntry(result string) {
	common.PromCounters[common.CycleEntriesTotal].WithLabelValues(result).Inc()
}
