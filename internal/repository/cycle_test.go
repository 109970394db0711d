package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/questx-lab/lottery/internal/entity"
	"github.com/questx-lab/lottery/pkg/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CycleTestSuite struct {
	suite.Suite

	ctx       context.Context
	cycleRepo CycleRepository
	entryRepo CycleEntryRepository
	now       time.Time
}

func TestCycleSuite(t *testing.T) {
	suite.Run(t, new(CycleTestSuite))
}

func (suite *CycleTestSuite) SetupTest() {
	suite.ctx = testutil.MockContext()
	suite.cycleRepo = NewCycleRepository()
	suite.entryRepo = NewCycleEntryRepository()
	suite.now = time.Now().UTC().Truncate(time.Second)
}

func (suite *CycleTestSuite) newEvent(id string, number int64) *entity.CycleEvent {
	return &entity.CycleEvent{
		ID:          id,
		CycleNumber: number,
		CycleFields: entity.CycleFields{
			StartTime: suite.now,
			EndTime:   suite.now.Add(time.Hour),
			EntryCost: 100,
			Status:    entity.CycleStatusActive,
		},
	}
}

func (suite *CycleTestSuite) TestCreateLiveOnlyOnce() {
	t := suite.T()

	created, err := suite.cycleRepo.CreateLive(suite.ctx, suite.newEvent("event-1", 1))
	require.NoError(t, err)
	require.True(t, created)

	created, err = suite.cycleRepo.CreateLive(suite.ctx, suite.newEvent("event-2", 1))
	require.NoError(t, err)
	require.False(t, created)

	live, err := suite.cycleRepo.GetLiveForUpdate(suite.ctx)
	require.NoError(t, err)
	require.Equal(t, "event-1", live.ID)
	require.Equal(t, entity.LiveCycleSlot, live.Slot)
}

func (suite *CycleTestSuite) TestIncreaseEntriesAndMarkEnded() {
	t := suite.T()

	_, err := suite.cycleRepo.CreateLive(suite.ctx, suite.newEvent("event-1", 1))
	require.NoError(t, err)

	require.NoError(t, suite.cycleRepo.IncreaseEntries(suite.ctx, "event-1", 100))
	require.NoError(t, suite.cycleRepo.IncreaseEntries(suite.ctx, "event-1", 100))
	require.ErrorIs(t, suite.cycleRepo.IncreaseEntries(suite.ctx, "event-x", 100), gorm.ErrRecordNotFound)

	seed := sql.NullString{String: "abcd", Valid: true}
	require.NoError(t, suite.cycleRepo.MarkEnded(suite.ctx, "event-1", suite.now, seed))
	require.ErrorIs(t, suite.cycleRepo.MarkEnded(suite.ctx, "event-1", suite.now, seed), gorm.ErrRecordNotFound)
	require.ErrorIs(t, suite.cycleRepo.IncreaseEntries(suite.ctx, "event-1", 100), gorm.ErrRecordNotFound)

	require.NoError(t, suite.cycleRepo.SetWinner(suite.ctx, "event-1", "user1", 1, 140))

	live, err := suite.cycleRepo.GetLive(suite.ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), live.TotalEntries)
	require.Equal(t, uint64(200), live.PrizePool)
	require.Equal(t, entity.CycleStatusEnded, live.Status)
	require.Equal(t, "abcd", live.RNGSeed.String)
	require.True(t, live.ProcessedAt.Valid)
	require.Equal(t, "user1", live.WinnerID.String)
	require.Equal(t, int64(1), live.WinnerTicket.Int64)
	require.Equal(t, uint64(140), live.PrizeAmount)
}

func (suite *CycleTestSuite) TestReplaceLive() {
	t := suite.T()

	_, err := suite.cycleRepo.CreateLive(suite.ctx, suite.newEvent("event-1", 1))
	require.NoError(t, err)
	require.NoError(t, suite.cycleRepo.ReplaceLive(suite.ctx, suite.newEvent("event-2", 2)))

	live, err := suite.cycleRepo.GetLive(suite.ctx)
	require.NoError(t, err)
	require.Equal(t, "event-2", live.ID)
	require.Equal(t, int64(2), live.CycleNumber)
	require.False(t, live.WinnerID.Valid)
}

func (suite *CycleTestSuite) TestHistory() {
	t := suite.T()

	for i, id := range []string{"event-1", "event-2", "event-3"} {
		require.NoError(t, suite.cycleRepo.CreateHistory(suite.ctx, &entity.CycleHistory{
			ID:          id,
			CycleNumber: int64(i + 1),
			CycleFields: entity.CycleFields{Status: entity.CycleStatusEnded},
			ArchivedAt:  suite.now,
		}))
	}

	// Writing the same history again changes nothing.
	require.NoError(t, suite.cycleRepo.CreateHistory(suite.ctx, &entity.CycleHistory{
		ID:          "event-1",
		CycleNumber: 1,
		CycleFields: entity.CycleFields{Status: entity.CycleStatusEnded, TotalEntries: 9},
		ArchivedAt:  suite.now,
	}))

	history, err := suite.cycleRepo.GetHistoryByID(suite.ctx, "event-1")
	require.NoError(t, err)
	require.Zero(t, history.TotalEntries)

	_, err = suite.cycleRepo.GetHistoryByID(suite.ctx, "event-x")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, err := suite.cycleRepo.GetHistoryList(suite.ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "event-2", list[0].ID)
	require.Equal(t, "event-1", list[1].ID)
}

func (suite *CycleTestSuite) TestEntries() {
	t := suite.T()

	for i, user := range []string{"user1", "user2", "user3"} {
		require.NoError(t, suite.entryRepo.Create(suite.ctx, &entity.CycleEntry{
			CycleID:        "event-1",
			UserID:         user,
			TicketNumber:   int64(i),
			IdempotencyKey: "key-" + user,
			EntryTime:      suite.now,
			GoldPaid:       100,
		}))
	}

	// Ticket numbers and idempotency keys are unique within a cycle.
	require.Error(t, suite.entryRepo.Create(suite.ctx, &entity.CycleEntry{
		CycleID: "event-1", UserID: "user4", TicketNumber: 0, IdempotencyKey: "key-user4",
	}))
	require.Error(t, suite.entryRepo.Create(suite.ctx, &entity.CycleEntry{
		CycleID: "event-1", UserID: "user4", TicketNumber: 3, IdempotencyKey: "key-user1",
	}))

	// The same ticket is allowed in another cycle.
	require.NoError(t, suite.entryRepo.Create(suite.ctx, &entity.CycleEntry{
		CycleID: "event-2", UserID: "user1", TicketNumber: 0, IdempotencyKey: "key-user1",
	}))

	entry, err := suite.entryRepo.GetByTicket(suite.ctx, "event-1", 2)
	require.NoError(t, err)
	require.Equal(t, "user3", entry.UserID)

	entry, err = suite.entryRepo.GetByIdempotencyKey(suite.ctx, "event-1", "key-user2")
	require.NoError(t, err)
	require.Equal(t, int64(1), entry.TicketNumber)

	entries, err := suite.entryRepo.GetListByCycleID(suite.ctx, "event-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "user1", entries[0].UserID)

	userIDs, err := suite.entryRepo.GetUserIDsByCycleID(suite.ctx, "event-1", 2)
	require.NoError(t, err)
	require.Len(t, userIDs, 2)

	deleted, err := suite.entryRepo.DeleteByUserIDs(suite.ctx, "event-1", userIDs)
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	entries, err = suite.entryRepo.GetListByCycleID(suite.ctx, "event-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = suite.entryRepo.Get(suite.ctx, "event-2", "user1")
	require.NoError(t, err)
}
