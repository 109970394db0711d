package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/questx-lab/lottery/internal/model"
	"github.com/stretchr/testify/require"
)

type countingTicker struct {
	calls atomic.Int32
	err   error
}

func (c *countingTicker) Tick(context.Context) (*model.CycleTickSummary, error) {
	c.calls.Add(1)
	return nil, c.err
}

func TestCronJobManager_RunsRepeatedly(t *testing.T) {
	ticker := &countingTicker{}
	m := NewCronJobManager()
	m.Register(NewCycleTransitionCronJob(ticker, 5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return ticker.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cron job manager did not stop")
	}

	// No more runs after stopping.
	calls := ticker.calls.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, calls, ticker.calls.Load())
}

func TestCycleTransitionCronJob_ErrorIsNotFatal(t *testing.T) {
	ticker := &countingTicker{err: errors.New("store unavailable")}
	job := NewCycleTransitionCronJob(ticker, time.Minute)

	job.Do(context.Background())
	job.Do(context.Background())
	require.Equal(t, int32(2), ticker.calls.Load())
	require.True(t, job.RunNow())
	require.WithinDuration(t, time.Now().Add(time.Minute), job.Next(), time.Second)
}
