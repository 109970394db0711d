package cron

import (
	"context"
	"time"

	"github.com/questx-lab/lottery/internal/model"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

type CycleTicker interface {
	Tick(ctx context.Context) (*model.CycleTickSummary, error)
}

// CycleTransitionCronJob triggers the cycle orchestrator every
// Cycle.TickInterval. A tick which fails is simply retried by the next one.
type CycleTransitionCronJob struct {
	ticker   CycleTicker
	interval time.Duration
}

func NewCycleTransitionCronJob(ticker CycleTicker, interval time.Duration) *CycleTransitionCronJob {
	return &CycleTransitionCronJob{ticker: ticker, interval: interval}
}

func (job *CycleTransitionCronJob) Do(ctx context.Context) {
	summary, err := job.ticker.Tick(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot tick the cycle: %v", err)
		return
	}

	if summary != nil {
		xcontext.Logger(ctx).Infof("Cycle transition: %d -> %d, winner %v",
			summary.PreviousCycleNumber, summary.NextCycleNumber, summary.WinnerID != nil)
	}
}

func (job *CycleTransitionCronJob) RunNow() bool {
	return true
}

func (job *CycleTransitionCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
