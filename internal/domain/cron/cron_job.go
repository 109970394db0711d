package cron

import (
	"context"
	"sync"
	"time"

	"github.com/questx-lab/lottery/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

type CronJobManager struct {
	mutex   sync.Mutex
	running sync.WaitGroup
	jobs    map[CronJob]*time.Timer
	stopped bool
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{jobs: make(map[CronJob]*time.Timer)}
}

func (m *CronJobManager) Register(job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.jobs[job] = nil
}

// Start schedules every registered job and blocks until ctx is done. It then
// stops scheduling and waits for the running jobs.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started")

	m.mutex.Lock()
	jobs := make([]CronJob, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mutex.Unlock()

	for _, job := range jobs {
		if job.RunNow() {
			m.running.Add(1)
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	<-ctx.Done()
	m.cancel()
	m.running.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) cancel() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.stopped = true
	for _, timer := range m.jobs {
		if timer != nil && timer.Stop() {
			// The job will never run, release its slot.
			m.running.Done()
		}
	}
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	defer m.running.Done()

	xcontext.Logger(ctx).Debugf("%T is running...", job)
	job.Do(ctx)
	xcontext.Logger(ctx).Debugf("%T ok", job)

	m.schedule(ctx, job)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return
	}

	// Only schedule jobs which existed in job list.
	if _, ok := m.jobs[job]; ok {
		m.running.Add(1)
		m.jobs[job] = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
	}
}
