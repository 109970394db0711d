package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal               = "http_requests_total"
	HTTPRequestDurationSeconds     = "http_request_duration_seconds"
	CycleEntriesTotal              = "cycle_entries_total"
	CycleTransitionsTotal          = "cycle_transitions_total"
	CyclePayoutFailuresTotal       = "cycle_payout_failures_total"
	CycleEntryCleanupFailuresTotal = "cycle_entry_cleanup_failures_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "path", "code"}),
		CycleEntriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CycleEntriesTotal,
			Help: "Count of entry requests by result",
		}, []string{"result"}),
		CycleTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CycleTransitionsTotal,
			Help: "Count of cycle transitions",
		}, []string{"winner"}),
		CyclePayoutFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CyclePayoutFailuresTotal,
			Help: "Count of prize payouts which failed after the transition committed",
		}, []string{}),
		CycleEntryCleanupFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CycleEntryCleanupFailuresTotal,
			Help: "Count of entry batches which could not be deleted",
		}, []string{}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "path"}),
	}
)

// PromCollectors returns every collector of this service, used to build the
// metrics handler.
func PromCollectors() []prometheus.Collector {
	cs := []prometheus.Collector{}
	for _, c := range PromCounters {
		cs = append(cs, c)
	}

	for _, h := range PromHistograms {
		cs = append(cs, h)
	}

	return cs
}
