package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/questx-lab/lottery/internal/common"
	"github.com/questx-lab/lottery/pkg/errorx"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestPrometheus(t *testing.T) {
	counter := common.PromCounters[common.HTTPRequestTotal]

	r := httptest.NewRequest(http.MethodGet, "/getCurrentCycle", nil)
	ctx := xcontext.WithStartTime(newRequestContext(r), time.Now())

	before := testutil.ToFloat64(counter.WithLabelValues(http.MethodGet, "/getCurrentCycle", "0"))
	Prometheus()(ctx)
	require.Equal(t, before+1, testutil.ToFloat64(counter.WithLabelValues(http.MethodGet, "/getCurrentCycle", "0")))

	code := "100004"
	before = testutil.ToFloat64(counter.WithLabelValues(http.MethodGet, "/getCurrentCycle", code))
	Prometheus()(xcontext.WithError(ctx, errorx.New(errorx.NotFound, "No cycle is running")))
	require.Equal(t, before+1, testutil.ToFloat64(counter.WithLabelValues(http.MethodGet, "/getCurrentCycle", code)))

	before = testutil.ToFloat64(counter.WithLabelValues(http.MethodGet, "/getCurrentCycle", "-1"))
	Prometheus()(xcontext.WithError(ctx, errors.New("boom")))
	require.Equal(t, before+1, testutil.ToFloat64(counter.WithLabelValues(http.MethodGet, "/getCurrentCycle", "-1")))
}

func TestLogger(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/enterCycle", nil)
	ctx := newRequestContext(r)

	require.NotPanics(t, func() {
		Logger()(ctx)
		Logger()(xcontext.WithError(ctx, errorx.New(errorx.AlreadyExists, "User already entered this event")))
		Logger()(xcontext.WithError(ctx, errors.New("boom")))
	})
}
