package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/lottery/internal/common"
	"github.com/questx-lab/lottery/pkg/errorx"
	"github.com/questx-lab/lottery/pkg/router"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)

		req := xcontext.HTTPRequest(ctx)
		code := 0
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}
		path := req.URL.Path

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(req.Method, path, fmt.Sprint(code)).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(req.Method, path).Observe(time.Since(startTime).Seconds())
	}
}
