package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/lottery/config"
	"github.com/questx-lab/lottery/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	requestUserIDKey struct{}
	httpRequestKey   struct{}
	startTimeKey     struct{}
	errorKey         struct{}
	responseKey      struct{}
)

var defaultLogger = logger.NewLogger(logger.INFO)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, _ := ctx.Value(configsKey{}).(config.Configs)
	return cfg
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}

	return defaultLogger
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, userID)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(requestUserIDKey{}).(string)
	return id
}

func WithHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

func HTTPRequest(ctx context.Context) *http.Request {
	req, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return req
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey{}).(time.Time)
	return t
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}
