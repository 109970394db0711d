package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/lottery/config"
	"github.com/questx-lab/lottery/pkg/errorx"
	"github.com/questx-lab/lottery/pkg/router"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

type echoResponse struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
	User  string `json:"user,omitempty"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty name")
	}

	return &echoResponse{Name: req.Name, Limit: req.Limit, User: xcontext.RequestUserID(ctx)}, nil
}

func do(t *testing.T, h http.Handler, method, target, body string) envelope {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRouter_GET(t *testing.T) {
	r := router.New(context.Background())
	router.GET(r, "/echo", echo)
	h := r.Handler(config.ServerConfigs{AllowedOrigins: []string{"*"}})

	env := do(t, h, http.MethodGet, "/echo?name=foo&limit=5", "")
	require.Equal(t, int64(0), env.Code)
	require.Equal(t, "foo", env.Data.Name)
	require.Equal(t, 5, env.Data.Limit)

	env = do(t, h, http.MethodGet, "/echo", "")
	require.Equal(t, int64(errorx.BadRequest), env.Code)
	require.Equal(t, "Empty name", env.Error)
}

func TestRouter_POST(t *testing.T) {
	r := router.New(context.Background())
	router.POST(r, "/echo", echo)
	h := r.Handler(config.ServerConfigs{})

	env := do(t, h, http.MethodPost, "/echo", `{"name":"bar","limit":2}`)
	require.Equal(t, int64(0), env.Code)
	require.Equal(t, "bar", env.Data.Name)

	env = do(t, h, http.MethodPost, "/echo", `{invalid`)
	require.Equal(t, int64(errorx.BadRequest), env.Code)

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_MiddlewareAndCloser(t *testing.T) {
	r := router.New(context.Background())

	var closedErr error
	r.AddCloser(func(ctx context.Context) { closedErr = xcontext.Error(ctx) })

	public := r.Branch()
	router.GET(public, "/public", echo)

	private := r.Branch()
	private.Before(func(ctx context.Context) (context.Context, error) {
		if xcontext.HTTPRequest(ctx).Header.Get("Authorization") == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Need authenticated")
		}
		return xcontext.WithRequestUserID(ctx, "user1"), nil
	})
	router.GET(private, "/private", echo)

	h := r.Handler(config.ServerConfigs{})

	env := do(t, h, http.MethodGet, "/public?name=x", "")
	require.Equal(t, int64(0), env.Code)
	require.Empty(t, env.Data.User)
	require.NoError(t, closedErr)

	env = do(t, h, http.MethodGet, "/private?name=x", "")
	require.Equal(t, int64(errorx.Unauthenticated), env.Code)
	require.Equal(t, "Need authenticated", env.Error)
	require.Equal(t, errorx.Unauthenticated, errorx.CodeOf(closedErr))

	req := httptest.NewRequest(http.MethodGet, "/private?name=x", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(0), got.Code)
	require.Equal(t, "user1", got.Data.User)
}

func TestRouter_RejectedMiddlewareKeepsContext(t *testing.T) {
	r := router.New(context.Background())

	var closedCtx context.Context
	r.AddCloser(func(ctx context.Context) { closedCtx = ctx })

	private := r.Branch()
	private.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Unauthenticated, "Need authenticated")
	})
	router.POST(private, "/enter", echo)

	env := do(t, r.Handler(config.ServerConfigs{}), http.MethodPost, "/enter", `{"name":"x"}`)
	require.Equal(t, int64(errorx.Unauthenticated), env.Code)
	require.NotNil(t, closedCtx)
	require.NotNil(t, xcontext.HTTPRequest(closedCtx))
	require.Equal(t, errorx.Unauthenticated, errorx.CodeOf(xcontext.Error(closedCtx)))
}
