package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/lottery/pkg/errorx"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.Handler {
	befores := router.befores
	closers := router.closers

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ctx := xcontext.WithHTTPRequest(router.ctx, r)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		resp, err := func() (any, error) {
			for _, before := range befores {
				// A rejecting middleware returns a nil context, keep the
				// previous one so closers can still record the error.
				next, err := before(ctx)
				if err != nil {
					return nil, err
				}
				ctx = next
			}

			var req Request
			if err := bind(r, method, &req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid request")
			}

			return handler(ctx, &req)
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		} else {
			ctx = xcontext.WithResponse(ctx, resp)
		}

		for _, closer := range closers {
			closer(ctx)
		}

		writeResponse(ctx, w, resp, err)
	})
}

func bind(r *http.Request, method string, req any) error {
	switch method {
	case http.MethodGet:
		query := map[string]string{}
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				query[k] = v[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           req,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(query)

	case http.MethodPost:
		if r.Body == nil {
			return nil
		}

		err := json.NewDecoder(r.Body).Decode(req)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	return errors.New("unsupported method")
}

// writeResponse writes the envelope. The HTTP status is always 200, the
// outcome is carried by the code field.
func writeResponse(ctx context.Context, w http.ResponseWriter, data any, err error) {
	resp := newResponse(data)
	if err != nil {
		resp = newErrorResponse(err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := WriteJson(w, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}
