package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/zoquest/backend/pkg/errorx"
	"github.com/zoquest/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithHTTPRequest(ctx, r)
		ctx = xcontext.WithErrorHolder(ctx)

		defer func() {
			for _, closer := range router.closers {
				closer(ctx)
			}
		}()

		if r.Method != method {
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Method not allowed"))
			writeError(ctx, w, errorx.New(errorx.BadRequest, "Method not allowed"))
			return
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = decodeQuery(r, &req)
		case http.MethodPost:
			err = json.NewDecoder(r.Body).Decode(&req)
		}
		if err != nil {
			xcontext.SetError(ctx, err)
			writeError(ctx, w, errorx.New(errorx.BadRequest, "Cannot decode the request"))
			return
		}

		for _, before := range router.befores {
			ctx, err = before(ctx)
			if err != nil {
				xcontext.SetError(ctx, err)
				writeError(ctx, w, err)
				return
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			xcontext.SetError(ctx, err)
			writeError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, resp)
	})
}

// decodeQuery maps url query values onto the request struct using the json
// field names, with weak typing so numeric fields accept string values.
func decodeQuery(r *http.Request, req any) error {
	values := map[string]any{}
	for key := range r.URL.Query() {
		values[key] = r.URL.Query().Get(key)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists:
		return http.StatusConflict
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	case errorx.NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	errx, ok := err.(errorx.Error)
	if !ok {
		errx = errorx.Unknown
	}

	body := map[string]any{"error": errx.Message}
	for k, v := range errx.Detail {
		body[k] = v
	}

	writeJSON(ctx, w, httpStatus(errx.Code), body)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, resp any) {
	b, err := json.Marshal(resp)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal the response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}
