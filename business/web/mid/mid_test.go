package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/blocksmith/blocksmith/business/sys/validate"
	"github.com/blocksmith/blocksmith/business/web/errs"
	"github.com/blocksmith/blocksmith/business/web/mid"
	"github.com/blocksmith/blocksmith/foundation/web"
	"go.uber.org/zap"
)

func newApp(shutdown chan os.Signal) *web.App {
	log := zap.NewNop().Sugar()

	return web.NewApp(
		shutdown,
		mid.Logger(log),
		mid.Errors(log),
		mid.Metrics(),
		mid.Cors("*"),
		mid.Panics(),
	)
}

func Test_Errors(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
		msg    string
		fields bool
	}

	tt := []table{
		{name: "trusted", err: errs.NewTrusted(errors.New("block rejected"), http.StatusNotAcceptable), status: http.StatusNotAcceptable, msg: "block rejected"},
		{name: "fields", err: validate.FieldErrors{{Field: "to", Err: "to is a required field"}}, status: http.StatusBadRequest, msg: "data validation error", fields: true},
		{name: "untrusted", err: errors.New("database password is hunter2"), status: http.StatusInternalServerError, msg: "Internal Server Error"},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			shutdown := make(chan os.Signal, 1)
			app := newApp(shutdown)

			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return tst.err
			}
			app.Handle(http.MethodGet, "v1", "/test", h)

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/test", nil))

			if w.Code != tst.status {
				t.Fatalf("Should get back status %d, got %d", tst.status, w.Code)
			}

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Should be able to decode the response: %s", err)
			}

			if resp.Error != tst.msg || (len(resp.Fields) > 0) != tst.fields {
				t.Fatalf("Should get back the right response, got %+v", resp)
			}

			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("Should set the CORS headers.")
			}

			select {
			case <-shutdown:
				t.Fatalf("Should not shut down for a handled error.")
			default:
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Panics(t *testing.T) {
	app := newApp(make(chan os.Signal, 1))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	}
	app.Handle(http.MethodGet, "", "/panic", h)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Should convert a panic into a 500, got %d", w.Code)
	}
}

func Test_ShutdownError(t *testing.T) {
	shutdown := make(chan os.Signal, 1)
	app := newApp(shutdown)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	}
	app.Handle(http.MethodGet, "", "/shutdown", h)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/shutdown", nil))

	select {
	case <-shutdown:
	default:
		t.Fatalf("Should signal a shutdown for a shutdown error.")
	}
}
