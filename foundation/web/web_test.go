package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/blocksmith/blocksmith/foundation/web"
)

func Test_HandleAndRespond(t *testing.T) {
	var order []string

	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(make(chan os.Signal, 1), mw("app"))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil || v.TraceID == "" {
			t.Errorf("Should have request values in the context.")
		}

		resp := struct {
			Address string `json:"address"`
		}{
			Address: web.Param(r, "address"),
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
	app.Handle(http.MethodGet, "v1", "/balance/:address", h, mw("route"))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/balance/bob", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Should get back a 200, got %d", w.Code)
	}

	if got := strings.TrimSpace(w.Body.String()); got != `{"address":"bob"}` {
		t.Fatalf("Should get back the route parameter, got %s", got)
	}

	if w.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("Should set the content type.")
	}

	if len(order) != 2 || order[0] != "app" || order[1] != "route" {
		t.Fatalf("Should run the app middleware first, got %v", order)
	}
}

func Test_ShutdownSignal(t *testing.T) {
	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	}
	app.Handle(http.MethodGet, "", "/fail", h)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	select {
	case <-shutdown:
	default:
		t.Fatalf("Should signal a shutdown when a handler returns an error.")
	}

	if !web.IsShutdown(web.NewShutdownError("x")) {
		t.Fatalf("Should identify a shutdown error.")
	}
}

func Test_Decode(t *testing.T) {
	var v struct {
		From string `json:"from"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"from":"alice"}`))
	if err := web.Decode(r, &v); err != nil || v.From != "alice" {
		t.Fatalf("Should be able to decode the body: %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	if err := web.Decode(r, &v); err == nil {
		t.Fatalf("Should reject unknown fields.")
	}
}
