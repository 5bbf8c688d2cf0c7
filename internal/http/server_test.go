package http

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"savings/internal/core"
	"savings/internal/i18n"
	"savings/internal/params"
	"savings/internal/params/memory"
	"savings/internal/services"
)

func newTestServer(t *testing.T, rpm int) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	srv := NewServer(":0", Options{
		Projections:        services.NewProjectionService(services.ProjectionOptions{MaxMonths: 1200}),
		Params:             services.NewParamsService(store),
		RateLimitPerMinute: rpm,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, store
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func cookieValue(rr *httptest.ResponseRecorder, name string) string {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestIndexAndHealth(t *testing.T) {
	srv, store := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Savings Growth Simulator") {
		t.Fatalf("index body missing heading")
	}
	if !strings.Contains(body, `id="results"`) || !strings.Contains(body, "$") {
		t.Fatalf("index body missing results")
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Fatalf("security headers missing")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id missing")
	}

	id := cookieValue(rr, ClientCookieName)
	if id == "" {
		t.Fatalf("client cookie not issued")
	}
	if store.Len() != 1 {
		t.Fatalf("expected params saved on render, got %d records", store.Len())
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	rr = serve(srv, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status=%d", rr.Code)
	}
}

func TestIndexRestoresSavedParams(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	first := serve(srv, httptest.NewRequest(http.MethodGet, "/?initialAmount=5000&monthlyAmount=250&annualRate=4.5&years=7", nil))
	id := cookieValue(first, ClientCookieName)
	if id == "" {
		t.Fatalf("client cookie not issued")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: id})
	rr := serve(srv, req)
	body := rr.Body.String()
	for _, want := range []string{`value="5000"`, `value="250"`, `value="4.5"`, `value="7"`} {
		if !strings.Contains(body, want) {
			t.Errorf("restored form missing %s", want)
		}
	}
	if cookieValue(rr, ClientCookieName) != "" {
		t.Errorf("existing client cookie should be reused")
	}
}

func TestIndexNotReadyShowsPlaceholder(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/?initialAmount=0&monthlyAmount=0", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Please enter the parameters") {
		t.Fatalf("placeholder missing")
	}
	if strings.Contains(body, `class="bars"`) {
		t.Fatalf("chart rendered for empty inputs")
	}
}

func TestJapaneseLanguage(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/?lang=ja", nil))
	body := rr.Body.String()
	if !strings.Contains(body, "総額") {
		t.Fatalf("japanese labels missing")
	}
	if !strings.Contains(body, "¥") {
		t.Fatalf("yen amounts missing")
	}
	if cookieValue(rr, i18n.LangCookieName) != "ja" {
		t.Fatalf("language cookie not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/ui/projection", nil)
	req.AddCookie(&http.Cookie{Name: i18n.LangCookieName, Value: "ja"})
	rr = serve(srv, req)
	if !strings.Contains(rr.Body.String(), "総額") {
		t.Fatalf("cookie language not applied")
	}
}

func TestProjectionPartial(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/ui/projection?initialAmount=0&monthlyAmount=10000&annualRate=3&years=1&currency=JPY", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<html") {
		t.Fatalf("partial must not render the full page")
	}
	if !strings.Contains(body, `id="results"`) {
		t.Fatalf("results section missing")
	}
	if !strings.Contains(body, "¥121,968") {
		t.Fatalf("final total missing: %s", body)
	}

	push := rr.Header().Get("HX-Push-Url")
	if !strings.HasPrefix(push, "/?") || !strings.Contains(push, "monthlyAmount=10000") {
		t.Fatalf("HX-Push-Url = %q", push)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "projection:updated") {
		t.Fatalf("HX-Trigger = %q", rr.Header().Get("HX-Trigger"))
	}
}

func TestProjectionPartialClampNotification(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/ui/projection?monthlyAmount=1&annualRate=3&years=500&lang=en", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "show-notification") || !strings.Contains(trigger, "Horizon limited to 1200 months") {
		t.Fatalf("HX-Trigger = %q", trigger)
	}
}

func TestProjectionPartialBadRounding(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/ui/projection?rounding=up", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestProjectionAPI(t *testing.T) {
	srv, store := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/api/projection?initialAmount=0&monthlyAmount=10000&annualRate=3&years=1&rounding=rounded", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}

	var got projectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Ready || got.Rounding != core.RoundingRounded {
		t.Fatalf("unexpected header fields: %+v", got)
	}
	if len(got.Monthly) != 12 || len(got.Yearly) != 1 {
		t.Fatalf("monthly=%d yearly=%d", len(got.Monthly), len(got.Yearly))
	}
	if got.Final == nil || got.Final.Total != 121968 || got.Final.Principal != 120000 || got.Final.Interest != 1968 {
		t.Fatalf("unexpected final: %+v", got.Final)
	}
	if got.Formatted == nil || got.Formatted.Total != "$121,968.00" {
		t.Fatalf("unexpected formatted: %+v", got.Formatted)
	}
	if got.Params.TotalMonths != 12 || got.Input.MonthlyAmount != "10000" {
		t.Fatalf("unexpected params: %+v / %+v", got.Params, got.Input)
	}
	if store.Len() != 0 {
		t.Fatalf("API must not save params")
	}
}

func TestProjectionAPIPrecise(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/api/projection?monthlyAmount=10000&annualRate=3&years=1", nil))
	var got projectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Final == nil || math.Abs(got.Final.Total-121967.987) > 0.01 {
		t.Fatalf("unexpected final: %+v", got.Final)
	}
	if got.Rounding != core.RoundingPrecise {
		t.Fatalf("rounding = %q", got.Rounding)
	}
}

func TestProjectionAPINotReady(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/api/projection?initialAmount=0&monthlyAmount=0", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"final":null`) || !strings.Contains(body, `"monthly":[]`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestProjectionAPIBadRounding(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/api/projection?rounding=banker", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid rounding mode") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestProjectionAPIRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, 1)

	if rr := serve(srv, httptest.NewRequest(http.MethodGet, "/api/projection", nil)); rr.Code != http.StatusOK {
		t.Fatalf("first request status=%d", rr.Code)
	}
	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/api/projection", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status=%d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After missing")
	}

	// pages are not rate limited
	if rr := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil)); rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	serve(srv, httptest.NewRequest(http.MethodGet, "/api/projection", nil))

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, want := range []string{"projections_total 1", "http_requests_total 2", "cache_misses_total 1"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestReadyReportsStoreFailure(t *testing.T) {
	srv := NewServer(":0", Options{
		Projections: services.NewProjectionService(services.ProjectionOptions{}),
		Params:      services.NewParamsService(nil),
		Ready:       func(context.Context) error { return params.ErrNotFound },
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	rr := serve(srv, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rr.Code)
	}
}
