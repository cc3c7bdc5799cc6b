package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"pocat/internal/catalog"
	"pocat/internal/configurator"
	redisstorage "pocat/internal/storage/redis"
	"pocat/pkg/redis"
)

type stubLimiter struct {
	allowed bool
	err     error
	calls   []string
}

func (s *stubLimiter) Allow(_ context.Context, subject string) (bool, error) {
	s.calls = append(s.calls, subject)
	return s.allowed, s.err
}

type testServer struct {
	http.Handler
	store   *configurator.MemoryDraftStore
	limiter *stubLimiter
	orders  []configurator.Order
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		store:   configurator.NewMemoryDraftStore(),
		limiter: &stubLimiter{allowed: true},
	}
	sub := configurator.SubmitterFunc(func(_ context.Context, o configurator.Order) (string, error) {
		ts.orders = append(ts.orders, o)
		return "PoCat-654321", nil
	})
	engine := configurator.NewEngine(catalog.Default(), zap.NewNop())
	h := NewHandler(engine, configurator.NewDrafts(ts.store, zap.NewNop()), sub, ts.limiter, zap.NewNop())
	h.now = func() time.Time { return time.Date(2025, 4, 5, 12, 0, 0, 0, time.UTC) }
	ts.Handler = NewRouter(h, []string{"*"})
	return ts
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	w := do(t, newServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetCatalog(t *testing.T) {
	w := do(t, newServer(t), http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	out := decode[catalogResponse](t, w)
	assert.Len(t, out.Bindings, 7)
	assert.Len(t, out.Shipping, 4)
	assert.Equal(t, catalog.HardcoverID, out.Bindings[0].ID)
	limit, ok := out.Bindings[0].PageLimits.Lookup(catalog.Weight80, catalog.PrintDouble)
	require.True(t, ok)
	assert.Equal(t, 800, limit)
}

func TestGetDefaultConfiguration(t *testing.T) {
	w := do(t, newServer(t), http.MethodGet, "/api/v1/configurations/default", "")
	require.Equal(t, http.StatusOK, w.Code)

	out := decode[map[string]configurator.Configuration](t, w)
	assert.Equal(t, configurator.Default(), out["configuration"])
}

func TestApplySelection(t *testing.T) {
	body := `{"configuration":{"bindingId":"hardcover"},"step":"binding","field":"spineEmbossing","value":"true"}`
	w := do(t, newServer(t), http.MethodPost, "/api/v1/configurations/apply", body)
	require.Equal(t, http.StatusOK, w.Code)

	snap := decode[configurator.Snapshot](t, w)
	assert.True(t, snap.Configuration.SpineEmbossing)
	assert.Equal(t, "standard", snap.Configuration.PaperID)
	assert.Equal(t, configurator.BindingOnly, snap.Price.Mode)
	assert.Equal(t, 40.00, snap.Price.Total)
	assert.True(t, snap.Validation.Valid)
}

func TestApplySelection_RequiresField(t *testing.T) {
	w := do(t, newServer(t), http.MethodPost, "/api/v1/configurations/apply", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), codeBadRequest)
}

func TestPrice(t *testing.T) {
	body := `{"configuration":{"bindingId":"softcover-klassisch","paperId":"premium","printModeId":"single","pageCount":100,"copies":4,"shippingId":"standard"}}`
	w := do(t, newServer(t), http.MethodPost, "/api/v1/price", body)
	require.Equal(t, http.StatusOK, w.Code)

	b := decode[configurator.PriceBreakdown](t, w)
	assert.Equal(t, 133.60, b.Total)
	assert.Equal(t, 3, b.DiscountedCopies)
	assert.Equal(t, configurator.FullConfiguration, b.Mode)
}

func TestPrice_BadJSON(t *testing.T) {
	w := do(t, newServer(t), http.MethodPost, "/api/v1/price", `{"configuration":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, newServer(t), http.MethodPost, "/api/v1/price", `{"step":"payment"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidate(t *testing.T) {
	body := `{"configuration":{"bindingId":"spiralbindung-metall","pageCount":381},"step":"details"}`
	w := do(t, newServer(t), http.MethodPost, "/api/v1/validate", body)
	require.Equal(t, http.StatusOK, w.Code)

	r := decode[configurator.Result](t, w)
	assert.False(t, r.Valid)
	assert.True(t, r.Has(configurator.FieldPageCount))
}

func TestSubmitOrder(t *testing.T) {
	ts := newServer(t)
	body := `{"configuration":{"bindingId":"hardcover","shippingId":"express"},"attachments":{"document":true}}`

	r := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	r.Header.Set(clientIDHeader, "browser-1")
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	out := decode[orderResponse](t, w)
	assert.Equal(t, "PoCat-654321", out.OrderNumber)
	assert.Zero(t, out.Price.ShippingPrice)
	require.Len(t, ts.orders, 1)
	assert.Equal(t, []string{"browser-1"}, ts.limiter.calls)
}

func TestSubmitOrder_Invalid(t *testing.T) {
	ts := newServer(t)
	w := do(t, ts, http.MethodPost, "/api/v1/orders", `{"configuration":{"bindingId":"hardcover"}}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var out httpError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	assert.Equal(t, codeValidationFailed, out.Error.Code)
	assert.Contains(t, out.Error.Details, "reasons")
	assert.Empty(t, ts.orders)
	assert.Empty(t, ts.limiter.calls)
}

func TestSubmitOrder_InvalidKeepsQuota(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.New(mr.Addr(), "", 0)
	t.Cleanup(client.Close)

	sub := configurator.SubmitterFunc(func(context.Context, configurator.Order) (string, error) {
		return "PoCat-654321", nil
	})
	engine := configurator.NewEngine(catalog.Default(), zap.NewNop())
	limiter := redisstorage.NewRateLimiter(client, "orders", 1, time.Hour)
	h := NewHandler(engine, configurator.NewDrafts(configurator.NewMemoryDraftStore(), zap.NewNop()), sub, limiter, zap.NewNop())
	router := NewRouter(h, []string{"*"})

	submit := func(body string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		r.Header.Set(clientIDHeader, "browser-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		return w.Code
	}

	valid := `{"configuration":{"bindingId":"hardcover","shippingId":"express"},"attachments":{"document":true}}`
	assert.Equal(t, http.StatusUnprocessableEntity, submit(`{"configuration":{"bindingId":"hardcover"}}`))
	assert.Equal(t, http.StatusCreated, submit(valid))
	assert.Equal(t, http.StatusTooManyRequests, submit(valid))
}

func TestSubmitOrder_RateLimited(t *testing.T) {
	ts := newServer(t)
	ts.limiter.allowed = false

	w := do(t, ts, http.MethodPost, "/api/v1/orders", `{"configuration":{"bindingId":"hardcover"},"attachments":{"document":true}}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, ts.orders)
}

func TestSubmitOrder_LimiterFailureAllows(t *testing.T) {
	ts := newServer(t)
	ts.limiter.allowed = false
	ts.limiter.err = errors.New("redis down")

	w := do(t, ts, http.MethodPost, "/api/v1/orders", `{"configuration":{"bindingId":"hardcover"},"attachments":{"document":true}}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDrafts(t *testing.T) {
	ts := newServer(t)

	w := do(t, ts, http.MethodGet, "/api/v1/drafts/web-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[draftResponse](t, w).Found)

	w = do(t, ts, http.MethodPut, "/api/v1/drafts/web-1", `{"bindingId":"hardcover","pageCount":120}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, ts, http.MethodGet, "/api/v1/drafts/web-1", "")
	out := decode[draftResponse](t, w)
	assert.True(t, out.Found)
	assert.Equal(t, "hardcover", out.Configuration.BindingID)
	assert.Equal(t, 120, out.Configuration.PageCount)
	assert.Equal(t, 1, out.Configuration.Copies)

	w = do(t, ts, http.MethodDelete, "/api/v1/drafts/web-1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	_, err := ts.store.LoadDraft(context.Background(), configurator.DraftKeyFor("web-1"))
	assert.ErrorIs(t, err, configurator.ErrDraftNotFound)
}

func TestExportQuote(t *testing.T) {
	w := do(t, newServer(t), http.MethodPost, "/api/v1/quotes", `{"configuration":{"bindingId":"hardcover"},"reference":"web-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxMediaType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Quote", "B2")
	require.NoError(t, err)
	assert.Equal(t, "web-1", v)
}

func TestCORSPreflight(t *testing.T) {
	r := httptest.NewRequest(http.MethodOptions, "/api/v1/price", nil)
	r.Header.Set("Origin", "https://pocat.de")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	newServer(t).ServeHTTP(w, r)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
