package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/stripe-guide/internal/engine"
	"github.com/DaanHessen/stripe-guide/internal/payments"
)

type mockPayments struct {
	enabled   bool
	lastMode  payments.Mode
	createErr error
	recent    []payments.Record
	lastLimit int
}

func (m *mockPayments) Enabled() bool { return m.enabled }

func (m *mockPayments) Create(_ context.Context, mode payments.Mode, _ string) (payments.Result, error) {
	m.lastMode = mode
	if m.createErr != nil {
		return payments.Result{}, m.createErr
	}
	switch mode {
	case payments.ModeHosted:
		return payments.Result{Mode: mode, StripeID: "cs_1", URL: "https://checkout.stripe.com/x"}, nil
	default:
		return payments.Result{Mode: mode, StripeID: "pi_1", ClientSecret: "secret_1"}, nil
	}
}

func (m *mockPayments) Recent(_ context.Context, limit int) ([]payments.Record, error) {
	m.lastLimit = limit
	return m.recent, nil
}

func newTestServer(t *testing.T, pay Payments) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g, err := engine.DefaultGraph()
	require.NoError(t, err)
	idx, err := engine.NewIndex(g)
	require.NoError(t, err)
	return NewServer(pay, idx, Options{}, zerolog.Nop())
}

func do(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateCheckoutSessionHosted(t *testing.T) {
	pay := &mockPayments{enabled: true}
	w := do(newTestServer(t, pay), http.MethodPost, "/api/create-checkout-session", []byte(`{"mode":"hosted"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://checkout.stripe.com/x", decode(t, w)["url"])
	assert.Equal(t, payments.ModeHosted, pay.lastMode)
}

func TestCreateCheckoutSessionDefaultsToHosted(t *testing.T) {
	pay := &mockPayments{enabled: true}
	w := do(newTestServer(t, pay), http.MethodPost, "/api/create-checkout-session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payments.ModeHosted, pay.lastMode)
}

func TestCreateCheckoutSessionEmbedded(t *testing.T) {
	pay := &mockPayments{enabled: true}
	w := do(newTestServer(t, pay), http.MethodPost, "/api/create-checkout-session", []byte(`{"mode":"embedded"}`))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "secret_1", body["clientSecret"])
	assert.NotContains(t, body, "url")
}

func TestCreateCheckoutSessionBadBody(t *testing.T) {
	w := do(newTestServer(t, &mockPayments{enabled: true}), http.MethodPost, "/api/create-checkout-session", []byte(`{`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckoutSessionNotConfigured(t *testing.T) {
	pay := &mockPayments{createErr: payments.ErrNotConfigured}
	w := do(newTestServer(t, pay), http.MethodPost, "/api/create-checkout-session", []byte(`{"mode":"hosted"}`))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateCheckoutSessionStripeError(t *testing.T) {
	pay := &mockPayments{enabled: true, createErr: errors.New("invalid api key")}
	w := do(newTestServer(t, pay), http.MethodPost, "/api/create-checkout-session", []byte(`{"mode":"payment_intent"}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["error"], "invalid api key")
}

func TestListPayments(t *testing.T) {
	pay := &mockPayments{recent: []payments.Record{{StripeID: "cs_1", Mode: payments.ModeHosted}}}
	s := newTestServer(t, pay)

	w := do(s, http.MethodGet, "/api/payments?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, pay.lastLimit)
	list := decode(t, w)["payments"].([]any)
	assert.Len(t, list, 1)

	w = do(s, http.MethodGet, "/api/payments?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPaymentsEmpty(t *testing.T) {
	w := do(newTestServer(t, &mockPayments{}), http.MethodGet, "/api/payments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"payments":[]}`, w.Body.String())
}

func TestScenes(t *testing.T) {
	w := do(newTestServer(t, &mockPayments{}), http.MethodGet, "/api/scenes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Start string     `json:"start"`
		Total int        `json:"total"`
		Acts  []actEntry `json:"acts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "landing", body.Start)
	assert.Equal(t, 20, body.Total)
	require.Len(t, body.Acts, 4)
	assert.Equal(t, 5, body.Acts[3].Act)

	var marked []string
	for _, a := range body.Acts {
		for _, sc := range a.Scenes {
			if sc.BranchTarget {
				marked = append(marked, sc.ID)
			}
		}
	}
	assert.ElementsMatch(t, []string{"hosted-checkout", "embedded-checkout", "payment-element"}, marked)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, &mockPayments{enabled: true})
	w := do(s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["stripe"])

	w = do(s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
