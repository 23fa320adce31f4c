package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

type stubApprovals struct{ status auth.ApprovalStatus }

func (s stubApprovals) ApprovalStatus(ctx context.Context, userID int) (auth.ApprovalStatus, error) {
	return s.status, nil
}

func newTestServer(t *testing.T, simulate bool, approval auth.ApprovalStatus) (*Server, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("test-secret", "", time.Hour)
	s := New(Deps{
		Config: &config.Config{
			Port:                     "0",
			CORSOrigins:              []string{"*"},
			PaymentSimulationEnabled: simulate,
		},
		Tokens:    tokens,
		Approvals: stubApprovals{status: approval},
		Health:    stubPinger{},
	})
	return s, tokens
}

func do(t *testing.T, s *Server, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func token(t *testing.T, tm *auth.TokenManager, id int, role auth.Role) string {
	t.Helper()
	tok, err := tm.GenerateAccessToken(id, "someone@fitzone.id", role)
	require.NoError(t, err)
	return tok
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, false, auth.ApprovalApproved)

	for _, path := range []string{"/health", "/api/health"} {
		w := do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health(stubPinger{err: errors.New("connection refused")}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, false, auth.ApprovalApproved)

	w := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRoutes_Gating(t *testing.T) {
	s, tm := newTestServer(t, false, auth.ApprovalPending)
	member := token(t, tm, 7, auth.RoleMember)
	trainer := token(t, tm, 3, auth.RoleTrainer)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous my bookings", http.MethodGet, "/bookings/my", "", http.StatusUnauthorized},
		{"anonymous my bookings under api", http.MethodGet, "/api/bookings/my", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/membership/my", "not-a-jwt", http.StatusUnauthorized},
		{"member lists users", http.MethodGet, "/api/users", member, http.StatusForbidden},
		{"member reads report", http.MethodGet, "/api/payment/report", member, http.StatusForbidden},
		{"member approves trainer", http.MethodPost, "/api/admin/trainers/3/approve", member, http.StatusForbidden},
		{"member creates class", http.MethodPost, "/api/classes", member, http.StatusForbidden},
		{"pending trainer creates class", http.MethodPost, "/api/classes", trainer, http.StatusForbidden},
		{"pending trainer marks attendance", http.MethodPost, "/api/attendance", trainer, http.StatusForbidden},
		{"trainer subscribes", http.MethodPost, "/api/membership/subscribe", trainer, http.StatusForbidden},
		{"trainer books class", http.MethodPost, "/api/bookings", trainer, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoutes_SimulationFlag(t *testing.T) {
	s, tm := newTestServer(t, false, auth.ApprovalApproved)
	member := token(t, tm, 7, auth.RoleMember)

	w := do(t, s, http.MethodPost, "/api/payment/FZ-1/simulate", member)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
