package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitzone/internal/api"
	"fitzone/internal/auth"
	"fitzone/internal/membership"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func asActor(a auth.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", a.ID)
		c.Set("user_role", a.Role)
	}
}

func send(r http.Handler, method, path, body string, header ...string) (*httptest.ResponseRecorder, api.Envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env api.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestFilterFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	parse := func(query string) (ReportFilter, error) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/payment/report?"+query, nil)
		return FilterFromQuery(c)
	}

	f, err := parse("status=all&plan=all")
	require.NoError(t, err)
	assert.Equal(t, ReportFilter{}, f)

	f, err = parse("start_date=2026-10-01&end_date=2026-10-31&status=success&plan=VIP")
	require.NoError(t, err)
	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), *f.EndDate)
	assert.Equal(t, StatusSuccess, f.Status)
	assert.Equal(t, "VIP", f.Plan)

	_, err = parse("start_date=01-10-2026")
	assert.Error(t, err)
	_, err = parse("status=refunded")
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockRepository)
	ms := stubMemberships{8: {PlanID: 1, PlanName: "Basic", ExpiryDate: now.AddDate(0, 0, 5)}}
	h := NewHandler(newTestService(repo, ms, SimulatedGateway{}, nil))

	r := gin.New()
	r.GET("/payment/methods", h.ListMethods)
	r.POST("/payment/create", asActor(member), h.Create)
	r.POST("/membership/subscribe", asActor(auth.Actor{ID: 8, Role: auth.RoleMember}), h.Create)
	r.GET("/payment/:orderId/status", asActor(member), h.Status)
	r.POST("/payment/:orderId/simulate", asActor(member), h.Simulate)
	r.POST("/payment/callback", h.Callback)
	r.GET("/payment/report", asActor(admin), h.Report)

	t.Run("methods", func(t *testing.T) {
		w, env := send(r, http.MethodGet, "/payment/methods", "")
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, env.Count)
		assert.Equal(t, 4, *env.Count)
	})

	t.Run("create", func(t *testing.T) {
		repo.On("FindPending", mock.Anything, 7, now).Return(nil, nil).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		w, env := send(r, http.MethodPost, "/payment/create", `{"plan_id":2,"payment_method":"bank_transfer","payment_detail":"bni"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Payment created", env.Message)
		assert.Contains(t, w.Body.String(), `"total":304000`)
		assert.Contains(t, w.Body.String(), `"va_number":"8810`)
	})

	t.Run("create returns pending payment", func(t *testing.T) {
		repo.On("FindPending", mock.Anything, 7, now).Return(pending("FZ-OLD"), nil).Once()

		w, env := send(r, http.MethodPost, "/payment/create", `{"plan_id":2,"payment_method":"qris"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "You have a pending payment", env.Message)
		assert.Contains(t, w.Body.String(), "FZ-OLD")
	})

	t.Run("subscribe with active membership", func(t *testing.T) {
		w, env := send(r, http.MethodPost, "/membership/subscribe", `{"plan_id":2,"payment_method":"qris"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "You already have an active Basic membership until 2026-10-24", env.Message)
	})

	t.Run("create validation", func(t *testing.T) {
		w, _ := send(r, http.MethodPost, "/payment/create", `{"payment_method":"qris"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, env := send(r, http.MethodPost, "/payment/create", `{"plan_id":1,"payment_method":"bank_transfer","payment_detail":"ovo"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Message, "bank or e-wallet")
	})

	t.Run("status", func(t *testing.T) {
		other := pending("FZ-2")
		other.UserID = 9
		repo.On("GetByOrderID", mock.Anything, "FZ-1").Return(pending("FZ-1"), nil).Once()
		repo.On("GetByOrderID", mock.Anything, "FZ-2").Return(other, nil).Once()
		repo.On("GetByOrderID", mock.Anything, "FZ-404").Return(nil, ErrPaymentNotFound).Once()

		w, _ := send(r, http.MethodGet, "/payment/FZ-1/status", "")
		assert.Equal(t, http.StatusOK, w.Code)
		w, _ = send(r, http.MethodGet, "/payment/FZ-2/status", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		w, _ = send(r, http.MethodGet, "/payment/FZ-404/status", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("simulate", func(t *testing.T) {
		done := pending("FZ-3")
		done.Status = StatusExpired
		repo.On("GetByOrderID", mock.Anything, "FZ-3").Return(done, nil).Once()

		w, env := send(r, http.MethodPost, "/payment/FZ-3/simulate", `{"action":"success"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Payment already expired", env.Message)

		w, _ = send(r, http.MethodPost, "/payment/FZ-3/simulate", `{"action":"refund"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("callback", func(t *testing.T) {
		w, _ := send(r, http.MethodPost, "/payment/callback", `{"order_id":"FZ-1","transaction_status":"settlement"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		settled := pending("FZ-1")
		settled.Status = StatusSuccess
		repo.On("GetByOrderID", mock.Anything, "FZ-1").Return(pending("FZ-1"), nil).Once()
		repo.On("Settle", mock.Anything, "FZ-1", StatusPending, "MT-7", mock.Anything, now).
			Return(settled, &membership.Membership{ExpiryDate: now}, nil).Once()

		w, env := send(r, http.MethodPost, "/payment/callback",
			`{"order_id":"FZ-1","transaction_status":"settlement","transaction_id":"MT-7"}`,
			CallbackTokenHeader, "cb-secret")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Callback processed", env.Message)
	})

	t.Run("report", func(t *testing.T) {
		repo.On("List", mock.Anything, ReportFilter{Plan: "VIP"}).Return([]Record{}, nil).Once()
		repo.On("DailyRevenue", mock.Anything, mock.Anything).Return([]DailyRevenue{}, nil).Once()

		w, _ := send(r, http.MethodGet, "/payment/report?plan=VIP&status=all", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_payments":0`)

		w, _ = send(r, http.MethodGet, "/payment/report?end_date=tomorrow", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
