package trainer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fitzone/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockRepository)
	h := NewHandler(newTestService(repo, nil))
	setAdmin := func(c *gin.Context) {
		c.Set("user_id", admin.ID)
		c.Set("user_role", admin.Role)
	}

	r := gin.New()
	r.GET("/admin/trainers", setAdmin, h.List)
	r.POST("/admin/trainers/:id/approve", setAdmin, h.Approve)
	r.POST("/admin/trainers/:id/reject", setAdmin, h.Reject)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	repo.On("List", mock.Anything, auth.ApprovalStatus("")).Return([]Trainer{*trainer(2, auth.ApprovalPending)}, nil)
	repo.On("Counts", mock.Anything).Return(Counts{Pending: 1, Total: 1}, nil)
	w := do(http.MethodGet, "/admin/trainers?status=all", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"counts":{"pending":1,"approved":0,"rejected":0,"total":1}`)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodGet, "/admin/trainers?status=banned", "").Code)

	repo.On("Get", mock.Anything, 2).Return(trainer(2, auth.ApprovalApproved), nil)
	repo.On("Get", mock.Anything, 9).Return(nil, ErrTrainerNotFound)

	assert.Equal(t, http.StatusConflict, do(http.MethodPost, "/admin/trainers/2/reject", `{"reason":"Late"}`).Code)
	assert.Equal(t, http.StatusConflict, do(http.MethodPost, "/admin/trainers/2/approve", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodPost, "/admin/trainers/9/approve", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/admin/trainers/2/reject", `{"reason":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/admin/trainers/x/approve", "").Code)
}
