package attendance

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

func TestHandler_MarkInClass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockRepository)
	repo.On("Target", mock.Anything, 12).Return(&Target{BookingID: 12, Status: "confirmed", ClassID: 5, TrainerID: 2}, nil)
	repo.On("Target", mock.Anything, 99).Return(nil, ErrBookingNotFound)
	repo.On("Upsert", mock.Anything, 12, true, now, 2).Return(&Attendance{BookingID: 12, Attended: true}, nil)
	h := NewHandler(newTestService(repo))

	r := gin.New()
	r.POST("/trainer/classes/:classId/attendance/:bookingId", func(c *gin.Context) {
		c.Set("user_id", 2)
		c.Set("user_role", auth.RoleTrainer)
	}, h.MarkInClass)

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/trainer/classes/5/attendance/12", `{"attended":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Marked as present")

	assert.Equal(t, http.StatusBadRequest, post("/trainer/classes/5/attendance/12", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, post("/trainer/classes/5/attendance/99", `{"attended":false}`).Code)
	assert.Equal(t, http.StatusNotFound, post("/trainer/classes/6/attendance/12", `{"attended":false}`).Code)
}
