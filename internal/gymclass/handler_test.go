package gymclass

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitzone/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func asActor(a auth.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", a.ID)
		c.Set("user_role", a.Role)
	}
}

func TestFilterFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parse := func(q string) (Filter, error) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/classes?"+q, nil)
		return FilterFromQuery(c)
	}

	f, err := parse("type=yoga&difficulty=advanced&date=2026-11-02&trainer_id=3&upcoming=true&search=flow")
	assert.NoError(t, err)
	assert.Equal(t, "yoga", f.Type)
	assert.Equal(t, Advanced, f.Difficulty)
	assert.Equal(t, 3, f.TrainerID)
	assert.True(t, f.Upcoming)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), *f.Date)

	for _, q := range []string{"difficulty=expert", "date=02/11/2026", "trainer_id=x", "upcoming=maybe"} {
		_, err := parse(q)
		assert.Error(t, err, q)
	}
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockRepository)
	repo.On("List", mock.Anything, Filter{Type: "yoga"}).Return([]Class{{ID: 1}}, nil)
	repo.On("GetByID", mock.Anything, 1).Return(&Class{ID: 1, TrainerID: 2, Schedule: now.Add(time.Hour)}, nil)
	repo.On("GetByID", mock.Anything, 9).Return(nil, ErrClassNotFound)
	h := NewHandler(newTestService(repo))

	r := gin.New()
	r.GET("/classes", h.ListClasses)
	r.GET("/classes/:id", h.GetClass)
	r.POST("/classes", asActor(trainer), h.CreateClass)
	r.GET("/classes/:id/participants", asActor(auth.Actor{ID: 5, Role: auth.RoleTrainer}), h.Participants)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/classes?type=yoga", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodGet, "/classes?date=tomorrow", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/classes/9", "").Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/classes/1/participants", "").Code)

	w = do(http.MethodPost, "/classes", `{"name":"   ","schedule":"2030-01-01T07:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must not be blank")

	w = do(http.MethodPost, "/classes", `{"name":"Yoga","schedule":"2020-01-01T07:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "future")
}
