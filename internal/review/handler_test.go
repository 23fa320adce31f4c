package review

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockRepository)
	h := NewHandler(newTestService(repo))
	asMember := func(c *gin.Context) {
		c.Set("user_id", member.ID)
		c.Set("user_role", member.Role)
	}

	r := gin.New()
	r.GET("/classes/:id/reviews", h.ListForClass)
	r.POST("/classes/:id/reviews", asMember, h.Create)
	r.GET("/reviews/my", asMember, h.ListMine)
	r.DELETE("/reviews/:id", asMember, h.Delete)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	repo.On("ClassName", mock.Anything, 3).Return("Spin", nil)
	repo.On("ClassName", mock.Anything, 9).Return("", ErrClassNotFound)
	repo.On("ListByClass", mock.Anything, 3).Return([]Review{{Rating: 4}}, nil)
	repo.On("CanReview", mock.Anything, 7, 3, now).Return(true, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(ErrAlreadyReviewed)
	repo.On("ListByUser", mock.Anything, 7).Return([]Review{}, nil)
	repo.On("GetByID", mock.Anything, 12).Return(&Review{ID: 12, UserID: 8}, nil)

	w := do(http.MethodGet, "/classes/3/reviews", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"average_rating":4`)

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/classes/9/reviews", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/classes/3/reviews", `{"rating":6}`).Code)
	assert.Equal(t, http.StatusConflict, do(http.MethodPost, "/classes/3/reviews", `{"rating":5}`).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/reviews/my", "").Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodDelete, "/reviews/12", "").Code)
}
