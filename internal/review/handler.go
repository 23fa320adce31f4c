package review

import (
	"errors"
	"net/http"

	"fitzone/internal/api"
	"fitzone/internal/auth"
	"fitzone/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrClassNotFound):
		api.Error(c, http.StatusNotFound, "Class not found")
	case errors.Is(err, ErrReviewNotFound):
		api.Error(c, http.StatusNotFound, "Review not found")
	case errors.Is(err, ErrNotAttended):
		api.Error(c, http.StatusForbidden, "You can only review classes you have attended")
	case errors.Is(err, ErrAlreadyReviewed):
		api.Error(c, http.StatusConflict, "You have already reviewed this class")
	case errors.Is(err, ErrNotAuthor):
		api.Error(c, http.StatusForbidden, "Access denied")
	default:
		logger.WithError(err).Error(fallback, "path", c.FullPath())
		api.Error(c, http.StatusInternalServerError, fallback)
	}
}

// ListForClass godoc
// @Summary      Class reviews
// @Tags         reviews
// @Produce      json
// @Param        id   path      int  true  "Class ID"
// @Success      200  {object}  api.Envelope{data=ClassReviews}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /classes/{id}/reviews [get]
func (h *Handler) ListForClass(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	out, err := h.service.ForClass(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to load reviews")
		return
	}
	api.OK(c, out)
}

// Create godoc
// @Summary      Review a class
// @Description  Members may review a class they booked once it has started, one review per class.
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int      true  "Class ID"
// @Param        request  body      Request  true  "Rating and comment"
// @Success      201      {object}  api.Envelope{data=Review}
// @Failure      403      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /classes/{id}/reviews [post]
func (h *Handler) Create(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	var req Request
	if !api.BindJSON(c, &req) {
		return
	}

	rv, err := h.service.Create(c.Request.Context(), auth.GetActor(c), id, req)
	if err != nil {
		h.fail(c, err, "Failed to create review")
		return
	}
	api.Created(c, "Review added", rv)
}

// Update godoc
// @Summary      Edit a review
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int      true  "Review ID"
// @Param        request  body      Request  true  "Rating and comment"
// @Success      200      {object}  api.Envelope{data=Review}
// @Router       /reviews/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	var req Request
	if !api.BindJSON(c, &req) {
		return
	}

	rv, err := h.service.Update(c.Request.Context(), auth.GetActor(c), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update review")
		return
	}
	api.Message(c, "Review updated", rv)
}

// Delete godoc
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Review ID"
// @Success      200  {object}  api.Envelope
// @Router       /reviews/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), auth.GetActor(c), id); err != nil {
		h.fail(c, err, "Failed to delete review")
		return
	}
	api.Message(c, "Review deleted", nil)
}

// ListMine godoc
// @Summary      My reviews
// @Tags         reviews
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Review}
// @Router       /reviews/my [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	list, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to load reviews")
		return
	}
	api.List(c, list)
}
