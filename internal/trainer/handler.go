package trainer

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
	case errors.Is(err, ErrTrainerNotFound):
		api.Error(c, http.StatusNotFound, "Trainer not found")
	case errors.Is(err, ErrInvalidTransition):
		api.Error(c, http.StatusConflict, "An approved trainer cannot be rejected or approved again")
	case errors.Is(err, ErrReasonRequired):
		api.Error(c, http.StatusBadRequest, "A rejection reason is required")
	default:
		logger.WithError(err).Error(fallback, "path", c.FullPath())
		api.Error(c, http.StatusInternalServerError, fallback)
	}
}

// List godoc
// @Summary      List trainers by approval status
// @Tags         admin,trainers
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "pending, approved, rejected or all"
// @Success      200     {object}  api.Envelope{data=Listing}
// @Failure      400     {object}  api.ErrorResponse
// @Router       /admin/trainers [get]
func (h *Handler) List(c *gin.Context) {
	status := auth.ApprovalStatus(c.Query("status"))
	if status == "all" {
		status = ""
	}
	if status != "" && !status.Valid() {
		api.Error(c, http.StatusBadRequest, "status must be pending, approved, rejected or all")
		return
	}

	listing, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		h.fail(c, err, "Failed to list trainers")
		return
	}
	api.OK(c, listing)
}

// Approve godoc
// @Summary      Approve a trainer
// @Tags         admin,trainers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Trainer ID"
// @Success      200  {object}  api.Envelope{data=Trainer}
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/trainers/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	t, err := h.service.Approve(c.Request.Context(), auth.GetActor(c), id)
	if err != nil {
		h.fail(c, err, "Failed to approve trainer")
		return
	}
	api.Message(c, "Trainer approved", t)
}

// Reject godoc
// @Summary      Reject a trainer
// @Tags         admin,trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int            true  "Trainer ID"
// @Param        request  body      RejectRequest  true  "Reason"
// @Success      200      {object}  api.Envelope{data=Trainer}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/trainers/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	var req RejectRequest
	if !api.BindJSON(c, &req) {
		return
	}

	t, err := h.service.Reject(c.Request.Context(), auth.GetActor(c), id, req.Reason)
	if err != nil {
		h.fail(c, err, "Failed to reject trainer")
		return
	}
	api.Message(c, "Trainer rejected", t)
}
