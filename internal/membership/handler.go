package membership

import (
	"errors"
	"net/http"

	"fitzone/internal/api"
	"fitzone/internal/auth"
	"fitzone/internal/logger"
	"fitzone/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListPlans godoc
// @Summary      List membership plans
// @Tags         membership
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Plan}
// @Router       /membership/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	api.List(c, h.service.Plans())
}

// My godoc
// @Summary      Current membership
// @Description  Returns the caller's membership with status, remaining classes and days left.
// @Tags         membership
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=View}
// @Router       /membership/my [get]
func (h *Handler) My(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	view, err := h.service.My(c.Request.Context(), userID)
	if err != nil {
		logger.WithError(err).Error("failed to load membership", "user_id", userID)
		api.Error(c, http.StatusInternalServerError, "Failed to load membership")
		return
	}
	api.OK(c, view)
}

// Grant godoc
// @Summary      Grant membership
// @Description  Admin activates a plan for a member without payment.
// @Tags         admin,membership
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      GrantRequest  true  "Member and plan"
// @Success      201      {object}  api.Envelope{data=Membership}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /members [post]
func (h *Handler) Grant(c *gin.Context) {
	var req GrantRequest
	if !api.BindJSON(c, &req) {
		return
	}

	m, err := h.service.Grant(c.Request.Context(), req)
	switch {
	case err == nil:
		api.Created(c, "Membership activated", m)
	case errors.Is(err, ErrPlanNotFound):
		api.Error(c, http.StatusBadRequest, "Unknown membership plan")
	case errors.Is(err, ErrNotMember):
		api.Error(c, http.StatusBadRequest, "Memberships can only be granted to members")
	case errors.Is(err, user.ErrUserNotFound):
		api.Error(c, http.StatusNotFound, "User not found")
	default:
		logger.WithError(err).Error("failed to grant membership", "user_id", req.UserID)
		api.Error(c, http.StatusInternalServerError, "Failed to grant membership")
	}
}

// ListActive godoc
// @Summary      List active memberships
// @Tags         admin,membership
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Membership}
// @Router       /members [get]
func (h *Handler) ListActive(c *gin.Context) {
	list, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("failed to list memberships")
		api.Error(c, http.StatusInternalServerError, "Failed to list memberships")
		return
	}
	api.List(c, list)
}
