package payment

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitzone/internal/api"
	"fitzone/internal/auth"
	"fitzone/internal/logger"
	"fitzone/internal/membership"
	"fitzone/internal/user"

	"github.com/gin-gonic/gin"
)

// CallbackTokenHeader carries the shared secret on gateway notifications.
const CallbackTokenHeader = "X-Callback-Token"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var active *ActiveMembershipError
	var status *StatusError
	switch {
	case errors.As(err, &active):
		api.Error(c, http.StatusBadRequest, fmt.Sprintf("You already have an active %s membership until %s",
			active.Plan, active.Until.Format("2006-01-02")))
	case errors.As(err, &status):
		api.Error(c, http.StatusBadRequest, fmt.Sprintf("Payment already %s", status.Status))
	case errors.Is(err, ErrPaymentNotFound):
		api.Error(c, http.StatusNotFound, "Payment not found")
	case errors.Is(err, user.ErrUserNotFound):
		api.Error(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrNotOwner):
		api.Error(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, ErrInvalidMethod):
		api.Error(c, http.StatusBadRequest, "Unsupported payment method")
	case errors.Is(err, ErrInvalidDetail):
		api.Error(c, http.StatusBadRequest, "Choose a supported bank or e-wallet for this payment method")
	case errors.Is(err, membership.ErrPlanNotFound):
		api.Error(c, http.StatusBadRequest, "Unknown membership plan")
	case errors.Is(err, ErrBadCallbackToken):
		api.Error(c, http.StatusUnauthorized, "Invalid callback token")
	case errors.Is(err, ErrUnknownStatus):
		api.Error(c, http.StatusBadRequest, "Unknown transaction status")
	case errors.Is(err, ErrInvalidTransition):
		api.Error(c, http.StatusConflict, "Payment status cannot change this way")
	default:
		logger.WithError(err).Error(fallback, "path", c.FullPath())
		api.Error(c, http.StatusInternalServerError, fallback)
	}
}

// ListMethods godoc
// @Summary      List payment methods
// @Tags         payments
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Method}
// @Router       /payment/methods [get]
func (h *Handler) ListMethods(c *gin.Context) {
	api.List(c, h.service.Methods())
}

// Create godoc
// @Summary      Create a membership payment
// @Description  Returns the member's existing pending payment when there is one.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Plan and payment method"
// @Success      200      {object}  api.Envelope{data=Checkout}
// @Success      201      {object}  api.Envelope{data=Checkout}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /payment/create [post]
// @Router       /membership/subscribe [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}
	userID, _ := auth.GetUserID(c)

	co, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err, "Failed to create payment")
		return
	}
	if co.Existing {
		api.Message(c, "You have a pending payment", co)
		return
	}
	api.Created(c, "Payment created", co)
}

// Status godoc
// @Summary      Payment status
// @Description  Pending payments past their deadline are expired on read.
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        orderId  path      string  true  "Order ID"
// @Success      200      {object}  api.Envelope{data=Payment}
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /payment/{orderId}/status [get]
func (h *Handler) Status(c *gin.Context) {
	p, err := h.service.Status(c.Request.Context(), auth.GetActor(c), c.Param("orderId"))
	if err != nil {
		h.fail(c, err, "Failed to load payment")
		return
	}
	api.OK(c, p)
}

// Simulate godoc
// @Summary      Simulate payment outcome
// @Description  Only available when payment simulation is enabled.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        orderId  path      string           true  "Order ID"
// @Param        request  body      SimulateRequest  true  "Outcome"
// @Success      200      {object}  api.Envelope{data=Payment}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /payment/{orderId}/simulate [post]
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Simulate(c.Request.Context(), auth.GetActor(c), c.Param("orderId"), req.Action)
	if err != nil {
		h.fail(c, err, "Failed to simulate payment")
		return
	}
	if p.Status == StatusSuccess {
		api.Message(c, "Payment successful, membership activated", p)
		return
	}
	api.Message(c, fmt.Sprintf("Payment %s", p.Status), p)
}

// Callback godoc
// @Summary      Gateway notification
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Callback-Token  header    string           false  "Shared callback secret"
// @Param        request           body      CallbackRequest  true   "Notification"
// @Success      200               {object}  api.Envelope{data=Payment}
// @Failure      401               {object}  api.ErrorResponse
// @Router       /payment/callback [post]
func (h *Handler) Callback(c *gin.Context) {
	var req CallbackRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Callback(c.Request.Context(), c.GetHeader(CallbackTokenHeader), req)
	if err != nil {
		h.fail(c, err, "Failed to process callback")
		return
	}
	api.Message(c, "Callback processed", p)
}

// History godoc
// @Summary      My payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Payment}
// @Router       /payment/history [get]
func (h *Handler) History(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	list, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to load payment history")
		return
	}
	api.List(c, list)
}

// ListAll godoc
// @Summary      All payments
// @Tags         admin,payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Record}
// @Router       /payment/all [get]
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.service.All(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list payments")
		return
	}
	api.List(c, list)
}

// FilterFromQuery reads start_date, end_date, status and plan. "all" means no filter.
func FilterFromQuery(c *gin.Context) (ReportFilter, error) {
	var f ReportFilter
	for name, dst := range map[string]**time.Time{"start_date": &f.StartDate, "end_date": &f.EndDate} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("%s must be YYYY-MM-DD", name)
		}
		*dst = &t
	}
	if s := c.Query("status"); s != "" && s != "all" {
		if !Status(s).Valid() {
			return f, fmt.Errorf("unknown status %q", s)
		}
		f.Status = Status(s)
	}
	if p := c.Query("plan"); p != "all" {
		f.Plan = p
	}
	return f, nil
}

// Report godoc
// @Summary      Payment report
// @Tags         admin,payments
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "From date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "To date, inclusive (YYYY-MM-DD)"
// @Param        status      query     string  false  "Payment status or all"
// @Param        plan        query     string  false  "Plan name or all"
// @Success      200         {object}  api.Envelope{data=Report}
// @Failure      400         {object}  api.ErrorResponse
// @Router       /payment/report [get]
func (h *Handler) Report(c *gin.Context) {
	f, err := FilterFromQuery(c)
	if err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := h.service.Report(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "Failed to build payment report")
		return
	}
	api.OK(c, rep)
}
