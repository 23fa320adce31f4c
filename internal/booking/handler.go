package booking

import (
	"errors"
	"net/http"

	"fitzone/internal/api"
	"fitzone/internal/auth"
	"fitzone/internal/gymclass"
	"fitzone/internal/logger"
	"fitzone/internal/membership"

	"github.com/gin-gonic/gin"
)

// MembershipPage is where clients send members who cannot book.
const MembershipPage = "/membership"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, membership.ErrMembershipRequired):
		api.Redirect(c, http.StatusForbidden, "membership_required",
			"An active membership is required to book classes", MembershipPage)
	case errors.Is(err, membership.ErrClassLimitReached):
		api.Redirect(c, http.StatusForbidden, "class_limit_reached",
			"You have used all classes included in your membership", MembershipPage)
	case errors.Is(err, gymclass.ErrClassNotFound):
		api.Error(c, http.StatusNotFound, "Class not found")
	case errors.Is(err, ErrBookingNotFound):
		api.Error(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, ErrClassInPast):
		api.Error(c, http.StatusBadRequest, "This class has already started")
	case errors.Is(err, ErrAlreadyBooked):
		api.Error(c, http.StatusConflict, "You have already booked this class")
	case errors.Is(err, ErrClassFull):
		api.Error(c, http.StatusConflict, "Class is fully booked")
	case errors.Is(err, ErrAlreadyCancelled):
		api.Error(c, http.StatusBadRequest, "Booking is already cancelled")
	case errors.Is(err, ErrCancelStarted):
		api.Error(c, http.StatusBadRequest, "Bookings cannot be cancelled after the class starts")
	case errors.Is(err, ErrWrongClass):
		api.Error(c, http.StatusNotFound, "Booking not found in this class")
	case errors.Is(err, ErrNotOwner), errors.Is(err, gymclass.ErrNotOwner):
		api.Error(c, http.StatusForbidden, "Access denied")
	default:
		logger.WithError(err).Error(fallback, "path", c.FullPath())
		api.Error(c, http.StatusInternalServerError, fallback)
	}
}

// Create godoc
// @Summary      Book a class
// @Description  Requires an active membership with classes left. Refusals caused by membership carry code and redirect.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Class to book"
// @Success      201      {object}  api.Envelope{data=Details}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}
	userID, _ := auth.GetUserID(c)

	d, err := h.service.Book(c.Request.Context(), userID, req.ClassID)
	if err != nil {
		h.fail(c, err, "Failed to book class")
		return
	}
	api.Created(c, "Class booked successfully", d)
}

// ListMine godoc
// @Summary      My bookings
// @Description  All of the caller's bookings, newest first, with class, trainer and attendance.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Details}
// @Router       /bookings/my [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	list, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to fetch bookings")
		return
	}
	api.List(c, list)
}

// Get godoc
// @Summary      Get booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Booking ID"
// @Success      200  {object}  api.Envelope{data=Details}
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /bookings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), auth.GetActor(c), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch booking")
		return
	}
	api.OK(c, d)
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Soft cancel. The booking stays in history with status cancelled and the class returns to the quota.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Booking ID"
// @Success      200  {object}  api.Envelope{data=Details}
// @Failure      400  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /bookings/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Cancel(c.Request.Context(), auth.GetActor(c), id)
	if err != nil {
		h.fail(c, err, "Failed to cancel booking")
		return
	}
	api.Message(c, "Booking cancelled successfully", d)
}

// ListAll godoc
// @Summary      List all bookings
// @Tags         admin,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "confirmed | cancelled"
// @Success      200     {object}  api.Envelope{data=[]Details}
// @Router       /bookings [get]
func (h *Handler) ListAll(c *gin.Context) {
	status := Status(c.Query("status"))
	if status != "" && status != StatusConfirmed && status != StatusCancelled {
		api.Error(c, http.StatusBadRequest, "status must be confirmed or cancelled")
		return
	}

	list, err := h.service.ListAll(c.Request.Context(), status)
	if err != nil {
		h.fail(c, err, "Failed to fetch bookings")
		return
	}
	api.List(c, list)
}

// RemoveMember godoc
// @Summary      Remove member from class
// @Description  Trainer cancels a member's booking in one of their classes.
// @Tags         trainer
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        classId    path      int            true   "Class ID"
// @Param        bookingId  path      int            true   "Booking ID"
// @Param        request    body      CancelRequest  false  "Optional reason sent to the member"
// @Success      200        {object}  api.Envelope{data=Details}
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /trainer/classes/{classId}/members/{bookingId} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	classID, ok := api.IDParam(c, "classId")
	if !ok {
		return
	}
	bookingID, ok := api.IDParam(c, "bookingId")
	if !ok {
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 && !api.BindJSON(c, &req) {
		return
	}

	d, err := h.service.RemoveFromClass(c.Request.Context(), auth.GetActor(c), classID, bookingID, req.Reason)
	if err != nil {
		h.fail(c, err, "Failed to remove member")
		return
	}
	api.Message(c, d.MemberName+" has been removed from "+d.ClassName, d)
}
