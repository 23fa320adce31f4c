package attendance

import (
	"errors"
	"net/http"
	"strconv"

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
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrWrongClass):
		api.Error(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, ErrNotOwner):
		api.Error(c, http.StatusForbidden, "You can only mark attendance for your own classes")
	case errors.Is(err, ErrBookingNotActive):
		api.Error(c, http.StatusBadRequest, "Attendance can only be marked for confirmed bookings")
	default:
		logger.WithError(err).Error(fallback, "path", c.FullPath())
		api.Error(c, http.StatusInternalServerError, fallback)
	}
}

func statusText(attended bool) string {
	if attended {
		return "present"
	}
	return "absent"
}

// Mark godoc
// @Summary      Mark attendance
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      MarkRequest  true  "Booking and attendance"
// @Success      200      {object}  api.Envelope{data=Attendance}
// @Failure      400      {object}  api.Envelope
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /attendance [post]
func (h *Handler) Mark(c *gin.Context) {
	var req MarkRequest
	if !api.BindJSON(c, &req) {
		return
	}

	a, err := h.service.Mark(c.Request.Context(), auth.GetActor(c), 0, req.BookingID, *req.Attended)
	if err != nil {
		h.fail(c, err, "Failed to mark attendance")
		return
	}
	api.Message(c, "Marked as "+statusText(a.Attended), a)
}

// MarkInClass godoc
// @Summary      Mark attendance in a class
// @Description  Trainer roster action; the booking must belong to the class.
// @Tags         trainer,attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        classId    path      int                 true  "Class ID"
// @Param        bookingId  path      int                 true  "Booking ID"
// @Param        request    body      TrainerMarkRequest  true  "Attendance"
// @Success      200        {object}  api.Envelope{data=Attendance}
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /trainer/classes/{classId}/attendance/{bookingId} [post]
func (h *Handler) MarkInClass(c *gin.Context) {
	classID, ok := api.IDParam(c, "classId")
	if !ok {
		return
	}
	bookingID, ok := api.IDParam(c, "bookingId")
	if !ok {
		return
	}
	var req TrainerMarkRequest
	if !api.BindJSON(c, &req) {
		return
	}

	a, err := h.service.Mark(c.Request.Context(), auth.GetActor(c), classID, bookingID, *req.Attended)
	if err != nil {
		h.fail(c, err, "Failed to mark attendance")
		return
	}
	api.Message(c, "Marked as "+statusText(a.Attended), a)
}

// List godoc
// @Summary      List attendance
// @Description  Admins see every class, trainers only their own.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        class_id  query     int  false  "Class ID"
// @Success      200       {object}  api.Envelope{data=[]Record}
// @Router       /attendance [get]
func (h *Handler) List(c *gin.Context) {
	classID := 0
	if v := c.Query("class_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			api.Error(c, http.StatusBadRequest, "class_id must be a positive integer")
			return
		}
		classID = id
	}

	list, err := h.service.List(c.Request.Context(), auth.GetActor(c), classID)
	if err != nil {
		h.fail(c, err, "Failed to fetch attendance")
		return
	}
	api.List(c, list)
}

// ListMine godoc
// @Summary      My attendance
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Record}
// @Router       /attendance/my [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	list, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to fetch attendance")
		return
	}
	api.List(c, list)
}
