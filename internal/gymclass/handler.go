package gymclass

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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
	case errors.Is(err, ErrNotOwner):
		api.Error(c, http.StatusForbidden, "You can only manage your own classes")
	case errors.Is(err, ErrScheduleInPast):
		api.Error(c, http.StatusBadRequest, "Class schedule must be in the future")
	case errors.Is(err, ErrCapacityBelowBooked):
		api.Error(c, http.StatusBadRequest, "Capacity cannot be lower than the number of confirmed bookings")
	case errors.Is(err, ErrTrainerRequired):
		api.Error(c, http.StatusBadRequest, "trainer_id must reference an approved trainer")
	case errors.Is(err, ErrClassHasBookings):
		api.Error(c, http.StatusConflict, "Cancel the confirmed bookings before deleting this class")
	default:
		logger.WithError(err).Error(fallback, "path", c.FullPath())
		api.Error(c, http.StatusInternalServerError, fallback)
	}
}

// FilterFromQuery parses the class list query parameters.
func FilterFromQuery(c *gin.Context) (Filter, error) {
	f := Filter{
		Search:     c.Query("search"),
		Type:       c.Query("type"),
		Difficulty: Difficulty(c.Query("difficulty")),
	}
	if f.Difficulty != "" && !f.Difficulty.Valid() {
		return f, errors.New("difficulty must be one of: beginner intermediate advanced")
	}
	if v := c.Query("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("date must be formatted as YYYY-MM-DD")
		}
		f.Date = &d
	}
	if v := c.Query("trainer_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return f, errors.New("trainer_id must be a positive integer")
		}
		f.TrainerID = id
	}
	if v := c.Query("upcoming"); v != "" {
		up, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.New("upcoming must be true or false")
		}
		f.Upcoming = up
	}
	return f, nil
}

// ListClasses godoc
// @Summary      List classes
// @Description  All filters combine with AND.
// @Tags         classes
// @Produce      json
// @Param        search      query     string  false  "Matches name, description, type or trainer"
// @Param        type        query     string  false  "Class type"
// @Param        difficulty  query     string  false  "beginner | intermediate | advanced"
// @Param        date        query     string  false  "YYYY-MM-DD"
// @Param        trainer_id  query     int     false  "Trainer ID"
// @Param        upcoming    query     bool    false  "Only classes that have not started"
// @Success      200         {object}  api.Envelope{data=[]Class}
// @Failure      400         {object}  api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	f, err := FilterFromQuery(c)
	if err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	classes, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err, "Failed to fetch classes")
		return
	}
	api.List(c, classes)
}

// GetClass godoc
// @Summary      Get class
// @Tags         classes
// @Produce      json
// @Param        id   path      int  true  "Class ID"
// @Success      200  {object}  api.Envelope{data=Class}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /classes/{id} [get]
func (h *Handler) GetClass(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	class, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch class")
		return
	}
	api.OK(c, class)
}

// Participants godoc
// @Summary      Class participants
// @Description  Confirmed bookings of a class with attendance. Owning trainer or admin.
// @Tags         classes,trainer
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Class ID"
// @Success      200  {object}  api.Envelope{data=[]Participant}
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /classes/{id}/participants [get]
func (h *Handler) Participants(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.service.Participants(c.Request.Context(), auth.GetActor(c), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch participants")
		return
	}
	api.List(c, list)
}

// CreateClass godoc
// @Summary      Create class
// @Description  Approved trainers create classes for themselves; admins must pass trainer_id.
// @Tags         classes,trainer,admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ClassRequest  true  "Class"
// @Success      201      {object}  api.Envelope{data=Class}
// @Failure      400      {object}  api.Envelope
// @Failure      403      {object}  api.ErrorResponse
// @Router       /classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req ClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	class, err := h.service.Create(c.Request.Context(), auth.GetActor(c), req)
	if err != nil {
		h.fail(c, err, "Failed to create class")
		return
	}
	api.Created(c, "Class created", class)
}

// UpdateClass godoc
// @Summary      Update class
// @Tags         classes,trainer,admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int           true  "Class ID"
// @Param        request  body      ClassRequest  true  "Class"
// @Success      200      {object}  api.Envelope{data=Class}
// @Failure      400      {object}  api.Envelope
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /classes/{id} [put]
func (h *Handler) UpdateClass(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	var req ClassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	class, err := h.service.Update(c.Request.Context(), auth.GetActor(c), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update class")
		return
	}
	api.Message(c, "Class updated", class)
}

// DeleteClass godoc
// @Summary      Delete class
// @Tags         classes,trainer,admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Class ID"
// @Success      200  {object}  api.Envelope
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /classes/{id} [delete]
func (h *Handler) DeleteClass(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.GetActor(c), id); err != nil {
		h.fail(c, err, "Failed to delete class")
		return
	}
	api.Message(c, "Class deleted", nil)
}

// TrainerClasses godoc
// @Summary      Trainer roster
// @Description  The calling trainer's classes with confirmed participants and attendance.
// @Tags         trainer
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=[]Roster}
// @Router       /trainer/classes [get]
func (h *Handler) TrainerClasses(c *gin.Context) {
	trainerID, _ := auth.GetUserID(c)

	roster, err := h.service.TrainerRoster(c.Request.Context(), trainerID)
	if err != nil {
		h.fail(c, err, "Failed to fetch trainer classes")
		return
	}
	api.List(c, roster)
}
