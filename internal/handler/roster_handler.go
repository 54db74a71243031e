package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
	"github.com/lifeng-edu/exam-duty-api/pkg/response"
)

type rosterService interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	ReplaceRooms(ctx context.Context, req dto.ReplaceRoomsRequest) ([]models.Room, error)
	ListStaff(ctx context.Context) ([]models.Staff, error)
	ReplaceStaff(ctx context.Context, req dto.ReplaceStaffRequest) ([]models.Staff, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	ReplaceTimeSlots(ctx context.Context, req dto.ReplaceTimeSlotsRequest) ([]models.TimeSlot, error)
	ListSessions(ctx context.Context) ([]models.ExamSession, error)
	ReplaceSessions(ctx context.Context, req dto.ReplaceSessionsRequest) ([]models.ExamSession, error)
	ListFixedSessions(ctx context.Context) ([]models.FixedSession, error)
	ReplaceFixedSessions(ctx context.Context, req dto.ReplaceFixedSessionsRequest) ([]models.FixedSession, error)
}

// RosterHandler exposes the allocation input tables.
type RosterHandler struct {
	service rosterService
}

// NewRosterHandler builds a new handler.
func NewRosterHandler(service rosterService) *RosterHandler {
	return &RosterHandler{service: service}
}

// Templates godoc
// @Summary Example payloads for every roster table
// @Description Pre-filled upload templates matching the PUT payload shapes.
// @Tags Rosters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rosters/templates [get]
func (h *RosterHandler) Templates(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"rooms": dto.ReplaceRoomsRequest{Rooms: []dto.RoomItem{
			{Name: "Room 101"},
			{Name: "Computer Lab 1", IsLab: true},
			{Name: "Main Hall", IsLarge: true},
		}},
		"staff": dto.ReplaceStaffRequest{Staff: []dto.StaffItem{
			{Name: "Alice Zhang"},
			{Name: "Bob Lin"},
		}},
		"timeSlots": dto.ReplaceTimeSlotsRequest{TimeSlots: []dto.TimeSlotItem{
			{Date: "2026-01-12", Period: "08:00-09:30"},
			{Date: "2026-01-12", Period: "10:00-11:30"},
		}},
		"sessions": dto.ReplaceSessionsRequest{Sessions: []dto.SessionItem{
			{Class: "Class 1", Subject: "Math", ExamType: "Final"},
			{Class: "Class 2", Subject: "Math", ExamType: "Final"},
			{Class: "Class 3", Subject: "Informatics", ExamType: "Final", RequiresLab: true},
		}},
		"fixedSessions": dto.ReplaceFixedSessionsRequest{FixedSessions: []dto.FixedSessionItem{
			{Class: "Class 1", Subject: "Physics", ExamType: "Mock", Date: "2026-01-13",
				Period: "08:00-09:30", Room: "Room 101", Invigilators: 1,
				Note: "external examiner attending"},
		}},
	}, nil)
}

// ListRooms godoc
// @Summary List the room roster
// @Tags Rosters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rosters/rooms [get]
func (h *RosterHandler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// ReplaceRooms godoc
// @Summary Replace the room roster
// @Tags Rosters
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceRoomsRequest true "Room roster"
// @Success 200 {object} response.Envelope
// @Router /rosters/rooms [put]
func (h *RosterHandler) ReplaceRooms(c *gin.Context) {
	var req dto.ReplaceRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room roster payload"))
		return
	}
	rooms, err := h.service.ReplaceRooms(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// ListStaff godoc
// @Summary List the staff roster
// @Tags Rosters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rosters/staff [get]
func (h *RosterHandler) ListStaff(c *gin.Context) {
	staff, err := h.service.ListStaff(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff, nil)
}

// ReplaceStaff godoc
// @Summary Replace the staff roster
// @Tags Rosters
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceStaffRequest true "Staff roster"
// @Success 200 {object} response.Envelope
// @Router /rosters/staff [put]
func (h *RosterHandler) ReplaceStaff(c *gin.Context) {
	var req dto.ReplaceStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid staff roster payload"))
		return
	}
	staff, err := h.service.ReplaceStaff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff, nil)
}

// ListTimeSlots godoc
// @Summary List the timeslot table in priority order
// @Tags Rosters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rosters/timeslots [get]
func (h *RosterHandler) ListTimeSlots(c *gin.Context) {
	slots, err := h.service.ListTimeSlots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// ReplaceTimeSlots godoc
// @Summary Replace the timeslot table
// @Tags Rosters
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceTimeSlotsRequest true "Timeslot table"
// @Success 200 {object} response.Envelope
// @Router /rosters/timeslots [put]
func (h *RosterHandler) ReplaceTimeSlots(c *gin.Context) {
	var req dto.ReplaceTimeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timeslot payload"))
		return
	}
	slots, err := h.service.ReplaceTimeSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// ListSessions godoc
// @Summary List the exam session table
// @Tags Rosters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rosters/sessions [get]
func (h *RosterHandler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// ReplaceSessions godoc
// @Summary Replace the exam session table
// @Tags Rosters
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceSessionsRequest true "Session table"
// @Success 200 {object} response.Envelope
// @Router /rosters/sessions [put]
func (h *RosterHandler) ReplaceSessions(c *gin.Context) {
	var req dto.ReplaceSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	sessions, err := h.service.ReplaceSessions(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// ListFixedSessions godoc
// @Summary List the fixed session table
// @Tags Rosters
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rosters/fixed-sessions [get]
func (h *RosterHandler) ListFixedSessions(c *gin.Context) {
	fixed, err := h.service.ListFixedSessions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fixed, nil)
}

// ReplaceFixedSessions godoc
// @Summary Replace the fixed session table
// @Tags Rosters
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceFixedSessionsRequest true "Fixed session table"
// @Success 200 {object} response.Envelope
// @Router /rosters/fixed-sessions [put]
func (h *RosterHandler) ReplaceFixedSessions(c *gin.Context) {
	var req dto.ReplaceFixedSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fixed session payload"))
		return
	}
	fixed, err := h.service.ReplaceFixedSessions(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fixed, nil)
}
