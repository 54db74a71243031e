package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
)

type rosterServiceMock struct {
	rooms      []models.Room
	staff      []models.Staff
	slots      []models.TimeSlot
	sessions   []models.ExamSession
	fixed      []models.FixedSession
	replaceErr error
}

func (m *rosterServiceMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	return m.rooms, nil
}

func (m *rosterServiceMock) ReplaceRooms(ctx context.Context, req dto.ReplaceRoomsRequest) ([]models.Room, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	rooms := make([]models.Room, 0, len(req.Rooms))
	for i, item := range req.Rooms {
		rooms = append(rooms, models.Room{Name: item.Name, IsLab: item.IsLab, IsLarge: item.IsLarge, Position: i})
	}
	return rooms, nil
}

func (m *rosterServiceMock) ListStaff(ctx context.Context) ([]models.Staff, error) {
	return m.staff, nil
}

func (m *rosterServiceMock) ReplaceStaff(ctx context.Context, req dto.ReplaceStaffRequest) ([]models.Staff, error) {
	return m.staff, m.replaceErr
}

func (m *rosterServiceMock) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	return m.slots, nil
}

func (m *rosterServiceMock) ReplaceTimeSlots(ctx context.Context, req dto.ReplaceTimeSlotsRequest) ([]models.TimeSlot, error) {
	return m.slots, m.replaceErr
}

func (m *rosterServiceMock) ListSessions(ctx context.Context) ([]models.ExamSession, error) {
	return m.sessions, nil
}

func (m *rosterServiceMock) ReplaceSessions(ctx context.Context, req dto.ReplaceSessionsRequest) ([]models.ExamSession, error) {
	return m.sessions, m.replaceErr
}

func (m *rosterServiceMock) ListFixedSessions(ctx context.Context) ([]models.FixedSession, error) {
	return m.fixed, nil
}

func (m *rosterServiceMock) ReplaceFixedSessions(ctx context.Context, req dto.ReplaceFixedSessionsRequest) ([]models.FixedSession, error) {
	return m.fixed, m.replaceErr
}

func TestRosterHandlerTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRosterHandler(&rosterServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/rosters/templates", nil)
	c.Request = req

	handler.Templates(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	for _, table := range []string{"rooms", "staff", "timeSlots", "sessions", "fixedSessions"} {
		assert.Contains(t, envelope.Data, table)
	}

	var rooms dto.ReplaceRoomsRequest
	require.NoError(t, json.Unmarshal(envelope.Data["rooms"], &rooms))
	assert.NotEmpty(t, rooms.Rooms)
}

func TestRosterHandlerReplaceRooms(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRosterHandler(&rosterServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ReplaceRoomsRequest{Rooms: []dto.RoomItem{
		{Name: "Room 101"},
		{Name: "Computer Lab 1", IsLab: true},
	}})
	req, _ := http.NewRequest(http.MethodPut, "/rosters/rooms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.ReplaceRooms(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Room `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.True(t, envelope.Data[1].IsLab)
}

func TestRosterHandlerReplaceRoomsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRosterHandler(&rosterServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/rosters/rooms", bytes.NewReader([]byte(`{"rooms":`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.ReplaceRooms(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRosterHandlerListStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &rosterServiceMock{staff: []models.Staff{{Name: "Alice"}, {Name: "Bob"}}}
	handler := NewRosterHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/rosters/staff", nil)
	c.Request = req

	handler.ListStaff(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Staff `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "Alice", envelope.Data[0].Name)
}
