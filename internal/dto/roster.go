package dto

// RoomItem is one room row in a roster replacement payload.
type RoomItem struct {
	Name    string `json:"name" validate:"required"`
	IsLab   bool   `json:"isLab"`
	IsLarge bool   `json:"isLarge"`
}

// ReplaceRoomsRequest replaces the whole room roster in one call.
type ReplaceRoomsRequest struct {
	Rooms []RoomItem `json:"rooms" validate:"required,min=1,dive"`
}

// StaffItem is one staff row in a roster replacement payload.
type StaffItem struct {
	Name         string `json:"name" validate:"required"`
	Availability string `json:"availability"`
}

// ReplaceStaffRequest replaces the whole staff roster in one call.
type ReplaceStaffRequest struct {
	Staff []StaffItem `json:"staff" validate:"required,min=1,dive"`
}

// TimeSlotItem is one examination window. Row order is the allocation
// priority order.
type TimeSlotItem struct {
	Date   string `json:"date" validate:"required"`
	Period string `json:"period" validate:"required"`
}

// ReplaceTimeSlotsRequest replaces the whole timeslot list in one call.
type ReplaceTimeSlotsRequest struct {
	TimeSlots []TimeSlotItem `json:"timeSlots" validate:"required,min=1,dive"`
}

// SessionItem is one class sitting one exam.
type SessionItem struct {
	Class         string `json:"class" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	ExamType      string `json:"examType" validate:"required"`
	RequiresLab   bool   `json:"requiresLab"`
	RequiresSplit bool   `json:"requiresSplit"`
}

// ReplaceSessionsRequest replaces the whole session table in one call.
type ReplaceSessionsRequest struct {
	Sessions []SessionItem `json:"sessions" validate:"required,min=1,dive"`
}

// FixedSessionItem is one externally mandated assignment.
type FixedSessionItem struct {
	Class        string `json:"class" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
	ExamType     string `json:"examType" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Period       string `json:"period" validate:"required"`
	Room         string `json:"room" validate:"required"`
	Invigilators int    `json:"invigilators" validate:"required,min=1,max=2"`
	Note         string `json:"note"`
}

// ReplaceFixedSessionsRequest replaces the fixed session table in one call.
// An empty list is allowed: most runs have no mandated assignments.
type ReplaceFixedSessionsRequest struct {
	FixedSessions []FixedSessionItem `json:"fixedSessions" validate:"dive"`
}
