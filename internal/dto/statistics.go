package dto

// StaffDutyStat summarises one staff member's invigilation load in a run.
type StaffDutyStat struct {
	Staff      string         `json:"staff"`
	TotalCount int            `json:"totalCount"`
	PerDate    map[string]int `json:"perDate"`
}

// RoomUsageStat summarises how often a room hosts exams on each date.
type RoomUsageStat struct {
	Room       string         `json:"room"`
	TotalCount int            `json:"totalCount"`
	PerDate    map[string]int `json:"perDate"`
}

// AbnormalDuty flags a staff member with more than one duty on one date.
type AbnormalDuty struct {
	Staff string `json:"staff"`
	Date  string `json:"date"`
	Count int    `json:"count"`
	Note  string `json:"note"`
}
