package allocator

import (
	"fmt"
	"strings"
)

// Room is one examination room as seen by the allocator.
type Room struct {
	Name    string
	IsLab   bool
	IsLarge bool
}

// Staff is one invigilator candidate. Availability is carried through from
// the roster but not enforced; every staff member is treated as available
// all day.
type Staff struct {
	Name         string
	Availability string
}

// TimeSlot is one (date, period) examination window. Slice order is the
// allocation priority order: the first listed slot is tried first.
type TimeSlot struct {
	Date   string
	Period string
}

// Session is one class sitting one exam.
type Session struct {
	Class         string
	Subject       string
	ExamType      string
	RequiresLab   bool
	RequiresSplit bool
}

// FixedSession is an externally mandated assignment committed before the
// automatic pass.
type FixedSession struct {
	Class        string
	Subject      string
	ExamType     string
	Date         string
	Period       string
	Room         string
	Invigilators int
	Note         string
}

// Input is the complete, already materialised catalog for one run.
type Input struct {
	Rooms      []Room
	Staff      []Staff
	Sessions   []Session
	Slots      []TimeSlot
	Fixed      []FixedSession
	DailyQuota int
}

// ValidationError reports blocking input problems found before allocation.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid allocation input: " + strings.Join(e.Problems, "; ")
}

// validate checks the catalog before any allocation work happens. The
// allocator never runs on invalid input.
func validate(in Input) error {
	var problems []string

	if len(in.Rooms) == 0 {
		problems = append(problems, "room table is empty")
	}
	if len(in.Staff) == 0 {
		problems = append(problems, "staff table is empty")
	}
	if len(in.Slots) == 0 {
		problems = append(problems, "timeslot table is empty")
	}

	roomNames := make(map[string]bool, len(in.Rooms))
	for i, room := range in.Rooms {
		if room.Name == "" {
			problems = append(problems, fmt.Sprintf("room row %d has no name", i+1))
			continue
		}
		if roomNames[room.Name] {
			problems = append(problems, fmt.Sprintf("duplicate room name %q", room.Name))
		}
		roomNames[room.Name] = true
	}

	staffNames := make(map[string]bool, len(in.Staff))
	for i, member := range in.Staff {
		if member.Name == "" {
			problems = append(problems, fmt.Sprintf("staff row %d has no name", i+1))
			continue
		}
		if staffNames[member.Name] {
			problems = append(problems, fmt.Sprintf("duplicate staff name %q", member.Name))
		}
		staffNames[member.Name] = true
	}

	slotKeys := make(map[slotKey]bool, len(in.Slots))
	for i, slot := range in.Slots {
		if slot.Date == "" || slot.Period == "" {
			problems = append(problems, fmt.Sprintf("timeslot row %d is missing date or period", i+1))
			continue
		}
		key := slotKey{Date: slot.Date, Period: slot.Period}
		if slotKeys[key] {
			problems = append(problems, fmt.Sprintf("duplicate timeslot %s %s", slot.Date, slot.Period))
		}
		slotKeys[key] = true
	}

	for i, session := range in.Sessions {
		if session.Class == "" || session.Subject == "" || session.ExamType == "" {
			problems = append(problems, fmt.Sprintf("session row %d is missing class, subject or exam type", i+1))
		}
	}

	fixedRooms := make(map[string]bool)
	fixedClasses := make(map[string]bool)
	for i, fixed := range in.Fixed {
		if fixed.Class == "" || fixed.Subject == "" || fixed.Date == "" || fixed.Period == "" || fixed.Room == "" {
			problems = append(problems, fmt.Sprintf("fixed session row %d has missing required fields", i+1))
			continue
		}
		if !roomNames[fixed.Room] {
			problems = append(problems, fmt.Sprintf("fixed session row %d names unknown room %q", i+1, fixed.Room))
		}
		key := slotKey{Date: fixed.Date, Period: fixed.Period}
		if !slotKeys[key] {
			problems = append(problems, fmt.Sprintf("fixed session row %d names unknown timeslot %s %s", i+1, fixed.Date, fixed.Period))
		}
		if fixed.Invigilators < 1 || fixed.Invigilators > 2 {
			problems = append(problems, fmt.Sprintf("fixed session row %d requires %d invigilators, want 1 or 2", i+1, fixed.Invigilators))
		}
		roomKey := fixed.Date + "|" + fixed.Period + "|" + fixed.Room
		if fixedRooms[roomKey] {
			problems = append(problems, fmt.Sprintf("fixed sessions double-book room %q at %s %s", fixed.Room, fixed.Date, fixed.Period))
		}
		fixedRooms[roomKey] = true
		classKey := fixed.Date + "|" + fixed.Period + "|" + fixed.Class
		if fixedClasses[classKey] {
			problems = append(problems, fmt.Sprintf("fixed sessions double-book class %q at %s %s", fixed.Class, fixed.Date, fixed.Period))
		}
		fixedClasses[classKey] = true
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
