// Package allocator implements the deterministic greedy engine that turns an
// exam catalog into an invigilation duty table. Sessions sharing a
// (subject, exam type) pair run simultaneously in one timeslot; rooms,
// classes and staff are never double-booked within a slot; staff carry a
// per-day duty quota. Identical input always yields an identical duty table.
package allocator

import (
	"fmt"
)

// Status classifies one result row.
type Status string

const (
	StatusOK         Status = "ok"
	StatusPartial    Status = "partial"
	StatusUnassigned Status = "unassigned"
)

// Shortfall reasons attached to partial and unassigned rows.
const (
	ReasonNoAvailableTime     = "no available time"
	ReasonNoAvailableRoom     = "no available room"
	ReasonInvigilatorShort    = "invigilator shortfall"
	ReasonFixedShortfall      = "invigilator shortfall — pending"
	ReasonInsufficientToSplit = "insufficient rooms/staff to split"
)

// DefaultDailyQuota caps duties per staff member per day when the caller
// does not override it.
const DefaultDailyQuota = 3

// Assignment is one row of the resulting duty table.
type Assignment struct {
	Class        string
	Subject      string
	ExamType     string
	Date         string
	Period       string
	Room         string
	Invigilators []string
	Status       Status
	Reason       string
	Fixed        bool
}

// Result is the complete outcome of one run: fixed rows first in table
// order, then automatic rows in session order, with split halves expanded
// in place.
type Result struct {
	Assignments     []Assignment
	Warnings        []string
	OKCount         int
	PartialCount    int
	UnassignedCount int
}

// run holds the mutable state of one allocation pass.
type run struct {
	in     Input
	ledger *ledger
	fixed  []Assignment
	auto   []Assignment
}

// Run validates the catalog and produces the duty table. It returns a
// *ValidationError for bad input; any other error means the engine violated
// one of its own occupancy invariants.
func Run(in Input) (result *Result, err error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.DailyQuota <= 0 {
		in.DailyQuota = DefaultDailyQuota
	}

	defer func() {
		if rec := recover(); rec != nil {
			violation, ok := rec.(invariantViolation)
			if !ok {
				panic(rec)
			}
			result = nil
			err = fmt.Errorf("allocation aborted: %s", violation.msg)
		}
	}()

	r := &run{in: in, ledger: newLedger(in.Staff, in.DailyQuota)}
	r.preassign()
	r.allocate()
	return r.finish(), nil
}

// allocate walks the projects in first-appearance order, claims one slot per
// project and places every session of the project at that slot.
func (r *run) allocate() {
	usedSlots := make(map[slotKey]bool)
	for _, p := range groupProjects(r.in.Sessions) {
		at, ok := pickSlot(r.in.Slots, usedSlots)
		if !ok {
			for _, s := range p.sessions {
				r.auto = append(r.auto, unplaced(s, slotKey{}, ReasonNoAvailableTime))
			}
			continue
		}
		usedSlots[at] = true
		for _, s := range p.sessions {
			r.place(s, at)
		}
	}
}

// place books a room and invigilators for one session at the project slot.
func (r *run) place(s Session, at slotKey) {
	if !r.ledger.classFree(at, s.Class) {
		// The class already sits a fixed session in this window.
		r.auto = append(r.auto, unplaced(s, slotKey{}, ReasonNoAvailableTime))
		return
	}

	if s.RequiresSplit {
		if room, ok := r.selectRoom(at, s.RequiresLab, largeOnly); ok {
			r.placeIn(s, at, room)
			return
		}
		if halves, ok := r.trySplit(s, at); ok {
			r.auto = append(r.auto, halves...)
			return
		}
		r.auto = append(r.auto, unplaced(s, at, ReasonInsufficientToSplit))
		return
	}

	room, ok := r.selectRoom(at, s.RequiresLab, anySize)
	if !ok {
		r.auto = append(r.auto, unplaced(s, at, ReasonNoAvailableRoom))
		return
	}
	r.placeIn(s, at, room)
}

// placeIn commits the session into the chosen room. Large rooms need two
// invigilators, small rooms one; the room and slot are kept even when the
// staff pool cannot cover the need.
func (r *run) placeIn(s Session, at slotKey, room Room) {
	needed := 1
	if room.IsLarge {
		needed = 2
	}
	selected := r.selectInvigilators(at, needed)
	r.ledger.commit(at, s.Class, room.Name, selected)

	assignment := Assignment{
		Class:        s.Class,
		Subject:      s.Subject,
		ExamType:     s.ExamType,
		Date:         at.Date,
		Period:       at.Period,
		Room:         room.Name,
		Invigilators: selected,
		Status:       StatusOK,
	}
	if len(selected) < needed {
		assignment.Status = StatusPartial
		assignment.Reason = ReasonInvigilatorShort
	}
	r.auto = append(r.auto, assignment)
}

// unplaced builds an unassigned row. Rows that never got a slot leave the
// slot fields empty; rows that failed at the room stage keep the slot they
// were tried in for reporting.
func unplaced(s Session, at slotKey, reason string) Assignment {
	return Assignment{
		Class:    s.Class,
		Subject:  s.Subject,
		ExamType: s.ExamType,
		Date:     at.Date,
		Period:   at.Period,
		Status:   StatusUnassigned,
		Reason:   reason,
	}
}

// finish assembles the ordered result and the aggregate warning list.
func (r *run) finish() *Result {
	result := &Result{
		Assignments: make([]Assignment, 0, len(r.fixed)+len(r.auto)),
	}
	result.Assignments = append(result.Assignments, r.fixed...)
	result.Assignments = append(result.Assignments, r.auto...)

	for _, a := range result.Assignments {
		switch a.Status {
		case StatusOK:
			result.OKCount++
		case StatusPartial:
			result.PartialCount++
			result.Warnings = append(result.Warnings, warningFor(a))
		case StatusUnassigned:
			result.UnassignedCount++
			result.Warnings = append(result.Warnings, warningFor(a))
		}
	}
	return result
}

func warningFor(a Assignment) string {
	return fmt.Sprintf("%s %s (%s): %s", a.Class, a.Subject, a.ExamType, a.Reason)
}
