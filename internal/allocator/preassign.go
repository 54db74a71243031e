package allocator

// preassign commits every fixed session before the automatic pass so that
// automatic placement inherits their room, class and staff bookings. Fixed
// rows are processed in table order and keep their mandated room and slot
// even when invigilators run short.
func (r *run) preassign() {
	for _, fixed := range r.in.Fixed {
		at := slotKey{Date: fixed.Date, Period: fixed.Period}
		selected := r.selectInvigilators(at, fixed.Invigilators)
		r.ledger.commit(at, fixed.Class, fixed.Room, selected)

		assignment := Assignment{
			Class:        fixed.Class,
			Subject:      fixed.Subject,
			ExamType:     fixed.ExamType,
			Date:         fixed.Date,
			Period:       fixed.Period,
			Room:         fixed.Room,
			Invigilators: selected,
			Status:       StatusOK,
			Reason:       fixed.Note,
			Fixed:        true,
		}
		if len(selected) < fixed.Invigilators {
			assignment.Status = StatusPartial
			assignment.Reason = appendReason(fixed.Note, ReasonFixedShortfall)
		}
		r.fixed = append(r.fixed, assignment)
	}
}

// appendReason joins an existing annotation with a new reason.
func appendReason(existing, reason string) string {
	if existing == "" {
		return reason
	}
	return existing + "; " + reason
}
