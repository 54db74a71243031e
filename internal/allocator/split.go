package allocator

// Half-class suffixes appended when a split session runs in two rooms.
const (
	oddHalfSuffix  = " (odd)"
	evenHalfSuffix = " (even)"
)

// trySplit places the two halves of a split-eligible session in two distinct
// small rooms at the same slot, one invigilator each. The split is
// all-or-nothing: unless two rooms and two staff are available nothing is
// committed, and the caller falls through to the unassigned path.
func (r *run) trySplit(s Session, at slotKey) ([]Assignment, bool) {
	rooms := r.roomCandidates(at, s.RequiresLab, smallOnly)
	if len(rooms) < 2 {
		return nil, false
	}
	staff := r.selectInvigilators(at, 2)
	if len(staff) < 2 {
		return nil, false
	}

	halves := []struct {
		suffix string
		room   Room
		staff  string
	}{
		{suffix: oddHalfSuffix, room: rooms[0], staff: staff[0]},
		{suffix: evenHalfSuffix, room: rooms[1], staff: staff[1]},
	}

	assignments := make([]Assignment, 0, 2)
	for _, half := range halves {
		class := s.Class + half.suffix
		r.ledger.commit(at, class, half.room.Name, []string{half.staff})
		assignments = append(assignments, Assignment{
			Class:        class,
			Subject:      s.Subject,
			ExamType:     s.ExamType,
			Date:         at.Date,
			Period:       at.Period,
			Room:         half.room.Name,
			Invigilators: []string{half.staff},
			Status:       StatusOK,
		})
	}
	return assignments, true
}
