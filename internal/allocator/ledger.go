package allocator

import "fmt"

// slotKey identifies one (date, period) examination window.
type slotKey struct {
	Date   string
	Period string
}

func (k slotKey) String() string {
	return k.Date + " " + k.Period
}

// staffLoad tracks how much duty a staff member has accumulated so far.
type staffLoad struct {
	daily map[string]int
	total int
}

// invariantViolation is thrown by the ledger when a commit would double-book
// a resource. Selection is supposed to make that impossible, so hitting one
// means the allocator itself is broken, not the input.
type invariantViolation struct {
	msg string
}

// ledger is the single source of truth for resource occupancy during a run.
// Every commit books a room, a class and zero or more invigilators for one
// timeslot atomically.
type ledger struct {
	roomBusy  map[slotKey]map[string]bool
	staffBusy map[slotKey]map[string]bool
	classBusy map[slotKey]map[string]bool
	roomUsage map[string]int
	loads     map[string]*staffLoad
	quota     int
}

func newLedger(staff []Staff, quota int) *ledger {
	loads := make(map[string]*staffLoad, len(staff))
	for _, member := range staff {
		loads[member.Name] = &staffLoad{daily: make(map[string]int)}
	}
	return &ledger{
		roomBusy:  make(map[slotKey]map[string]bool),
		staffBusy: make(map[slotKey]map[string]bool),
		classBusy: make(map[slotKey]map[string]bool),
		roomUsage: make(map[string]int),
		loads:     loads,
		quota:     quota,
	}
}

func (l *ledger) roomFree(at slotKey, room string) bool {
	return !l.roomBusy[at][room]
}

func (l *ledger) classFree(at slotKey, class string) bool {
	return !l.classBusy[at][class]
}

// staffEligible reports whether a staff member can take a duty at the given
// slot: not already booked there and still under the daily quota.
func (l *ledger) staffEligible(at slotKey, name string) bool {
	if l.staffBusy[at][name] {
		return false
	}
	return l.loads[name].daily[at.Date] < l.quota
}

func (l *ledger) usage(room string) int {
	return l.roomUsage[room]
}

// commit books the room, class and invigilators for one slot. All keys must
// be free; a collision panics because it can only come from a selection bug.
func (l *ledger) commit(at slotKey, class, room string, invigilators []string) {
	if l.roomBusy[at][room] {
		panic(invariantViolation{msg: fmt.Sprintf("room %q double-booked at %s", room, at)})
	}
	if l.classBusy[at][class] {
		panic(invariantViolation{msg: fmt.Sprintf("class %q double-booked at %s", class, at)})
	}
	for _, name := range invigilators {
		if l.staffBusy[at][name] {
			panic(invariantViolation{msg: fmt.Sprintf("staff %q double-booked at %s", name, at)})
		}
	}

	if l.roomBusy[at] == nil {
		l.roomBusy[at] = make(map[string]bool)
	}
	l.roomBusy[at][room] = true
	if l.classBusy[at] == nil {
		l.classBusy[at] = make(map[string]bool)
	}
	l.classBusy[at][class] = true
	if l.staffBusy[at] == nil {
		l.staffBusy[at] = make(map[string]bool)
	}
	for _, name := range invigilators {
		l.staffBusy[at][name] = true
		load := l.loads[name]
		load.daily[at.Date]++
		load.total++
	}
	l.roomUsage[room]++
}
