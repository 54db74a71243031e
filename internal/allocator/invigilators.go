package allocator

import "sort"

// selectInvigilators picks up to count staff members for a slot. Candidates
// must be free at the slot and under their daily quota; among those, the
// least-loaded win, comparing duties on the slot's date first and career
// total second. Roster order breaks remaining ties.
//
// The returned slice may be shorter than count when eligible staff run out;
// the caller decides whether that is a partial assignment or a hard stop.
func (r *run) selectInvigilators(at slotKey, count int) []string {
	var candidates []string
	for _, member := range r.in.Staff {
		if r.ledger.staffEligible(at, member.Name) {
			candidates = append(candidates, member.Name)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := r.ledger.loads[candidates[i]], r.ledger.loads[candidates[j]]
		if a.daily[at.Date] != b.daily[at.Date] {
			return a.daily[at.Date] < b.daily[at.Date]
		}
		return a.total < b.total
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}
