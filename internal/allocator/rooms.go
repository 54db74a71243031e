package allocator

import "sort"

// sizeFilter narrows room selection by capacity class.
type sizeFilter int

const (
	anySize sizeFilter = iota
	largeOnly
	smallOnly
)

// roomCandidates returns the rooms compatible with the session that are still
// free at the slot, ordered by ascending usage count and then catalog order.
// Least-used-first spreads wear evenly across rooms; the catalog-order
// tie-break keeps the result deterministic.
func (r *run) roomCandidates(at slotKey, requiresLab bool, size sizeFilter) []Room {
	var candidates []Room
	for _, room := range r.in.Rooms {
		if room.IsLab != requiresLab {
			continue
		}
		switch size {
		case largeOnly:
			if !room.IsLarge {
				continue
			}
		case smallOnly:
			if room.IsLarge {
				continue
			}
		}
		if !r.ledger.roomFree(at, room.Name) {
			continue
		}
		candidates = append(candidates, room)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return r.ledger.usage(candidates[i].Name) < r.ledger.usage(candidates[j].Name)
	})
	return candidates
}

// selectRoom picks the best available room, or reports that none fits.
func (r *run) selectRoom(at slotKey, requiresLab bool, size sizeFilter) (Room, bool) {
	candidates := r.roomCandidates(at, requiresLab, size)
	if len(candidates) == 0 {
		return Room{}, false
	}
	return candidates[0], true
}
