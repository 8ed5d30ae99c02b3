// Package engagement holds the membership set shared by likes, saves and shares.
package engagement

// Set is a deduplicated collection of user IDs. Order carries no meaning.
type Set []uint

// Contains reports whether userID is a member of the set.
func (s Set) Contains(userID uint) bool {
	for _, id := range s {
		if id == userID {
			return true
		}
	}
	return false
}

// Count returns the number of members.
func (s Set) Count() int {
	return len(s)
}

// Toggle flips the membership of userID and reports whether it is present afterwards.
// The receiver is left untouched; a new set is returned.
func Toggle(s Set, userID uint) (Set, bool) {
	out := make(Set, 0, len(s)+1)
	removed := false
	for _, id := range s {
		if id == userID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	if removed {
		return out, false
	}
	return append(out, userID), true
}

// Of builds a set from ids, dropping duplicates and keeping first-seen order.
func Of(ids ...uint) Set {
	out := make(Set, 0, len(ids))
	for _, id := range ids {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
