package listing

import (
	"sort"
	"strconv"
)

// IDSet is a set of listing ids. The zero value is not usable; use NewIDSet.
// IDSet is not safe for concurrent use.
type IDSet struct {
	m map[ID]struct{}
}

// NewIDSet builds a set from ids, ignoring blanks and duplicates.
func NewIDSet(ids ...ID) IDSet {
	s := IDSet{m: make(map[ID]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. Adding a present id is a no-op. It reports whether the set changed.
func (s IDSet) Add(id ID) bool {
	if id.Empty() {
		return false
	}
	if _, ok := s.m[id]; ok {
		return false
	}
	s.m[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether it was present.
func (s IDSet) Remove(id ID) bool {
	if _, ok := s.m[id]; !ok {
		return false
	}
	delete(s.m, id)
	return true
}

// Has reports membership.
func (s IDSet) Has(id ID) bool {
	_, ok := s.m[id]
	return ok
}

// Len returns the set size.
func (s IDSet) Len() int { return len(s.m) }

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	out := IDSet{m: make(map[ID]struct{}, len(s.m))}
	for id := range s.m {
		out.m[id] = struct{}{}
	}
	return out
}

// Slice returns the ids in sorted order. Numeric ids sort by value and come before
// any non-numeric ids, which sort lexically.
func (s IDSet) Slice() []ID {
	out := make([]ID, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i], out[j]) })
	return out
}

func lessID(a, b ID) bool {
	na, errA := strconv.ParseUint(string(a), 10, 64)
	nb, errB := strconv.ParseUint(string(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		// "007" and "7" share a value; keep the order total.
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// IDsOf extracts the ids of listings, skipping those without one.
func IDsOf(listings []Listing) []ID {
	out := make([]ID, 0, len(listings))
	for _, l := range listings {
		if !l.ID.Empty() {
			out = append(out, l.ID)
		}
	}
	return out
}
