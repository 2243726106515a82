// Package party identifies the participants in a MuSig2 signing session.
package party

import "sort"

// ID is a human-readable label for a participant, distinct from its public
// key. The CLI assigns labels like "party-1"; the protocol itself only
// cares about the order of public keys, not about ID strings.
type ID string

// IDSlice is an ordered list of participant IDs.
//
// Order matters: the aggregated public key's identity depends on the order
// in which participant public keys were supplied to Aggregate, so IDSlice
// never sorts itself implicitly. Sorted returns a sorted copy when a
// caller explicitly wants canonical ordering (e.g. for display).
type IDSlice []ID

// Contains reports whether id appears anywhere in the slice.
func (ids IDSlice) Contains(id ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// IndexOf returns the position of id in the slice, or -1 if absent.
func (ids IDSlice) IndexOf(id ID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

// Sorted returns a lexicographically sorted copy, leaving the receiver
// untouched.
func (ids IDSlice) Sorted() IDSlice {
	out := make(IDSlice, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
