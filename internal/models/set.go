package models

import "github.com/samber/lo"

// StringSet is an insertion-ordered set of user ids. It is stored as a plain
// array by every backend.
type StringSet []string

// NewStringSet builds a set from ids, dropping duplicates.
func NewStringSet(ids ...string) StringSet {
	return StringSet(lo.Uniq(ids))
}

// Contains reports whether id is a member of the set.
func (s StringSet) Contains(id string) bool {
	return lo.Contains(s, id)
}

// Add returns a copy of the set with id appended. Adding an existing member
// returns the set unchanged.
func (s StringSet) Add(id string) StringSet {
	if s.Contains(id) {
		return s
	}
	out := make(StringSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, id)
}

// Remove returns a copy of the set without id.
func (s StringSet) Remove(id string) StringSet {
	return StringSet(lo.Without([]string(s), id))
}

// Toggle flips the membership of id and reports whether id is a member afterwards.
func (s StringSet) Toggle(id string) (StringSet, bool) {
	if s.Contains(id) {
		return s.Remove(id), false
	}
	return s.Add(id), true
}

// Len returns the number of members.
func (s StringSet) Len() int {
	return len(s)
}

// Normalize returns an empty, non-nil set when s is nil so it encodes as [].
func (s StringSet) Normalize() StringSet {
	if s == nil {
		return StringSet{}
	}
	return s
}
