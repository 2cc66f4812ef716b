package models

import (
	"encoding/json"
	"slices"

	"eventgate/pkg/domain"
)

// AttendeeSet is an order-independent set of user IDs. The zero value is an
// empty set ready for reads; use NewAttendeeSet before Add.
type AttendeeSet map[domain.UserID]struct{}

func NewAttendeeSet(ids ...domain.UserID) AttendeeSet {
	s := make(AttendeeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s AttendeeSet) Has(id domain.UserID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id and reports whether it was newly added.
func (s AttendeeSet) Add(id domain.UserID) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s AttendeeSet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s AttendeeSet) Sorted() []domain.UserID {
	out := make([]domain.UserID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s AttendeeSet) Clone() AttendeeSet {
	c := make(AttendeeSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// MarshalJSON encodes the set as a sorted array so output is stable.
func (s AttendeeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON accepts an array; duplicates collapse.
func (s *AttendeeSet) UnmarshalJSON(data []byte) error {
	var ids []domain.UserID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewAttendeeSet(ids...)
	return nil
}
