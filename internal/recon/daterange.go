package recon

import "time"

// Range is an inclusive [From, To] reporting window. A nil bound is
// open on that side. To is extended to end-of-day so a user-selected
// "to" date includes the whole day.
type Range struct {
	From *time.Time
	To   *time.Time
}

// EndOfDay pins t to the last instant of its calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Contains reports whether t falls inside the window.
func (r Range) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(EndOfDay(*r.To)) {
		return false
	}
	return true
}

// IsOpen reports whether neither bound is set.
func (r Range) IsOpen() bool {
	return r.From == nil && r.To == nil
}

// ParseRange builds a Range from raw from/to values; an unparseable
// bound is treated as absent.
func ParseRange(from, to interface{}) Range {
	var r Range
	if t, ok := DateOf(from); ok {
		r.From = &t
	}
	if t, ok := DateOf(to); ok {
		r.To = &t
	}
	return r
}
