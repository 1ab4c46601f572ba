package appointment

import (
	"strings"
	"time"
)

// DateRange is inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Filter predicates are ANDed; zero-valued fields match everything.
type Filter struct {
	PropertyNameContains string
	RequesterContains    string
	Status               Status
	DateRange            *DateRange
}

func (f Filter) Match(a Appointment) bool {
	if f.PropertyNameContains != "" && !strings.Contains(a.Property.Name, f.PropertyNameContains) {
		return false
	}
	if f.RequesterContains != "" && !strings.Contains(a.Requester.Name, f.RequesterContains) {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.DateRange != nil && !f.DateRange.Contains(a.ScheduledAt) {
		return false
	}
	return true
}

// Query returns the appointments matching f in their original order.
func Query(list []Appointment, f Filter) []Appointment {
	out := make([]Appointment, 0, len(list))
	for _, a := range list {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
