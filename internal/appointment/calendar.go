package appointment

import (
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

// GroupByDate buckets confirmed appointments by the calendar date of
// ScheduledAt in its own location. Dates without confirmed appointments are
// absent from the result.
func GroupByDate(list []Appointment) map[string][]Appointment {
	return groupByDate(list, nil)
}

// GroupByDateIn is GroupByDate with dates computed in loc.
func GroupByDateIn(list []Appointment, loc *time.Location) map[string][]Appointment {
	return groupByDate(list, loc)
}

// ForDate returns the confirmed appointments on date, never nil.
func ForDate(list []Appointment, date string) []Appointment {
	return forDate(list, date, nil)
}

func ForDateIn(list []Appointment, date string, loc *time.Location) []Appointment {
	return forDate(list, date, loc)
}

func forDate(list []Appointment, date string, loc *time.Location) []Appointment {
	if day, ok := groupByDate(list, loc)[date]; ok {
		return day
	}
	return []Appointment{}
}

func groupByDate(list []Appointment, loc *time.Location) map[string][]Appointment {
	out := make(map[string][]Appointment)
	for _, a := range list {
		if a.Status != StatusConfirmed {
			continue
		}
		t := a.ScheduledAt
		if loc != nil {
			t = t.In(loc)
		}
		key := t.Format(DateLayout)
		out[key] = append(out[key], a)
	}
	for _, day := range out {
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].ScheduledAt.Before(day[j].ScheduledAt)
		})
	}
	return out
}

// ParseDate validates a YYYY-MM-DD calendar key.
func ParseDate(s string) (string, error) {
	if s == "" {
		return "", &ArgumentError{Arg: "date"}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", &ValidationError{Field: "date", Message: "expected YYYY-MM-DD"}
	}
	return t.Format(DateLayout), nil
}
