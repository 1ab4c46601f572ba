package appointment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func newPending(t *testing.T, id, property, at string) Appointment {
	t.Helper()
	a, err := New(Intake{
		ID:          id,
		Number:      "VA-" + id,
		Requester:   Requester{Name: "Li Wei", Phone: "13800000001", UserRef: "u-1"},
		Property:    Property{ID: "p-" + id, Name: property, Layout: "2 bed", Address: "18 Harbour Rd", ListedRent: decimal.RequireFromString("3200.00")},
		ScheduledAt: ts(at),
	}, ts("2025-03-01T08:00"))
	require.NoError(t, err)
	return a
}

func mustApply(t *testing.T, a Appointment, req TransitionRequest, now time.Time) Appointment {
	t.Helper()
	out, err := ApplyTransition(a, req, now)
	require.NoError(t, err)
	return out
}

func ids(list []Appointment) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}
