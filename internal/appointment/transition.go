package appointment

import "time"

type TransitionRequest struct {
	Op       Operation
	Operator string
	Remark   string
	// NewTime is required by reschedule and ignored by every other operation.
	NewTime *time.Time
}

// ApplyTransition validates req against a's status and returns an updated copy
// with exactly one history entry appended. a itself is never modified, so a
// failed call leaves the caller's value untouched.
func ApplyTransition(a Appointment, req TransitionRequest, now time.Time) (Appointment, error) {
	if _, err := ParseOperation(string(req.Op)); err != nil {
		return Appointment{}, &TransitionError{Op: req.Op, Status: a.Status}
	}
	if req.Op == OpReschedule && (req.NewTime == nil || req.NewTime.IsZero()) {
		return Appointment{}, &ArgumentError{Op: req.Op, Arg: "newTime"}
	}

	e, ok := allowedTransitions[a.Status][req.Op]
	if !ok {
		return Appointment{}, &TransitionError{Op: req.Op, Status: a.Status}
	}

	at := now
	if last := a.lastEntryAt(); at.Before(last) {
		at = last
	}

	out := a.Clone()
	out.Status = e.to
	if req.Op == OpReschedule {
		out.ScheduledAt = *req.NewTime
	}
	out.History = append(out.History, HistoryEntry{
		At:       at,
		Action:   e.action,
		Operator: req.Operator,
		Remark:   req.Remark,
	})
	return out, nil
}
