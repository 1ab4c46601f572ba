package appointment

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// Terminal reports whether no operation is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Operation string

const (
	OpConfirm    Operation = "confirm"
	OpReject     Operation = "reject"
	OpReschedule Operation = "reschedule"
	OpComplete   Operation = "complete"
)

func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpConfirm, OpReject, OpReschedule, OpComplete:
		return Operation(s), nil
	default:
		return "", fmt.Errorf("unknown operation: %s", s)
	}
}

// History action labels.
const (
	ActionCreated     = "created"
	ActionConfirmed   = "confirmed"
	ActionRejected    = "rejected"
	ActionRescheduled = "rescheduled"
	ActionCompleted   = "completed"
)

type edge struct {
	to     Status
	action string
}

var allowedTransitions = map[Status]map[Operation]edge{
	StatusPending: {
		OpConfirm: {to: StatusConfirmed, action: ActionConfirmed},
		OpReject:  {to: StatusCancelled, action: ActionRejected},
	},
	StatusConfirmed: {
		OpReschedule: {to: StatusConfirmed, action: ActionRescheduled},
		OpComplete:   {to: StatusCompleted, action: ActionCompleted},
	},
	StatusCancelled: {},
	StatusCompleted: {},
}

// Label returns the history action recorded for op.
func (op Operation) Label() string {
	for _, edges := range allowedTransitions {
		if e, ok := edges[op]; ok {
			return e.action
		}
	}
	return string(op)
}
