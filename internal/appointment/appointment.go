package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Requester struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	UserRef string `json:"userRef,omitempty"`
}

// Property is a snapshot of the listing as the requester saw it at intake.
// It is never refreshed from the property record.
type Property struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	Layout     string          `json:"layout,omitempty"`
	Address    string          `json:"address,omitempty"`
	ListedRent decimal.Decimal `json:"listedRent"`
}

type HistoryEntry struct {
	At       time.Time `json:"at"`
	Action   string    `json:"action"`
	Operator string    `json:"operator"`
	Remark   string    `json:"remark,omitempty"`
}

type Appointment struct {
	ID          string         `json:"id"`
	Number      string         `json:"appointmentNumber"`
	Requester   Requester      `json:"requester"`
	Property    Property       `json:"property"`
	ScheduledAt time.Time      `json:"scheduledAt"`
	Status      Status         `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	History     []HistoryEntry `json:"history"`
}

// Intake is what an external booking action hands over to create an appointment.
type Intake struct {
	ID          string
	Number      string
	Requester   Requester
	Property    Property
	ScheduledAt time.Time
	Operator    string
	Remark      string
}

const intakeOperator = "intake"

// New builds a pending appointment with its creation history entry.
func New(in Intake, now time.Time) (Appointment, error) {
	if strings.TrimSpace(in.Requester.Name) == "" {
		return Appointment{}, &ArgumentError{Arg: "requester name"}
	}
	if strings.TrimSpace(in.Property.Name) == "" {
		return Appointment{}, &ArgumentError{Arg: "property name"}
	}
	if in.ScheduledAt.IsZero() {
		return Appointment{}, &ArgumentError{Arg: "scheduledAt"}
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		number = NewNumber(now)
	}
	operator := strings.TrimSpace(in.Operator)
	if operator == "" {
		operator = intakeOperator
	}

	return Appointment{
		ID:          id,
		Number:      number,
		Requester:   in.Requester,
		Property:    in.Property,
		ScheduledAt: in.ScheduledAt,
		Status:      StatusPending,
		CreatedAt:   now,
		History: []HistoryEntry{
			{At: now, Action: ActionCreated, Operator: operator, Remark: in.Remark},
		},
	}, nil
}

// NewNumber returns a reference code such as VA20250315-3F9A1C.
func NewNumber(now time.Time) string {
	u := uuid.New()
	suffix := strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[:6])
	return "VA" + now.Format("20060102") + "-" + suffix
}

// Clone returns a deep copy so callers cannot reach stored history.
func (a Appointment) Clone() Appointment {
	out := a
	if a.History != nil {
		out.History = make([]HistoryEntry, len(a.History))
		copy(out.History, a.History)
	}
	return out
}

func (a Appointment) lastEntryAt() time.Time {
	if len(a.History) == 0 {
		return time.Time{}
	}
	return a.History[len(a.History)-1].At
}
