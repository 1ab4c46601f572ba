package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"viewingdesk/internal/events"
	"viewingdesk/internal/metrics"
)

// Service is the entry point the HTTP layer and dev tools call. It applies
// the pure workflow functions against a Store and reports what happened.
type Service struct {
	store     Store
	now       func() time.Time
	log       *zap.Logger
	publisher events.Publisher
	metrics   *metrics.Metrics
	loc       *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCalendarLocation sets the zone calendar dates are computed in.
func WithCalendarLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		now:       time.Now,
		log:       zap.NewNop(),
		publisher: events.Nop{},
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location is the zone calendar dates are computed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Create(ctx context.Context, in Intake) (Appointment, error) {
	a, err := New(in, s.now())
	if err == nil {
		err = s.store.Insert(ctx, a)
	}
	if err != nil {
		s.metrics.Created(ErrorCode(err))
		s.log.Warn("appointment intake rejected", zap.String("code", ErrorCode(err)), zap.Error(err))
		return Appointment{}, err
	}

	s.metrics.Created(metrics.ResultOK)
	s.log.Info("appointment created",
		zap.String("appointment_id", a.ID),
		zap.String("number", a.Number),
		zap.Time("scheduled_at", a.ScheduledAt),
	)
	s.publish(ctx, a, ActionCreated, a.History[0].Operator, nil)
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Appointment, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) History(ctx context.Context, id string) ([]HistoryEntry, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.History, nil
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	return s.store.List(ctx)
}

// Transition applies req to appointment id. Nothing is written when it fails.
func (s *Service) Transition(ctx context.Context, id string, req TransitionRequest) (Appointment, error) {
	var prev Appointment
	a, err := s.store.Update(ctx, id, func(cur Appointment) (Appointment, error) {
		prev = cur
		return ApplyTransition(cur, req, s.now())
	})
	if err != nil {
		code := ErrorCode(err)
		s.metrics.Transition(string(req.Op), code)
		s.log.Warn("appointment transition rejected",
			zap.String("appointment_id", id),
			zap.String("operation", string(req.Op)),
			zap.String("operator", req.Operator),
			zap.String("code", code),
			zap.Error(err),
		)
		return Appointment{}, err
	}

	s.metrics.Transition(string(req.Op), metrics.ResultOK)
	s.log.Info("appointment transitioned",
		zap.String("appointment_id", id),
		zap.String("operation", string(req.Op)),
		zap.String("from", string(prev.Status)),
		zap.String("to", string(a.Status)),
		zap.String("operator", req.Operator),
	)

	data := map[string]any{"from": prev.Status, "to": a.Status, "terminal": a.Status.Terminal()}
	if req.Remark != "" {
		data["remark"] = req.Remark
	}
	if req.Op == OpReschedule {
		data["previousScheduledAt"] = prev.ScheduledAt
		data["scheduledAt"] = a.ScheduledAt
	}
	s.publish(ctx, a, req.Op.Label(), req.Operator, data)
	return a, nil
}

func (s *Service) Confirm(ctx context.Context, id, operator, remark string) (Appointment, error) {
	return s.Transition(ctx, id, TransitionRequest{Op: OpConfirm, Operator: operator, Remark: remark})
}

func (s *Service) Reject(ctx context.Context, id, operator, remark string) (Appointment, error) {
	return s.Transition(ctx, id, TransitionRequest{Op: OpReject, Operator: operator, Remark: remark})
}

func (s *Service) Complete(ctx context.Context, id, operator, remark string) (Appointment, error) {
	return s.Transition(ctx, id, TransitionRequest{Op: OpComplete, Operator: operator, Remark: remark})
}

func (s *Service) Reschedule(ctx context.Context, id string, newTime *time.Time, operator, remark string) (Appointment, error) {
	return s.Transition(ctx, id, TransitionRequest{Op: OpReschedule, Operator: operator, Remark: remark, NewTime: newTime})
}

func (s *Service) Query(ctx context.Context, f Filter) ([]Appointment, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return Query(list, f), nil
}

// Calendar groups the confirmed appointments matching f by date.
func (s *Service) Calendar(ctx context.Context, f Filter) (map[string][]Appointment, error) {
	list, err := s.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	return GroupByDateIn(list, s.loc), nil
}

// Day returns the confirmed appointments on date (YYYY-MM-DD).
func (s *Service) Day(ctx context.Context, date string) ([]Appointment, error) {
	key, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return ForDateIn(list, key, s.loc), nil
}

func (s *Service) publish(ctx context.Context, a Appointment, action, operator string, data map[string]any) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:          "appointment." + action,
		AppointmentID: a.ID,
		Number:        a.Number,
		Status:        string(a.Status),
		Operator:      operator,
		OccurredAt:    a.History[len(a.History)-1].At,
		Data:          data,
	})
	if err != nil {
		// The mutation is already committed; consumers can rebuild from history.
		s.log.Error("publish appointment event", zap.String("appointment_id", a.ID), zap.String("action", action), zap.Error(err))
	}
}
