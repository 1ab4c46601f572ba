package appointment

import (
	"context"
	"sync"
)

// Store is the authoritative collection of appointments. Update runs fn
// against the current record and persists its result only when fn succeeds,
// so a failed mutation leaves the store unchanged.
type Store interface {
	Insert(ctx context.Context, a Appointment) error
	Get(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	Update(ctx context.Context, id string, fn func(Appointment) (Appointment, error)) (Appointment, error)
}

// MemoryStore keeps appointments for the lifetime of the process in insertion
// order. Every call holds the store lock, so operations never interleave.
type MemoryStore struct {
	mu    sync.Mutex
	order []string
	byID  map[string]Appointment
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore preloads seed in order. A repeated id fails the whole seed
// with a DuplicateError.
func NewMemoryStore(seed ...Appointment) (*MemoryStore, error) {
	s := &MemoryStore{byID: make(map[string]Appointment)}
	for _, a := range seed {
		if err := s.insert(a); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryStore) Insert(_ context.Context, a Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(a)
}

func (s *MemoryStore) insert(a Appointment) error {
	if _, ok := s.byID[a.ID]; ok {
		return &DuplicateError{ID: a.ID}
	}
	s.byID[a.ID] = a.Clone()
	s.order = append(s.order, a.ID)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Appointment{}, &NotFoundError{ID: id}
	}
	return a.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Appointment, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(Appointment) (Appointment, error)) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return Appointment{}, &NotFoundError{ID: id}
	}
	next, err := fn(cur.Clone())
	if err != nil {
		return Appointment{}, err
	}
	next.ID = cur.ID
	s.byID[id] = next.Clone()
	return next, nil
}
