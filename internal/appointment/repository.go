package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"viewingdesk/internal/audit"
	"viewingdesk/pkg/db"
)

// Repository is the Postgres-backed Store. History rows live in
// appointment_history and are only ever inserted. Every call runs in one
// transaction, so an appointment and its history are always read together.
type Repository struct {
	db db.TxStarter
}

var _ Store = (*Repository)(nil)

func NewRepository(pool db.TxStarter) *Repository {
	return &Repository{db: pool}
}

const uniqueViolation = "23505"

const selectColumns = `
SELECT id, appointment_number, requester_name, requester_phone, requester_user_ref,
       property_id, property_name, property_layout, property_address, property_listed_rent::text,
       scheduled_at, status, created_at
FROM appointments
`

func (r *Repository) Insert(ctx context.Context, a Appointment) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
INSERT INTO appointments (
    id, appointment_number, requester_name, requester_phone, requester_user_ref,
    property_id, property_name, property_layout, property_address, property_listed_rent,
    scheduled_at, status, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::text::numeric, $11, $12, $13)
ON CONFLICT (id) DO NOTHING
`
		tag, err := tx.Exec(ctx, q,
			a.ID, a.Number, a.Requester.Name, a.Requester.Phone, a.Requester.UserRef,
			a.Property.ID, a.Property.Name, a.Property.Layout, a.Property.Address, a.Property.ListedRent.String(),
			a.ScheduledAt, string(a.Status), a.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return &DuplicateError{ID: a.ID, Number: a.Number}
			}
			return fmt.Errorf("insert appointment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return &DuplicateError{ID: a.ID}
		}
		return appendHistory(ctx, tx, a.ID, a.History, 0)
	})
}

func (r *Repository) Get(ctx context.Context, id string) (Appointment, error) {
	var a Appointment
	err := db.WithReadTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		a, err = scanAppointment(tx.QueryRow(ctx, selectColumns+`WHERE id = $1`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &NotFoundError{ID: id}
			}
			return fmt.Errorf("get appointment: %w", err)
		}
		entries, err := audit.ListByAppointment(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		a.History = toHistory(entries)
		return nil
	})
	if err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context) ([]Appointment, error) {
	out := []Appointment{}
	err := db.WithReadTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectColumns+`ORDER BY seq ASC`)
		if err != nil {
			return fmt.Errorf("list appointments: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAppointment(rows)
			if err != nil {
				return fmt.Errorf("scan appointment: %w", err)
			}
			out = append(out, a)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		byID, err := audit.ListAll(ctx, tx)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		for i := range out {
			out[i].History = toHistory(byID[out[i].ID])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, id string, fn func(Appointment) (Appointment, error)) (Appointment, error) {
	var next Appointment
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		cur, err := scanAppointment(tx.QueryRow(ctx, selectColumns+`WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &NotFoundError{ID: id}
			}
			return fmt.Errorf("lock appointment: %w", err)
		}
		entries, err := audit.ListByAppointment(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		cur.History = toHistory(entries)

		next, err = fn(cur.Clone())
		if err != nil {
			return err
		}
		if len(next.History) < len(cur.History) {
			return fmt.Errorf("update %s: history is append-only", id)
		}

		const q = `
UPDATE appointments
SET status = $2, scheduled_at = $3
WHERE id = $1
`
		if _, err := tx.Exec(ctx, q, id, string(next.Status), next.ScheduledAt); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		return appendHistory(ctx, tx, id, next.History[len(cur.History):], len(cur.History))
	})
	if err != nil {
		return Appointment{}, err
	}
	next.ID = id
	return next, nil
}

func appendHistory(ctx context.Context, tx pgx.Tx, id string, entries []HistoryEntry, offset int) error {
	for i, e := range entries {
		if err := audit.Insert(ctx, tx, audit.Entry{
			AppointmentID: id,
			Seq:           offset + i,
			OccurredAt:    e.At,
			Action:        e.Action,
			Operator:      e.Operator,
			Remark:        e.Remark,
		}); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}
	return nil
}

func scanAppointment(row pgx.Row) (Appointment, error) {
	var (
		a      Appointment
		rent   string
		status string
	)
	if err := row.Scan(
		&a.ID, &a.Number, &a.Requester.Name, &a.Requester.Phone, &a.Requester.UserRef,
		&a.Property.ID, &a.Property.Name, &a.Property.Layout, &a.Property.Address, &rent,
		&a.ScheduledAt, &status, &a.CreatedAt,
	); err != nil {
		return Appointment{}, err
	}
	st, err := ParseStatus(status)
	if err != nil {
		return Appointment{}, err
	}
	a.Status = st
	if a.Property.ListedRent, err = decimal.NewFromString(rent); err != nil {
		return Appointment{}, fmt.Errorf("listed rent: %w", err)
	}
	return a, nil
}

func toHistory(entries []audit.Entry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntry{
			At:       e.OccurredAt.In(time.UTC),
			Action:   e.Action,
			Operator: e.Operator,
			Remark:   e.Remark,
		})
	}
	return out
}
