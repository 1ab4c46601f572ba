// Package audit persists the append-only appointment history trail.
package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Entry struct {
	AppointmentID string
	Seq           int
	OccurredAt    time.Time
	Action        string
	Operator      string
	Remark        string
}

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func Insert(ctx context.Context, tx pgx.Tx, e Entry) error {
	var remark *string
	if e.Remark != "" {
		remark = &e.Remark
	}
	const q = `
INSERT INTO appointment_history (appointment_id, seq, occurred_at, action, operator, remark)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := tx.Exec(ctx, q, e.AppointmentID, e.Seq, e.OccurredAt, e.Action, e.Operator, remark)
	return err
}

func ListByAppointment(ctx context.Context, db Querier, appointmentID string) ([]Entry, error) {
	const q = `
SELECT appointment_id, seq, occurred_at, action, operator, COALESCE(remark, '')
FROM appointment_history
WHERE appointment_id = $1
ORDER BY seq ASC
`
	rows, err := db.Query(ctx, q, appointmentID)
	if err != nil {
		return nil, err
	}
	return scan(rows)
}

// ListAll returns every entry grouped by appointment id, each group in append order.
func ListAll(ctx context.Context, db Querier) (map[string][]Entry, error) {
	const q = `
SELECT appointment_id, seq, occurred_at, action, operator, COALESCE(remark, '')
FROM appointment_history
ORDER BY appointment_id, seq ASC
`
	rows, err := db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	entries, err := scan(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Entry)
	for _, e := range entries {
		out[e.AppointmentID] = append(out[e.AppointmentID], e)
	}
	return out, nil
}

func scan(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.AppointmentID, &e.Seq, &e.OccurredAt, &e.Action, &e.Operator, &e.Remark); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
