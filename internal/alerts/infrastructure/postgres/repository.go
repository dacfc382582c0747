package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
)

// schemaStatements holds the alert log DDL. The id is an identity
// column so assignment stays atomic with the insert under concurrent
// appends; deriving it from MAX(id) would let two uncommitted appends
// read the same value.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS alerts (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	time TIMESTAMPTZ NOT NULL,
	type TEXT NOT NULL,
	room_id TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	probable_wastage TEXT NOT NULL DEFAULT '',
	estimated_savings DOUBLE PRECISION NOT NULL DEFAULT 0,
	probability_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	action TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS alerts_time_idx ON alerts (time DESC, id DESC)`,
}

// EnsureSchema creates the alerts table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("alert repo: nil db")
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// AlertLog is a Postgres-backed append-only alert log.
type AlertLog struct {
	db *sql.DB
}

// NewAlertLog constructs a log over an existing database handle.
func NewAlertLog(db *sql.DB) *AlertLog {
	return &AlertLog{db: db}
}

// Append inserts the alert. The database assigns the id from the
// table's identity sequence.
func (l *AlertLog) Append(ctx context.Context, alert *alerts.Alert) (*alerts.Alert, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("alert repo: nil db")
	}
	if alert == nil {
		return nil, alerts.ErrNilAlert
	}
	stored := *alert
	if stored.Time.IsZero() {
		stored.Time = time.Now().UTC()
	}

	row := l.db.QueryRowContext(ctx, `
INSERT INTO alerts (
	time, type, room_id, message, probable_wastage,
	estimated_savings, probability_score, action, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`,
		stored.Time,
		stored.Type,
		stored.RoomID,
		stored.Message,
		stored.ProbableWastage,
		stored.EstimatedSavings,
		stored.ProbabilityScore,
		stored.Action,
		stored.Status,
	)
	if err := row.Scan(&stored.ID); err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListDesc returns alerts sorted by time descending.
func (l *AlertLog) ListDesc(ctx context.Context, limit int) ([]alerts.Alert, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("alert repo: nil db")
	}
	query := `
SELECT id, time, type, room_id, message, probable_wastage,
	estimated_savings, probability_score, action, status
FROM alerts
ORDER BY time DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += `
LIMIT $1`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []alerts.Alert
	for rows.Next() {
		var alert alerts.Alert
		if err := rows.Scan(
			&alert.ID,
			&alert.Time,
			&alert.Type,
			&alert.RoomID,
			&alert.Message,
			&alert.ProbableWastage,
			&alert.EstimatedSavings,
			&alert.ProbabilityScore,
			&alert.Action,
			&alert.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, alert)
	}
	return out, rows.Err()
}
