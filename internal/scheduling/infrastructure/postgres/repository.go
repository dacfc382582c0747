package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	scheduling "ecocore-cloud/internal/scheduling/domain"
)

// schemaStatements holds the decision log DDL. Pump and battery
// decisions share one table keyed by (kind, id); each kind draws ids
// from its own sequence so assignment stays atomic with the insert
// under concurrent appends.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schedule_decisions (
	id BIGINT NOT NULL,
	kind TEXT NOT NULL,
	date TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL,
	quantity DOUBLE PRECISION NOT NULL,
	quantity_unit TEXT NOT NULL,
	scheduled_time TEXT NOT NULL,
	duration_hours DOUBLE PRECISION NOT NULL,
	total_cost DOUBLE PRECISION NOT NULL,
	money_saved DOUBLE PRECISION NOT NULL,
	grid_status TEXT NOT NULL,
	PRIMARY KEY (kind, id)
)`,
	`CREATE SEQUENCE IF NOT EXISTS schedule_decisions_pump_id_seq`,
	`CREATE SEQUENCE IF NOT EXISTS schedule_decisions_battery_id_seq`,
	`CREATE INDEX IF NOT EXISTS schedule_decisions_kind_ts_idx
	ON schedule_decisions (kind, timestamp DESC, id DESC)`,
}

// EnsureSchema creates the schedule_decisions table and its per-kind
// id sequences when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("decision repo: nil db")
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// DecisionLog is a Postgres-backed schedule decision log scoped to one
// decision kind.
type DecisionLog struct {
	db       *sql.DB
	kind     string
	sequence string
}

// NewDecisionLog constructs a log scoped to one decision kind.
func NewDecisionLog(db *sql.DB, kind string) (*DecisionLog, error) {
	if kind != scheduling.KindPump && kind != scheduling.KindBattery {
		return nil, errors.New("decision repo: unknown kind")
	}
	return &DecisionLog{
		db:       db,
		kind:     kind,
		sequence: fmt.Sprintf("schedule_decisions_%s_id_seq", kind),
	}, nil
}

// Append inserts the decision. The kind's sequence assigns the id.
func (l *DecisionLog) Append(ctx context.Context, decision *scheduling.Decision) (*scheduling.Decision, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("decision repo: nil db")
	}
	if decision == nil {
		return nil, errors.New("decision repo: nil decision")
	}
	stored := *decision
	stored.Kind = l.kind
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	// The sequence name comes from the kind enum checked in the
	// constructor, never from input.
	query := fmt.Sprintf(`
INSERT INTO schedule_decisions (
	id, kind, date, timestamp, quantity, quantity_unit,
	scheduled_time, duration_hours, total_cost, money_saved, grid_status
) VALUES (nextval('%s'), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`, l.sequence)
	row := l.db.QueryRowContext(ctx, query,
		stored.Kind,
		stored.Date,
		stored.Timestamp,
		stored.Quantity,
		stored.QuantityUnit,
		stored.ScheduledTime,
		stored.DurationHours,
		stored.TotalCost,
		stored.MoneySaved,
		stored.GridStatus,
	)
	if err := row.Scan(&stored.ID); err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListDesc returns decisions of this kind sorted by timestamp
// descending.
func (l *DecisionLog) ListDesc(ctx context.Context, limit int) ([]scheduling.Decision, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("decision repo: nil db")
	}
	query := `
SELECT id, kind, date, timestamp, quantity, quantity_unit,
	scheduled_time, duration_hours, total_cost, money_saved, grid_status
FROM schedule_decisions
WHERE kind = $1
ORDER BY timestamp DESC, id DESC`
	args := []any{l.kind}
	if limit > 0 {
		query += `
LIMIT $2`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scheduling.Decision
	for rows.Next() {
		var decision scheduling.Decision
		if err := rows.Scan(
			&decision.ID,
			&decision.Kind,
			&decision.Date,
			&decision.Timestamp,
			&decision.Quantity,
			&decision.QuantityUnit,
			&decision.ScheduledTime,
			&decision.DurationHours,
			&decision.TotalCost,
			&decision.MoneySaved,
			&decision.GridStatus,
		); err != nil {
			return nil, err
		}
		out = append(out, decision)
	}
	return out, rows.Err()
}
