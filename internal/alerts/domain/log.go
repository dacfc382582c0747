package alerts

import "context"

// Log is an append-only alert sequence. Append assigns the next id
// atomically with the write; ids within a log increase by exactly one
// per appended alert.
type Log interface {
	Append(ctx context.Context, alert *Alert) (*Alert, error)
	ListDesc(ctx context.Context, limit int) ([]Alert, error)
}
