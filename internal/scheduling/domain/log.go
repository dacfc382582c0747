package scheduling

import "context"

// DecisionLog is an append-only sequence of schedule decisions.
type DecisionLog interface {
	Append(ctx context.Context, decision *Decision) (*Decision, error)
	ListDesc(ctx context.Context, limit int) ([]Decision, error)
}
