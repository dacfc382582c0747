package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	scheduling "ecocore-cloud/internal/scheduling/domain"
)

// DecisionLog is an in-memory append-only decision log.
type DecisionLog struct {
	mu      sync.RWMutex
	entries []scheduling.Decision
	nextID  int64
}

// NewDecisionLog constructs an empty log.
func NewDecisionLog() *DecisionLog {
	return &DecisionLog{nextID: 1}
}

// Append assigns the next id and stores a copy of the decision.
func (l *DecisionLog) Append(ctx context.Context, decision *scheduling.Decision) (*scheduling.Decision, error) {
	_ = ctx
	if decision == nil {
		return nil, errors.New("decision log: nil decision")
	}
	stored := *decision

	l.mu.Lock()
	stored.ID = l.nextID
	l.nextID++
	l.entries = append(l.entries, stored)
	l.mu.Unlock()

	return &stored, nil
}

// ListDesc returns decisions sorted by timestamp descending. A limit
// <= 0 returns everything.
func (l *DecisionLog) ListDesc(ctx context.Context, limit int) ([]scheduling.Decision, error) {
	_ = ctx
	l.mu.RLock()
	out := append([]scheduling.Decision(nil), l.entries...)
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
