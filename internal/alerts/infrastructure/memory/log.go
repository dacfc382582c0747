package memory

import (
	"context"
	"sort"
	"sync"

	alerts "ecocore-cloud/internal/alerts/domain"
)

// AlertLog is an in-memory append-only alert log.
type AlertLog struct {
	mu      sync.RWMutex
	entries []alerts.Alert
	nextID  int64
}

// NewAlertLog constructs an empty log.
func NewAlertLog() *AlertLog {
	return &AlertLog{nextID: 1}
}

// Append assigns the next id and stores a copy of the alert.
func (l *AlertLog) Append(ctx context.Context, alert *alerts.Alert) (*alerts.Alert, error) {
	_ = ctx
	if alert == nil {
		return nil, alerts.ErrNilAlert
	}
	stored := *alert

	l.mu.Lock()
	stored.ID = l.nextID
	l.nextID++
	l.entries = append(l.entries, stored)
	l.mu.Unlock()

	return &stored, nil
}

// ListDesc returns alerts sorted by time descending. A limit <= 0
// returns everything.
func (l *AlertLog) ListDesc(ctx context.Context, limit int) ([]alerts.Alert, error) {
	_ = ctx
	l.mu.RLock()
	out := append([]alerts.Alert(nil), l.entries...)
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Time.Equal(out[j].Time) {
			return out[i].ID > out[j].ID
		}
		return out[i].Time.After(out[j].Time)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports the number of appended alerts.
func (l *AlertLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
