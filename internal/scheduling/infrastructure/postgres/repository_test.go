package postgres

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	scheduling "ecocore-cloud/internal/scheduling/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func testDecision() *scheduling.Decision {
	return &scheduling.Decision{
		Date:          "2026-08-31",
		Timestamp:     time.Now().UTC(),
		Quantity:      9600,
		QuantityUnit:  "liters",
		ScheduledTime: "02:00",
		DurationHours: 1.92,
		GridStatus:    scheduling.GridStatusOffPeak,
	}
}

func TestNewDecisionLog_RejectsUnknownKind(t *testing.T) {
	if _, err := NewDecisionLog(nil, "thermostat"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestDecisionLog_AppendAssignsIncreasingIDs(t *testing.T) {
	db := openTestDB(t)
	log, err := NewDecisionLog(db, scheduling.KindPump)
	if err != nil {
		t.Fatalf("new log: %v", err)
	}
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		stored, err := log.Append(ctx, testDecision())
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if stored.ID <= prev {
			t.Fatalf("append %d: id %d not greater than previous %d", i, stored.ID, prev)
		}
		prev = stored.ID
	}
}

func TestDecisionLog_KindsDrawFromSeparateSequences(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	pumpLog, err := NewDecisionLog(db, scheduling.KindPump)
	if err != nil {
		t.Fatalf("new pump log: %v", err)
	}
	batteryLog, err := NewDecisionLog(db, scheduling.KindBattery)
	if err != nil {
		t.Fatalf("new battery log: %v", err)
	}

	pump1, err := pumpLog.Append(ctx, testDecision())
	if err != nil {
		t.Fatalf("pump append: %v", err)
	}
	battery1, err := batteryLog.Append(ctx, testDecision())
	if err != nil {
		t.Fatalf("battery append: %v", err)
	}
	pump2, err := pumpLog.Append(ctx, testDecision())
	if err != nil {
		t.Fatalf("pump append: %v", err)
	}

	if battery1.Kind != scheduling.KindBattery {
		t.Errorf("battery kind = %q, want %q", battery1.Kind, scheduling.KindBattery)
	}
	// A battery append must not advance the pump sequence.
	if pump2.ID != pump1.ID+1 {
		t.Errorf("pump ids %d then %d, want consecutive", pump1.ID, pump2.ID)
	}
}

func TestDecisionLog_ConcurrentAppendsGetUniqueIDs(t *testing.T) {
	db := openTestDB(t)
	log, err := NewDecisionLog(db, scheduling.KindBattery)
	if err != nil {
		t.Fatalf("new log: %v", err)
	}
	ctx := context.Background()

	const workers = 8
	const perWorker = 10

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int64]bool)
	var appendErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				stored, err := log.Append(ctx, testDecision())
				mu.Lock()
				if err != nil {
					if appendErr == nil {
						appendErr = err
					}
					mu.Unlock()
					return
				}
				seen[stored.ID] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if appendErr != nil {
		t.Fatalf("concurrent append: %v", appendErr)
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("got %d distinct ids, want %d", len(seen), workers*perWorker)
	}
}
