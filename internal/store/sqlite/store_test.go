package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ndelvaux/handleforge/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenIdempotentSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening against an existing schema must not fail.
	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen Open() error = %v", err)
	}
	defer func() { _ = second.Close() }()

	if err := second.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestTouchUserUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.TouchUser(ctx, "u1", "Alex"); err != nil {
		t.Fatalf("TouchUser() error = %v", err)
	}
	// Second touch with a new display name must update, not conflict.
	if err := store.TouchUser(ctx, "u1", "Alexandra"); err != nil {
		t.Fatalf("repeat TouchUser() error = %v", err)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.TouchUser(ctx, "u1", "Alex"); err != nil {
		t.Fatalf("TouchUser() error = %v", err)
	}

	seed := domain.Seed{
		Name:       "alex",
		Interests:  []string{"music"},
		Style:      domain.StyleCool,
		LengthPref: domain.LengthShort,
	}
	runs := [][]string{
		{"alexx", "xalex"},
		{"alex_official"},
		{},
	}
	for _, handles := range runs {
		if err := store.AppendHistory(ctx, "u1", seed, handles); err != nil {
			t.Fatalf("AppendHistory() error = %v", err)
		}
	}

	records, err := store.History(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("History() returned %d records, want 3", len(records))
	}

	// Newest first: the empty run was appended last.
	if len(records[0].Handles) != 0 {
		t.Errorf("newest record handles = %v, want the empty run first", records[0].Handles)
	}
	last := records[len(records)-1]
	if last.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", last.UserID, "u1")
	}
	if last.Seed.Name != "alex" || last.Seed.LengthPref != domain.LengthShort {
		t.Errorf("seed round trip = %+v, want the stored seed", last.Seed)
	}
	if len(last.Handles) != 2 || last.Handles[0] != "alexx" {
		t.Errorf("handles round trip = %v, want [alexx xalex]", last.Handles)
	}
	if last.CreatedAt.IsZero() {
		t.Error("CreatedAt not restored")
	}
}

func TestPruneHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := domain.Seed{Name: "alex"}
	if err := store.AppendHistory(ctx, "u1", seed, []string{"alexx"}); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}
	if err := store.AppendHistory(ctx, "u1", seed, []string{"xalex"}); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}

	// Backdate one row past the retention window.
	old := time.Now().Add(-48 * time.Hour).Unix()
	if _, err := store.db.ExecContext(ctx,
		`UPDATE generation_history SET created_at = ? WHERE handles LIKE '%alexx%'`, old); err != nil {
		t.Fatalf("backdate row: %v", err)
	}

	deleted, err := store.PruneHistory(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneHistory() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("PruneHistory() deleted %d rows, want 1", deleted)
	}

	left, err := store.History(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(left) != 1 || left[0].Handles[0] != "xalex" {
		t.Errorf("surviving history = %+v, want only the recent run", left)
	}

	// Zero retention means keep forever.
	if n, err := store.PruneHistory(ctx, 0); err != nil || n != 0 {
		t.Errorf("PruneHistory(0) = %d, %v, want a no-op", n, err)
	}
}

func TestHistoryLimitAndIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := domain.Seed{Name: "storm"}
	for i := 0; i < 5; i++ {
		if err := store.AppendHistory(ctx, "u1", seed, []string{"stormx"}); err != nil {
			t.Fatalf("AppendHistory() error = %v", err)
		}
	}
	if err := store.AppendHistory(ctx, "u2", seed, []string{"stormz"}); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}

	limited, err := store.History(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("History() with limit 3 returned %d records", len(limited))
	}

	other, err := store.History(ctx, "u2", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(other) != 1 {
		t.Errorf("History() for u2 returned %d records, want 1", len(other))
	}

	none, err := store.History(ctx, "unknown", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("History() for an unknown user returned %d records, want 0", len(none))
	}
}
