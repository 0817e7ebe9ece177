package assistant

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *AuditRepo {
	t.Helper()
	db, driver, err := OpenAuditDB("sqlite:" + filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("OpenAuditDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if driver != DriverSQLite {
		t.Fatalf("driver = %q", driver)
	}

	repo := NewAuditRepo(db, driver)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return repo
}

func TestAuditRepoSaveAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	turns := []*TurnRecord{
		{ID: "a", Reply: "hello", CreatedAt: base},
		{
			ID:          "b",
			Action:      "flight_status",
			ToolSummary: "UA1 on time.",
			ToolPayload: json.RawMessage(`{"data":[]}`),
			Reply:       "Your flight is on time.",
			CreatedAt:   base.Add(time.Minute),
		},
	}
	for _, rec := range turns {
		if err := repo.SaveTurn(ctx, rec); err != nil {
			t.Fatalf("SaveTurn(%s): %v", rec.ID, err)
		}
	}

	got, err := repo.RecentTurns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d turns", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("order = %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Action != "flight_status" || string(got[0].ToolPayload) != `{"data":[]}` {
		t.Fatalf("turn b = %+v", got[0])
	}
	if got[1].ToolPayload != nil {
		t.Fatalf("turn a payload = %s", got[1].ToolPayload)
	}
	if !got[0].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("created_at = %v", got[0].CreatedAt)
	}
}

func TestAuditRepoMigrateTwice(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestRebind(t *testing.T) {
	pg := &AuditRepo{driver: DriverPostgres}
	if got := pg.rebind("VALUES (?, ?, ?)"); got != "VALUES ($1, $2, $3)" {
		t.Fatalf("postgres rebind = %q", got)
	}
	lite := &AuditRepo{driver: DriverSQLite}
	if got := lite.rebind("VALUES (?, ?)"); got != "VALUES (?, ?)" {
		t.Fatalf("sqlite rebind = %q", got)
	}
}
