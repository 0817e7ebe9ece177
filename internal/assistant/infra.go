package assistant

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// OpenAuditDB opens the audit database. "sqlite:<path>" selects SQLite,
// anything else is handed to the postgres driver. The caller registers the
// drivers with blank imports.
func OpenAuditDB(dsn string) (*sql.DB, string, error) {
	driver, source := DriverPostgres, dsn
	if rest, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		driver, source = DriverSQLite, rest
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", driver, err)
	}
	return db, driver, nil
}

type AuditRepo struct {
	db     *sql.DB
	driver string
}

func NewAuditRepo(db *sql.DB, driver string) *AuditRepo {
	return &AuditRepo{db: db, driver: driver}
}

func (r *AuditRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS assistant_turns (
			id           TEXT PRIMARY KEY,
			action       TEXT NOT NULL DEFAULT '',
			tool_summary TEXT NOT NULL DEFAULT '',
			tool_payload TEXT,
			reply        TEXT NOT NULL,
			created_at   TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *AuditRepo) SaveTurn(ctx context.Context, rec *TurnRecord) error {
	var payload sql.NullString
	if len(rec.ToolPayload) > 0 {
		payload = sql.NullString{String: string(rec.ToolPayload), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO assistant_turns (id, action, tool_summary, tool_payload, reply, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`),
		rec.ID,
		rec.Action,
		rec.ToolSummary,
		payload,
		rec.Reply,
		rec.CreatedAt,
	)
	return err
}

// RecentTurns returns up to limit records, newest first.
func (r *AuditRepo) RecentTurns(ctx context.Context, limit int) ([]TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT id, action, tool_summary, tool_payload, reply, created_at
		FROM assistant_turns
		ORDER BY created_at DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var t TurnRecord
		var payload sql.NullString
		if err := rows.Scan(
			&t.ID,
			&t.Action,
			&t.ToolSummary,
			&payload,
			&t.Reply,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if payload.Valid {
			t.ToolPayload = []byte(payload.String)
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

// rebind turns ? placeholders into $n for postgres.
func (r *AuditRepo) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
