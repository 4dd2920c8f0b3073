package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// auditLog records metadata about each parse request, never the source text
// or tree itself, grounded on server/dao/sqlite's sql.Open("sqlite", ...)
// pattern. modernc.org/sqlite is pure Go, matching the teacher's choice of
// it over mattn/go-sqlite3 (see SPEC_FULL.md's dependency table).
type auditLog struct {
	db *sql.DB
}

func openAuditLog(path string) (*auditLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	const stmt = `CREATE TABLE IF NOT EXISTS parse_requests (
		id TEXT NOT NULL PRIMARY KEY,
		session_id TEXT NOT NULL,
		source_len INTEGER NOT NULL,
		diagnostic_count INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`
	if _, err := db.Exec(stmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("init audit db: %w", err)
	}

	return &auditLog{db: db}, nil
}

func (a *auditLog) Close() error {
	return a.db.Close()
}

// record stores one row of parse-request metadata. It deliberately takes no
// source text or tree: spec.md's non-goal on persisting trees to disk
// extends to the audit trail too.
func (a *auditLog) record(ctx context.Context, requestID, sessionID string, sourceLen, diagnosticCount int) error {
	const stmt = `INSERT INTO parse_requests (id, session_id, source_len, diagnostic_count, created) VALUES (?, ?, ?, ?, ?)`
	_, err := a.db.ExecContext(ctx, stmt, requestID, sessionID, sourceLen, diagnosticCount, time.Now().Unix())
	return err
}
