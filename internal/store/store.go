// Package store provides SQLite-backed render history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/celery-worker-patch/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides access to the history database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renders (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		tokens TEXT NOT NULL,
		config_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pdr (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_renders_role ON renders(role);
	CREATE INDEX IF NOT EXISTS idx_pdr_action ON pdr(action);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Render Operations ---

// RecordRender stores a rendered worker command.
func (s *Store) RecordRender(role string, tokens []string, configHash string) (*models.Render, error) {
	render := &models.Render{
		ID:         uuid.New().String(),
		Role:       role,
		Tokens:     append([]string(nil), tokens...),
		ConfigHash: configHash,
		CreatedAt:  time.Now().UTC(),
	}

	tokensJSON, err := json.Marshal(render.Tokens)
	if err != nil {
		return nil, fmt.Errorf("marshal tokens: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO renders (id, role, tokens, config_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		render.ID, render.Role, string(tokensJSON), render.ConfigHash, render.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert render: %w", err)
	}
	return render, nil
}

// ListRenders returns the most recent renders first, optionally filtered by
// role. A non-positive limit returns everything.
func (s *Store) ListRenders(role string, limit int) ([]models.Render, error) {
	query := `SELECT id, role, tokens, config_hash, created_at FROM renders`
	var args []interface{}

	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query renders: %w", err)
	}
	defer rows.Close()

	var renders []models.Render
	for rows.Next() {
		var r models.Render
		var tokensJSON string
		if err := rows.Scan(&r.ID, &r.Role, &tokensJSON, &r.ConfigHash, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		if err := json.Unmarshal([]byte(tokensJSON), &r.Tokens); err != nil {
			return nil, fmt.Errorf("decode tokens of render %s: %w", r.ID, err)
		}
		renders = append(renders, r)
	}
	return renders, rows.Err()
}

// --- PDR Operations ---

// WritePDR writes a Process Decision Record.
func (s *Store) WritePDR(action, inputsHash, outcome, details string) (*models.PDREntry, error) {
	pdr := &models.PDREntry{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO pdr (id, action, inputs_hash, outcome, details, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		pdr.ID, pdr.Action, pdr.InputsHash, pdr.Outcome, pdr.Details, pdr.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pdr: %w", err)
	}
	return pdr, nil
}

// ListPDR returns decision records for action, newest first. An empty
// action returns every record.
func (s *Store) ListPDR(action string) ([]models.PDREntry, error) {
	query := `SELECT id, action, inputs_hash, outcome, details, timestamp FROM pdr`
	var args []interface{}
	if action != "" {
		query += ` WHERE action = ?`
		args = append(args, action)
	}
	query += ` ORDER BY timestamp DESC, rowid DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pdr: %w", err)
	}
	defer rows.Close()

	var entries []models.PDREntry
	for rows.Next() {
		var e models.PDREntry
		var details sql.NullString
		if err := rows.Scan(&e.ID, &e.Action, &e.InputsHash, &e.Outcome, &details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan pdr: %w", err)
		}
		if details.Valid {
			e.Details = details.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
