// Package sqlite persists signed verdict records. The engine itself is
// stateless across calls; the archive exists so that published verdicts
// and their signatures remain retrievable by provenance id.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dev.caws.arbiter/internal/adjudication"
)

// ErrNotFound is returned when no verdict matches the requested id.
var ErrNotFound = errors.New("verdict not found")

const schema = `
CREATE TABLE IF NOT EXISTS verdicts (
	provenance_id   TEXT PRIMARY KEY,
	task_id         TEXT NOT NULL,
	working_spec_id TEXT NOT NULL,
	status          TEXT NOT NULL,
	confidence      REAL NOT NULL,
	waiver_required INTEGER NOT NULL,
	waiver_reason   TEXT,
	debate_rounds   INTEGER NOT NULL,
	payload         BLOB NOT NULL,
	signature       BLOB NOT NULL,
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verdicts_task ON verdicts(task_id, created_at);
`

// Store is a SQLite-backed verdict archive.
type Store struct {
	sqlDB *sql.DB
}

// Record is one archived verdict with its signature.
type Record struct {
	Verdict   *adjudication.Verdict `json:"verdict"`
	Signature []byte                `json:"signature"`
	CreatedAt time.Time             `json:"created_at"`
}

// Open opens the archive at path and bootstraps the schema. Use ":memory:"
// for an ephemeral archive.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open verdict archive: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping verdict archive: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap verdict schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save archives one published verdict and its signature.
func (s *Store) Save(ctx context.Context, verdict *adjudication.Verdict, signature []byte) error {
	if verdict == nil {
		return fmt.Errorf("verdict is required")
	}
	if verdict.ProvenanceID == "" {
		return fmt.Errorf("verdict has no provenance id")
	}

	payload, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("marshal verdict: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO verdicts (
			provenance_id, task_id, working_spec_id, status, confidence,
			waiver_required, waiver_reason, debate_rounds, payload,
			signature, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		verdict.ProvenanceID,
		verdict.TaskID,
		verdict.WorkingSpecID,
		string(verdict.Status),
		verdict.Confidence,
		boolToInt(verdict.WaiverRequired),
		verdict.WaiverReason,
		verdict.DebateRounds,
		payload,
		signature,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert verdict %s: %w", verdict.ProvenanceID, err)
	}
	return nil
}

// GetByProvenanceID fetches one archived verdict.
func (s *Store) GetByProvenanceID(ctx context.Context, provenanceID string) (*Record, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
		SELECT payload, signature, created_at
		FROM verdicts WHERE provenance_id = ?`, provenanceID)

	return scanRecord(row.Scan)
}

// ListByTask returns all archived verdicts for a task, newest first.
func (s *Store) ListByTask(ctx context.Context, taskID string) ([]*Record, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT payload, signature, created_at
		FROM verdicts WHERE task_id = ?
		ORDER BY created_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list verdicts for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var payload, signature []byte
	var createdAt int64
	if err := scan(&payload, &signature, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan verdict: %w", err)
	}

	var verdict adjudication.Verdict
	if err := json.Unmarshal(payload, &verdict); err != nil {
		return nil, fmt.Errorf("unmarshal verdict payload: %w", err)
	}
	return &Record{
		Verdict:   &verdict,
		Signature: signature,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
