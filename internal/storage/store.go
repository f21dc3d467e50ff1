// Package storage persists analysis sessions and the decisions they produce
// to a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusError   = "error"
)

type Store struct {
	db *sql.DB
}

// SessionRecord is one analysis run.
type SessionRecord struct {
	ID        string
	Symbol    string
	AssetType string
	TradeDate string
	Status    string
}

// ReportRecord is one agent report produced during a session.
type ReportRecord struct {
	SessionID string
	Name      string
	Content   string
	Seq       int
}

// DecisionRecord is the structured outcome of a session.
type DecisionRecord struct {
	SessionID  string
	Action     string
	Confidence float64
	Risk       float64
	Reason     string
}

type SessionWithMeta struct {
	SessionRecord
	RowID     int64
	CreatedAt string
	UpdatedAt string
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    symbol TEXT NOT NULL,
    asset_type TEXT NOT NULL,
    trade_date TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    seq INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(session_id, name)
);

CREATE TABLE IF NOT EXISTS decisions (
    session_id TEXT PRIMARY KEY REFERENCES sessions(id) ON DELETE CASCADE,
    action TEXT NOT NULL,
    confidence REAL NOT NULL,
    risk REAL NOT NULL,
    reason TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reports_session ON reports(session_id, seq);
CREATE INDEX IF NOT EXISTS idx_sessions_symbol ON sessions(symbol, trade_date);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session SessionRecord) error {
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if session.Status == "" {
		session.Status = StatusRunning
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, symbol, asset_type, trade_date, status)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    symbol=excluded.symbol,
    asset_type=excluded.asset_type,
    trade_date=excluded.trade_date,
    status=excluded.status,
    updated_at=CURRENT_TIMESTAMP
`, session.ID, session.Symbol, session.AssetType, session.TradeDate, session.Status)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *Store) UpdateSessionStatus(ctx context.Context, sessionID, status string) error {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(status) == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
UPDATE sessions
SET status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, status, sessionID)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

func (s *Store) SaveReport(ctx context.Context, report ReportRecord) error {
	if strings.TrimSpace(report.SessionID) == "" || strings.TrimSpace(report.Name) == "" {
		return fmt.Errorf("report session id and name are required")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO reports (session_id, name, content, seq)
VALUES (?, ?, ?, ?)
ON CONFLICT(session_id, name) DO UPDATE SET
    content=excluded.content,
    seq=excluded.seq
`, report.SessionID, report.Name, report.Content, report.Seq)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *Store) SaveDecision(ctx context.Context, decision DecisionRecord) error {
	if strings.TrimSpace(decision.SessionID) == "" {
		return fmt.Errorf("decision session id is required")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO decisions (session_id, action, confidence, risk, reason)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
    action=excluded.action,
    confidence=excluded.confidence,
    risk=excluded.risk,
    reason=excluded.reason
`, decision.SessionID, decision.Action, decision.Confidence, decision.Risk, decision.Reason)
	if err != nil {
		return fmt.Errorf("save decision: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (*SessionWithMeta, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT rowid, id, symbol, asset_type, trade_date, status, created_at, updated_at
FROM sessions
WHERE id = ?
LIMIT 1
`, sessionID)

	var rec SessionWithMeta
	if err := row.Scan(&rec.RowID, &rec.ID, &rec.Symbol, &rec.AssetType, &rec.TradeDate, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &rec, nil
}

// ListSessions pages sessions newest first, keyed by rowid.
func (s *Store) ListSessions(ctx context.Context, cursor int64, limit int) ([]SessionWithMeta, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT rowid, id, symbol, asset_type, trade_date, status, created_at, updated_at
FROM sessions
WHERE (? = 0 OR rowid < ?)
ORDER BY rowid DESC
LIMIT ?
`, cursor, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionWithMeta
	for rows.Next() {
		var rec SessionWithMeta
		if err := rows.Scan(&rec.RowID, &rec.ID, &rec.Symbol, &rec.AssetType, &rec.TradeDate, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions rows: %w", err)
	}
	return sessions, nil
}

func (s *Store) GetDecision(ctx context.Context, sessionID string) (*DecisionRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT session_id, action, confidence, risk, reason
FROM decisions
WHERE session_id = ?
LIMIT 1
`, sessionID)

	var rec DecisionRecord
	var reason sql.NullString
	if err := row.Scan(&rec.SessionID, &rec.Action, &rec.Confidence, &rec.Risk, &reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get decision: %w", err)
	}
	rec.Reason = reason.String
	return &rec, nil
}

func (s *Store) ListReports(ctx context.Context, sessionID string) ([]ReportRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT session_id, name, content, seq
FROM reports
WHERE session_id = ?
ORDER BY seq ASC
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		if err := rows.Scan(&rec.SessionID, &rec.Name, &rec.Content, &rec.Seq); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports rows: %w", err)
	}
	return reports, nil
}
