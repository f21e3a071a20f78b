package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/madisonlabs/marketlens/internal/model"
)

// SQLiteStore keeps a local history of received reports so they can be
// re-rendered later without calling the webhook again.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the reports table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS reports (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		brand       TEXT NOT NULL,
		goal        TEXT NOT NULL,
		received_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		payload     BLOB NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating reports table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save records a received report and returns its assigned ID.
func (s *SQLiteStore) Save(rec model.ReportRecord) (int64, error) {
	receivedAt := rec.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	res, err := s.db.Exec(
		"INSERT INTO reports (brand, goal, received_at, payload) VALUES (?, ?, ?, ?)",
		rec.Brand, rec.Goal, receivedAt.UTC(), rec.Payload,
	)
	if err != nil {
		return 0, fmt.Errorf("saving report for %s: %w", rec.Brand, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("saving report for %s: %w", rec.Brand, err)
	}
	return id, nil
}

// List returns up to limit saved reports, newest first. A limit <= 0 means
// no limit.
func (s *SQLiteStore) List(limit int) ([]model.ReportRecord, error) {
	query := "SELECT id, brand, goal, received_at, payload FROM reports ORDER BY received_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var records []model.ReportRecord
	for rows.Next() {
		var rec model.ReportRecord
		if err := rows.Scan(&rec.ID, &rec.Brand, &rec.Goal, &rec.ReceivedAt, &rec.Payload); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return records, nil
}

// Get returns the saved report with the given ID.
func (s *SQLiteStore) Get(id int64) (model.ReportRecord, error) {
	var rec model.ReportRecord
	err := s.db.QueryRow(
		"SELECT id, brand, goal, received_at, payload FROM reports WHERE id = ?", id,
	).Scan(&rec.ID, &rec.Brand, &rec.Goal, &rec.ReceivedAt, &rec.Payload)
	if err == sql.ErrNoRows {
		return rec, fmt.Errorf("report %d not found", id)
	}
	if err != nil {
		return rec, fmt.Errorf("loading report %d: %w", id, err)
	}
	return rec, nil
}

// Prune deletes reports older than the given duration and returns how many
// were removed.
func (s *SQLiteStore) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := s.db.Exec("DELETE FROM reports WHERE received_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning reports older than %v: %w", olderThan, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning reports older than %v: %w", olderThan, err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
