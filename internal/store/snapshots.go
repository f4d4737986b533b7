package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Snapshot is one saved transcript copy.
type Snapshot struct {
	ID        string
	SessionID string
	Project   string
	Name      string
	ParentID  *string // snapshot this one was branched from
	Path      string  // payload file under the snapshots dir
	Bytes     int64
	Messages  int
	Trimmed   bool
	CreatedAt int64
}

const snapshotCols = "id, session_id, project, name, parent_id, path, bytes, messages, trimmed, created_at"

func scanSnapshot(row interface{ Scan(...any) error }) (*Snapshot, error) {
	var s Snapshot
	var trimmed int
	err := row.Scan(&s.ID, &s.SessionID, &s.Project, &s.Name, &s.ParentID, &s.Path, &s.Bytes, &s.Messages, &trimmed, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Trimmed = trimmed != 0
	return &s, nil
}

// SaveSnapshot records a snapshot. CreatedAt is set here.
func (db *DB) SaveSnapshot(s *Snapshot) error {
	s.CreatedAt = time.Now().UnixMilli()
	trimmed := 0
	if s.Trimmed {
		trimmed = 1
	}
	_, err := db.Exec(`
		INSERT INTO snapshots (id, session_id, project, name, parent_id, path, bytes, messages, trimmed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.SessionID, s.Project, s.Name, s.ParentID, s.Path, s.Bytes, s.Messages, trimmed, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns a snapshot by full id or unambiguous id prefix.
func (db *DB) GetSnapshot(idOrPrefix string) (*Snapshot, error) {
	s, err := scanSnapshot(db.QueryRow(
		"SELECT "+snapshotCols+" FROM snapshots WHERE id = ?", idOrPrefix))
	if err == nil {
		return s, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	rows, err := db.Query(
		"SELECT "+snapshotCols+" FROM snapshots WHERE id LIKE ? LIMIT 2", idOrPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("get snapshot by prefix: %w", err)
	}
	defer rows.Close()

	var matches []*Snapshot
	for rows.Next() {
		m, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("snapshot %s not found", idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("snapshot prefix %s is ambiguous", idOrPrefix)
	}
}

// ListSnapshots returns snapshots newest first, optionally filtered by project.
func (db *DB) ListSnapshots(project string, limit int) ([]Snapshot, error) {
	query := "SELECT " + snapshotCols + " FROM snapshots"
	args := []any{}
	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, *s)
	}
	return snaps, rows.Err()
}

// DeleteSnapshot removes a snapshot row. The payload file is the caller's
// problem.
func (db *DB) DeleteSnapshot(id string) error {
	result, err := db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("snapshot %s not found", id)
	}
	return nil
}

// Children returns the snapshots branched from the given snapshot.
func (db *DB) Children(id string) ([]Snapshot, error) {
	rows, err := db.Query(
		"SELECT "+snapshotCols+" FROM snapshots WHERE parent_id = ? ORDER BY created_at", id)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, *s)
	}
	return snaps, rows.Err()
}

// Roots returns snapshots with no parent, oldest first.
func (db *DB) Roots() ([]Snapshot, error) {
	rows, err := db.Query(
		"SELECT " + snapshotCols + " FROM snapshots WHERE parent_id IS NULL ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list roots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, *s)
	}
	return snaps, rows.Err()
}
