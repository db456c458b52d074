// Package store persists named layout snapshots in a local sqlite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wcatz/grid-generator/internal/grid"
)

// ErrNotFound is returned when no snapshot has the requested name.
var ErrNotFound = errors.New("snapshot not found")

// DefaultPath is the database location used when none is given.
const DefaultPath = ".grid-generator/snapshots.db"

// SnapshotInfo describes a stored snapshot without its items.
type SnapshotInfo struct {
	Name      string    `json:"name"`
	Columns   int       `json:"columns"`
	Rows      int       `json:"rows"`
	Items     int       `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SnapshotRepository stores layouts by name.
type SnapshotRepository interface {
	Save(name string, snap *grid.Snapshot) error
	Load(name string) (*grid.Snapshot, error)
	List() ([]SnapshotInfo, error)
	Delete(name string) error
	Close() error
}

// SQLiteSnapshotRepository implements SnapshotRepository on sqlite.
type SQLiteSnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSnapshotRepository opens (creating if needed) the database at
// path. An empty path means DefaultPath under the user's home directory.
func NewSQLiteSnapshotRepository(path string) (*SQLiteSnapshotRepository, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, DefaultPath)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := InitializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return &SQLiteSnapshotRepository{db: db, now: time.Now}, nil
}

// Close closes the database.
func (r *SQLiteSnapshotRepository) Close() error {
	return r.db.Close()
}

// Save stores snap under name, replacing any snapshot of the same name. The
// snapshot must be a legal layout.
func (r *SQLiteSnapshotRepository) Save(name string, snap *grid.Snapshot) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("snapshot name is required")
	}
	if snap == nil {
		return fmt.Errorf("cannot save nil snapshot")
	}
	if err := grid.Check(snap.Items, snap.Config); err != nil {
		return fmt.Errorf("snapshot '%s': %w", name, err)
	}

	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	now := r.now().UTC()
	query := `
		INSERT INTO snapshots (name, grid_columns, grid_rows, item_count, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			grid_columns = excluded.grid_columns,
			grid_rows = excluded.grid_rows,
			item_count = excluded.item_count,
			document = excluded.document,
			updated_at = excluded.updated_at`
	_, err = r.db.Exec(query, name, snap.Config.Columns, snap.Config.Rows, len(snap.Items), string(doc), now, now)
	if err != nil {
		return fmt.Errorf("saving snapshot '%s': %w", name, err)
	}
	return nil
}

// Load returns the snapshot stored under name.
func (r *SQLiteSnapshotRepository) Load(name string) (*grid.Snapshot, error) {
	var doc string
	err := r.db.QueryRow("SELECT document FROM snapshots WHERE name = ?", name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot '%s': %w", name, err)
	}

	var snap grid.Snapshot
	if err := json.Unmarshal([]byte(doc), &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot '%s': %w", name, err)
	}
	if snap.Items == nil {
		snap.Items = []grid.Item{}
	}
	return &snap, nil
}

// List returns every stored snapshot, most recently updated first.
func (r *SQLiteSnapshotRepository) List() ([]SnapshotInfo, error) {
	rows, err := r.db.Query(`
		SELECT name, grid_columns, grid_rows, item_count, updated_at
		FROM snapshots
		ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	infos := []SnapshotInfo{}
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.Name, &info.Columns, &info.Rows, &info.Items, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the snapshot stored under name.
func (r *SQLiteSnapshotRepository) Delete(name string) error {
	res, err := r.db.Exec("DELETE FROM snapshots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting snapshot '%s': %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting snapshot '%s': %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}
	return nil
}
