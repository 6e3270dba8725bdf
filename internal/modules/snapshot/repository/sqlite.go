package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/oops"

	"github.com/slackstats/workstats/internal/modules/snapshot/domain"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStorage implements Repository backed by a local SQLite database
type SQLiteStorage struct {
	conn *sql.DB
}

// NewSQLiteStorage opens or creates the snapshot database at the given path
func NewSQLiteStorage(dbPath string) (Repository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, oops.With("path", dbPath, "context", "creating database directory").Wrap(err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000", dbPath))
	if err != nil {
		return nil, oops.With("path", dbPath, "context", "opening database").Wrap(err)
	}

	// SQLite works best with a single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, oops.With("path", dbPath, "context", "initializing schema").Wrap(err)
	}

	return &SQLiteStorage{conn: conn}, nil
}

// Save inserts a snapshot
func (s *SQLiteStorage) Save(snapshot *domain.Snapshot) error {
	_, err := s.conn.Exec(
		`INSERT INTO snapshots (id, channel_label, total_messages, total_reactions, total_threads, blocks, saved, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.ChannelLabel,
		snapshot.TotalMessages, snapshot.TotalReactions, snapshot.TotalThreads,
		string(snapshot.Blocks), snapshot.Saved, snapshot.CreatedAt,
	)
	if err != nil {
		return oops.With("snapshot_id", snapshot.ID, "context", "saving snapshot").Wrap(err)
	}
	return nil
}

// MarkLatestSaved flags the most recent snapshot as saved and returns it
func (s *SQLiteStorage) MarkLatestSaved() (*domain.Snapshot, error) {
	var id string
	err := s.conn.QueryRow(`SELECT id FROM snapshots ORDER BY created_at DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, oops.Errorf("no snapshots recorded yet")
	}
	if err != nil {
		return nil, oops.With("context", "locating latest snapshot").Wrap(err)
	}

	if _, err := s.conn.Exec(`UPDATE snapshots SET saved = 1 WHERE id = ?`, id); err != nil {
		return nil, oops.With("snapshot_id", id, "context", "marking snapshot saved").Wrap(err)
	}
	return s.Get(id)
}

// Get retrieves a snapshot by id
func (s *SQLiteStorage) Get(id string) (*domain.Snapshot, error) {
	row := s.conn.QueryRow(
		`SELECT id, channel_label, total_messages, total_reactions, total_threads, blocks, saved, created_at
		 FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

// Recent retrieves the newest snapshots, most recent first
func (s *SQLiteStorage) Recent(limit int) ([]*domain.Snapshot, error) {
	rows, err := s.conn.Query(
		`SELECT id, channel_label, total_messages, total_reactions, total_threads, blocks, saved, created_at
		 FROM snapshots ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, oops.With("context", "listing snapshots").Wrap(err)
	}
	defer rows.Close()

	var snapshots []*domain.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("context", "iterating snapshots").Wrap(err)
	}
	return snapshots, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.conn.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	var blocks string
	err := row.Scan(
		&snapshot.ID, &snapshot.ChannelLabel,
		&snapshot.TotalMessages, &snapshot.TotalReactions, &snapshot.TotalThreads,
		&blocks, &snapshot.Saved, &snapshot.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, oops.Errorf("snapshot not found")
	}
	if err != nil {
		return nil, oops.With("context", "scanning snapshot row").Wrap(err)
	}
	snapshot.Blocks = []byte(blocks)
	return &snapshot, nil
}
