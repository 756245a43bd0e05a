// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists finished generation runs in a local SQLite
// database so past articles can be listed, re-read, and searched. The
// archive sits outside the generation pipeline: runs are stored only
// after they complete, and the pipeline itself never reads from it.
package archive

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/pkg/types"
)

const dbFile = "articles.db"

// Record is one archived generation run.
type Record struct {
	// ID is a short stable identifier derived from the run's inputs
	// and creation time.
	ID string `json:"id" yaml:"id"`

	Topic    string        `json:"topic" yaml:"topic"`
	Language string        `json:"language" yaml:"language"`
	Depth    types.Depth   `json:"depth" yaml:"depth"`
	Model    types.ModelID `json:"model" yaml:"model"`

	// Report is the intermediate research report.
	Report string `json:"report" yaml:"report"`

	// Article is the final published text.
	Article string `json:"article" yaml:"article"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Store manages the archive SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the archive database at cfg.Dir/articles.db,
// creating the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "archive"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			topic TEXT NOT NULL,
			language TEXT NOT NULL,
			depth TEXT NOT NULL,
			model TEXT NOT NULL,
			report TEXT,
			article TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_topic ON runs(topic)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='runs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE runs_fts USING fts5(topic, article, content=runs, content_rowid=rowid)`,
			`CREATE TRIGGER runs_ai AFTER INSERT ON runs BEGIN
				INSERT INTO runs_fts(rowid, topic, article) VALUES (new.rowid, new.topic, new.article);
			END`,
			`CREATE TRIGGER runs_ad AFTER DELETE ON runs BEGIN
				INSERT INTO runs_fts(runs_fts, rowid, topic, article) VALUES('delete', old.rowid, old.topic, old.article);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// stableID derives a deterministic short identifier for a record: the
// first 12 hex characters of SHA-256 over the identifying fields.
func stableID(rec Record) string {
	h := sha256.New()
	h.Write([]byte(rec.Topic))
	h.Write([]byte(rec.Language))
	h.Write([]byte(rec.Model))
	h.Write([]byte(rec.CreatedAt.UTC().Format(time.RFC3339Nano)))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Save stores a completed run and returns its identifier. A zero
// CreatedAt is stamped with the current time.
func (s *Store) Save(ctx context.Context, rec Record) (string, error) {
	if rec.Article == "" {
		return "", fmt.Errorf("refusing to archive a run with no article text")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.ID = stableID(rec)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, topic, language, depth, model, report, article, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Topic, rec.Language, string(rec.Depth), string(rec.Model),
		rec.Report, rec.Article, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return rec.ID, nil
}

// Get returns one archived run by identifier.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, language, depth, model, report, article, created_at
		 FROM runs WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, fmt.Errorf("no archived run with id %q", id)
	}
	return rec, err
}

// List returns archived runs, newest first, up to limit (zero uses the
// store default).
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, language, depth, model, report, article, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Search runs an FTS5 full-text query over topics and article bodies,
// ranked by relevance.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Record, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.topic, r.language, r.depth, r.model, r.report, r.article, r.created_at
		 FROM runs_fts
		 JOIN runs r ON r.rowid = runs_fts.rowid
		 WHERE runs_fts MATCH ?
		 ORDER BY runs_fts.rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ExportYAML writes every archived run to w as a YAML document.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	records, err := s.List(ctx, 1<<30)
	if err != nil {
		return err
	}

	doc := struct {
		Runs []Record `yaml:"runs"`
	}{Runs: records}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling archive: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var depth, model, created string
	if err := row.Scan(&rec.ID, &rec.Topic, &rec.Language, &depth, &model,
		&rec.Report, &rec.Article, &created); err != nil {
		return Record{}, err
	}
	rec.Depth = types.Depth(depth)
	rec.Model = types.ModelID(model)
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
