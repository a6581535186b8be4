// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/character-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "snippets.db"
)

// Tier labels stored with each entity.
const (
	TierConfirmed = "confirmed"
	TierCandidate = "candidate"
)

// Store manages the snippet SQLite database.
type Store struct {
	db         *sql.DB
	path       string
	maxResults int
}

// NewStore opens or creates the snippet database at outDir/index/snippets.db
// and creates the schema if it does not exist.
func NewStore(cfg types.OutputConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}

	s := &Store{db: db, path: dbPath, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			entities INTEGER NOT NULL,
			snippets INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			canonical_name TEXT NOT NULL,
			tier TEXT NOT NULL,
			mentions INTEGER NOT NULL,
			variants TEXT,
			first_chapter INTEGER,
			first_paragraph INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS snippets (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			chapter INTEGER NOT NULL,
			chapter_title TEXT,
			paragraph INTEGER NOT NULL,
			sentence_start INTEGER NOT NULL,
			sentence_end INTEGER NOT NULL,
			before_text TEXT,
			match_text TEXT NOT NULL,
			after_text TEXT,
			mentions TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS snippet_entities (
			snippet_id TEXT NOT NULL REFERENCES snippets(id) ON DELETE CASCADE,
			entity_id TEXT NOT NULL,
			PRIMARY KEY (snippet_id, entity_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snippet_entities_entity ON snippet_entities(entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_chapter ON snippets(chapter)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS4 external-content table kept in sync with triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='snippets_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE snippets_fts USING fts4(content="snippets", before_text, match_text, after_text)`,
			`CREATE TRIGGER snippets_bd BEFORE DELETE ON snippets BEGIN
				DELETE FROM snippets_fts WHERE docid = old.rowid;
			END`,
			`CREATE TRIGGER snippets_bu BEFORE UPDATE ON snippets BEGIN
				DELETE FROM snippets_fts WHERE docid = old.rowid;
			END`,
			`CREATE TRIGGER snippets_ai AFTER INSERT ON snippets BEGIN
				INSERT INTO snippets_fts(docid, before_text, match_text, after_text)
				VALUES (new.rowid, new.before_text, new.match_text, new.after_text);
			END`,
			`CREATE TRIGGER snippets_au AFTER UPDATE ON snippets BEGIN
				INSERT INTO snippets_fts(docid, before_text, match_text, after_text)
				VALUES (new.rowid, new.before_text, new.match_text, new.after_text);
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

// Run describes one ingestion.
type Run struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Entities  int
	Snippets  int
}

// IngestSummary holds counts from one ingestion.
type IngestSummary struct {
	Entities int
	Snippets int
	Pairs    int
}

// Ingest replaces the stored entities and snippets with the given set in
// one transaction and records the run. The store never holds a mix of two
// runs.
func (s *Store) Ingest(ctx context.Context, run Run, confirmed, candidates []types.Entity, snippets []types.Snippet, w io.Writer) (IngestSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM snippet_entities`,
		`DELETE FROM snippets`,
		`DELETE FROM entities`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return IngestSummary{}, fmt.Errorf("clearing previous run: %w", err)
		}
	}

	entStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (id, canonical_name, tier, mentions, variants, first_chapter, first_paragraph)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing entity insert: %w", err)
	}
	defer entStmt.Close()

	var summary IngestSummary
	for _, list := range []struct {
		tier     string
		entities []types.Entity
	}{{TierConfirmed, confirmed}, {TierCandidate, candidates}} {
		for _, e := range list.entities {
			variantsJSON, _ := json.Marshal(e.Variants)
			if _, err := entStmt.ExecContext(ctx,
				e.ID, e.CanonicalName, list.tier, e.Mentions, string(variantsJSON),
				e.FirstAppearance.Chapter, e.FirstAppearance.Paragraph,
			); err != nil {
				return IngestSummary{}, fmt.Errorf("inserting entity %s: %w", e.ID, err)
			}
			summary.Entities++
		}
	}

	snipStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snippets (id, chapter, chapter_title, paragraph, sentence_start, sentence_end,
			before_text, match_text, after_text, mentions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing snippet insert: %w", err)
	}
	defer snipStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO snippet_entities (snippet_id, entity_id) VALUES (?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, sn := range snippets {
		mentionsJSON, _ := json.Marshal(sn.Mentions)
		if _, err := snipStmt.ExecContext(ctx,
			sn.ID, sn.Chapter, sn.ChapterTitle, sn.Location.Paragraph,
			sn.Location.Start, sn.Location.End,
			sn.Text.Before, sn.Text.Match, sn.Text.After, string(mentionsJSON),
		); err != nil {
			return IngestSummary{}, fmt.Errorf("inserting snippet %s: %w", sn.ID, err)
		}
		for _, e := range sn.Entities {
			if _, err := linkStmt.ExecContext(ctx, sn.ID, e); err != nil {
				return IngestSummary{}, fmt.Errorf("linking snippet %s: %w", sn.ID, err)
			}
		}
		summary.Snippets++
	}
	summary.Pairs = len(Build(snippets).Pairs)

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, created_at, entities, snippets) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.CreatedAt.UTC().Format(time.RFC3339Nano), summary.Entities, summary.Snippets,
	); err != nil {
		return IngestSummary{}, fmt.Errorf("recording run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "indexed %d entities, %d snippets, %d co-occurring pairs\n",
		summary.Entities, summary.Snippets, summary.Pairs)
	return summary, nil
}

// LastRun returns the most recent ingestion. ok is false for an empty store.
func (s *Store) LastRun(ctx context.Context) (Run, bool, error) {
	var (
		run     Run
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, created_at, entities, snippets FROM runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&run.ID, &run.Source, &created, &run.Entities, &run.Snippets)
	if err == sql.ErrNoRows {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("reading last run: %w", err)
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return run, true, nil
}
