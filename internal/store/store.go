// Package store persists parsed dictionaries in SQLite so a document's
// templates can be reloaded without re-reading the source header.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"logicle/internal/lexicon"
	"logicle/internal/template"
)

// Store wraps the dictionary database. Safe for concurrent use.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open creates or opens the database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dictionaries (
		doc_id TEXT PRIMARY KEY,
		lang TEXT NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS templates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		doc_id TEXT NOT NULL REFERENCES dictionaries(doc_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		predicate TEXT NOT NULL,
		meta INTEGER NOT NULL,
		slots_json TEXT NOT NULL,
		parts_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_templates_doc ON templates(doc_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// SaveDictionary replaces the stored dictionary for a document.
func (s *Store) SaveDictionary(ctx context.Context, docID string, lang lexicon.Language, dict *template.Dictionary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM templates WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("clear templates: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO dictionaries (doc_id, lang) VALUES (?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET lang = excluded.lang, saved_at = CURRENT_TIMESTAMP`,
		docID, string(lang)); err != nil {
		return fmt.Errorf("save dictionary row: %w", err)
	}

	for i, e := range dict.Entries() {
		slots, err := json.Marshal(e.Slots)
		if err != nil {
			return fmt.Errorf("marshal slots of %s: %w", e.Predicate, err)
		}
		parts, err := json.Marshal(e.Parts)
		if err != nil {
			return fmt.Errorf("marshal parts of %s: %w", e.Predicate, err)
		}
		meta := 0
		if e.Meta {
			meta = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO templates (doc_id, position, predicate, meta, slots_json, parts_json)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			docID, i, e.Predicate, meta, string(slots), string(parts)); err != nil {
			return fmt.Errorf("save template %s: %w", e.Predicate, err)
		}
	}
	return tx.Commit()
}

// LoadDictionary rebuilds a stored dictionary, re-sorted into dictionary
// order.
func (s *Store) LoadDictionary(ctx context.Context, docID string) (*template.Dictionary, lexicon.Language, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lang string
	err := s.db.QueryRowContext(ctx,
		`SELECT lang FROM dictionaries WHERE doc_id = ?`, docID).Scan(&lang)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("no dictionary stored for %q", docID)
	}
	if err != nil {
		return nil, "", fmt.Errorf("load dictionary row: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT predicate, meta, slots_json, parts_json
		 FROM templates WHERE doc_id = ? ORDER BY position`, docID)
	if err != nil {
		return nil, "", fmt.Errorf("load templates: %w", err)
	}
	defer rows.Close()

	dict := template.NewDictionary()
	for rows.Next() {
		var (
			predicate    string
			meta         int
			slots, parts string
		)
		if err := rows.Scan(&predicate, &meta, &slots, &parts); err != nil {
			return nil, "", fmt.Errorf("scan template: %w", err)
		}
		e := &template.Entry{Predicate: predicate, Meta: meta != 0}
		if err := json.Unmarshal([]byte(slots), &e.Slots); err != nil {
			return nil, "", fmt.Errorf("unmarshal slots of %s: %w", predicate, err)
		}
		if err := json.Unmarshal([]byte(parts), &e.Parts); err != nil {
			return nil, "", fmt.Errorf("unmarshal parts of %s: %w", predicate, err)
		}
		dict.Add(e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate templates: %w", err)
	}
	dict.Sort()
	return dict, lexicon.Language(lang), nil
}
