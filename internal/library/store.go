// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps searches the user chose to save, and the articles
// they returned, in a local SQLite database for later browsing. The search
// client never reads from it.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-search/internal/search"
	"github.com/pdiddy/pubmed-search/pkg/types"
)

const (
	dbFile            = "library.db"
	defaultMaxResults = 20

	// timeLayout has fixed width so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when a saved search id does not exist.
var ErrNotFound = errors.New("saved search not found")

// Store manages the library SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the library database at cfg.Dir/library.db and
// creates the schema if it does not exist.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS articles (
			pmid TEXT PRIMARY KEY,
			title TEXT,
			journal TEXT,
			year TEXT,
			authors TEXT,
			saved_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			term TEXT NOT NULL,
			max_results INTEGER,
			result_count INTEGER,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS search_results (
			search_id TEXT NOT NULL REFERENCES searches(id),
			pmid TEXT NOT NULL REFERENCES articles(pmid),
			rank INTEGER NOT NULL,
			PRIMARY KEY (search_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_year ON articles(year)`,
		`CREATE INDEX IF NOT EXISTS idx_search_results_pmid ON search_results(pmid)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SavedSearch describes one search recorded in the library.
type SavedSearch struct {
	ID          string    `json:"id" yaml:"id"`
	Term        string    `json:"term" yaml:"term"`
	MaxResults  int       `json:"max_results" yaml:"max_results"`
	ResultCount int       `json:"result_count" yaml:"result_count"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// SaveSearch records out and its articles, keeping the result order. Articles
// already in the library are updated with the newer metadata. It returns the
// id assigned to the saved search.
func (s *Store) SaveSearch(ctx context.Context, out search.SearchOutput) (string, error) {
	id := uuid.NewString()
	created := out.Timestamp
	if created.IsZero() {
		created = time.Now().UTC()
	}
	savedAt := time.Now().UTC().Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = sq.Insert("searches").
		Columns("id", "term", "max_results", "result_count", "created_at").
		Values(id, out.Query.Term, out.Query.MaxResults, len(out.Results), created.UTC().Format(timeLayout)).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return "", fmt.Errorf("inserting search: %w", err)
	}

	for rank, a := range out.Results {
		authors, err := json.Marshal(nonNil(a.Authors))
		if err != nil {
			return "", fmt.Errorf("encoding authors for %s: %w", a.PMID, err)
		}

		_, err = sq.Insert("articles").
			Columns("pmid", "title", "journal", "year", "authors", "saved_at").
			Values(a.PMID, a.Title, a.Journal, a.Year, string(authors), savedAt).
			Suffix(`ON CONFLICT(pmid) DO UPDATE SET
				title = excluded.title,
				journal = excluded.journal,
				year = excluded.year,
				authors = excluded.authors,
				saved_at = excluded.saved_at`).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return "", fmt.Errorf("upserting article %s: %w", a.PMID, err)
		}

		_, err = sq.Insert("search_results").
			Columns("search_id", "pmid", "rank").
			Values(id, a.PMID, rank+1).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return "", fmt.Errorf("linking article %s: %w", a.PMID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing search: %w", err)
	}
	return id, nil
}

// Searches lists saved searches, newest first.
func (s *Store) Searches(ctx context.Context) ([]SavedSearch, error) {
	rows, err := sq.Select("id", "term", "max_results", "result_count", "created_at").
		From("searches").
		OrderBy("created_at DESC", "id").
		RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var out []SavedSearch
	for rows.Next() {
		var (
			ss      SavedSearch
			created string
		)
		if err := rows.Scan(&ss.ID, &ss.Term, &ss.MaxResults, &ss.ResultCount, &created); err != nil {
			return nil, fmt.Errorf("scanning search: %w", err)
		}
		ss.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, ss)
	}
	return out, rows.Err()
}

// SearchArticles returns the articles of one saved search in their
// original rank order.
func (s *Store) SearchArticles(ctx context.Context, id string) ([]types.Article, error) {
	var exists int
	err := sq.Select("count(*)").From("searches").Where(sq.Eq{"id": id}).
		RunWith(s.db).QueryRowContext(ctx).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("looking up search %s: %w", id, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.queryArticles(ctx, sq.Select("a.pmid", "a.title", "a.journal", "a.year", "a.authors").
		From("search_results r").
		Join("articles a ON a.pmid = r.pmid").
		Where(sq.Eq{"r.search_id": id}).
		OrderBy("r.rank"))
}

// Filter narrows an article listing. Empty fields do not filter.
type Filter struct {
	// Text matches a substring of the title.
	Text string
	// Journal matches a substring of the journal name.
	Journal string
	// Year matches the publication year exactly.
	Year string
	// Author matches a substring of any author name.
	Author string
	// Limit caps the number of rows (default 20).
	Limit int
}

// Articles lists library articles matching f, newest year first.
func (s *Store) Articles(ctx context.Context, f Filter) ([]types.Article, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultMaxResults
	}

	q := sq.Select("a.pmid", "a.title", "a.journal", "a.year", "a.authors").
		From("articles a").
		OrderBy("a.year DESC", "a.pmid").
		Limit(uint64(limit))

	if f.Text != "" {
		q = q.Where(sq.Like{"a.title": "%" + f.Text + "%"})
	}
	if f.Journal != "" {
		q = q.Where(sq.Like{"a.journal": "%" + f.Journal + "%"})
	}
	if f.Year != "" {
		q = q.Where(sq.Eq{"a.year": f.Year})
	}
	if f.Author != "" {
		q = q.Where(sq.Like{"a.authors": "%" + f.Author + "%"})
	}
	return s.queryArticles(ctx, q)
}

func (s *Store) queryArticles(ctx context.Context, q sq.SelectBuilder) ([]types.Article, error) {
	rows, err := q.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	articles := []types.Article{}
	for rows.Next() {
		var (
			a       types.Article
			authors string
		)
		if err := rows.Scan(&a.PMID, &a.Title, &a.Journal, &a.Year, &authors); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &a.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors for %s: %w", a.PMID, err)
		}
		if a.Authors == nil {
			a.Authors = []string{}
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
