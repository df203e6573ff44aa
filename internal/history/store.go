package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"subsearch/internal/config"
	"subsearch/internal/fileutil"
)

//go:embed schema.sql
var schemaSQL string

// timestampLayout is fixed width so created_at orders correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

var (
	// ErrSchemaMismatch indicates the database was written by an incompatible version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrNotFound is returned when no search matches the requested id.
	ErrNotFound = errors.New("search not found")
)

// Store manages search history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	keep int
}

// Open initializes or connects to the history database at cfg.Paths.HistoryDB.
func Open(cfg *config.Config) (*Store, error) {
	return OpenPath(cfg.Paths.HistoryDB, cfg.History.Keep)
}

// OpenPath opens the database at path, keeping at most keep searches
// (zero keeps everything).
func OpenPath(path string, keep int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, keep: keep}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// NewID returns a fresh search id. Callers use it to correlate log lines
// before the search is recorded.
func NewID() string {
	return uuid.NewString()
}

// Record stores a finished search and prunes old entries. A missing ID or
// CreatedAt is filled in; the stored ID is returned.
func (s *Store) Record(ctx context.Context, search Search) (string, error) {
	if search.ID == "" {
		search.ID = NewID()
	} else if _, err := uuid.Parse(search.ID); err != nil {
		return "", fmt.Errorf("invalid search id %q: %w", search.ID, err)
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO searches (
            id, release, target, language, threshold, fingerprint, status, manifest_path, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		search.ID,
		search.Release,
		search.Target,
		search.Language,
		search.Threshold,
		search.Fingerprint,
		search.Status,
		search.ManifestPath,
		search.CreatedAt.UTC().Format(timestampLayout),
	); err != nil {
		return "", fmt.Errorf("insert search: %w", err)
	}

	for i, c := range search.Candidates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO candidates (search_id, position, provider, name, locator, score, accepted)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			search.ID, i, c.Provider, c.Name, c.Locator, c.Score, boolToInt(c.Accepted),
		); err != nil {
			return "", fmt.Errorf("insert candidate: %w", err)
		}
	}
	for _, pe := range search.Errors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO provider_errors (search_id, provider, message) VALUES (?, ?, ?)`,
			search.ID, pe.Provider, pe.Message,
		); err != nil {
			return "", fmt.Errorf("insert provider error: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit search: %w", err)
	}

	if s.keep > 0 {
		if _, err := s.Prune(ctx, s.keep); err != nil {
			return search.ID, err
		}
	}
	return search.ID, nil
}

// List returns up to limit searches, newest first. A non-positive limit
// returns every search.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `SELECT s.id, s.release, s.status, s.created_at,
            COALESCE(SUM(c.accepted), 0), COUNT(c.position)
        FROM searches s
        LEFT JOIN candidates c ON c.search_id = s.id
        GROUP BY s.id
        ORDER BY s.created_at DESC, s.rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			summary Summary
			created string
		)
		if err := rows.Scan(&summary.ID, &summary.Release, &summary.Status, &created, &summary.Accepted, &summary.Total); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		summary.CreatedAt = parseTime(created)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Get loads a search with its candidates. id may be a unique prefix.
func (s *Store) Get(ctx context.Context, id string) (*Search, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, release, target, language, threshold, fingerprint, status, manifest_path, created_at
         FROM searches WHERE id LIKE ? ESCAPE '\' LIMIT 2`,
		escapeLike(id)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("get search: %w", err)
	}
	var matches []*Search
	for rows.Next() {
		var (
			search  Search
			created string
		)
		if err := rows.Scan(&search.ID, &search.Release, &search.Target, &search.Language, &search.Threshold,
			&search.Fingerprint, &search.Status, &search.ManifestPath, &created); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan search: %w", err)
		}
		search.CreatedAt = parseTime(created)
		matches = append(matches, &search)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
	default:
		return nil, fmt.Errorf("search id prefix %q is ambiguous", id)
	}
	search := matches[0]
	if err := s.loadCandidates(ctx, search); err != nil {
		return nil, err
	}
	if err := s.loadErrors(ctx, search); err != nil {
		return nil, err
	}
	return search, nil
}

// Prune deletes all but the newest keep searches and reports how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM searches WHERE id NOT IN (
            SELECT id FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?
        )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune searches: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune searches: %w", err)
	}
	return removed, nil
}

func (s *Store) loadCandidates(ctx context.Context, search *Search) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider, name, locator, score, accepted FROM candidates
         WHERE search_id = ? ORDER BY position`, search.ID)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c        Candidate
			accepted int
		)
		if err := rows.Scan(&c.Provider, &c.Name, &c.Locator, &c.Score, &accepted); err != nil {
			return fmt.Errorf("scan candidate: %w", err)
		}
		c.Accepted = accepted != 0
		search.Candidates = append(search.Candidates, c)
	}
	return rows.Err()
}

func (s *Store) loadErrors(ctx context.Context, search *Search) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider, message FROM provider_errors WHERE search_id = ? ORDER BY rowid`, search.ID)
	if err != nil {
		return fmt.Errorf("load provider errors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pe ProviderError
		if err := rows.Scan(&pe.Provider, &pe.Message); err != nil {
			return fmt.Errorf("scan provider error: %w", err)
		}
		search.Errors = append(search.Errors, pe)
	}
	return rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timestampLayout, value)
	if err == nil {
		return t
	}
	if t, err = time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
