package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docgraph/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
)

// DatabaseFile is the name of the database inside the data directory.
const DatabaseFile = "docgraph.db"

// Ensure Store implements the interfaces.
var (
	_ driven.DocumentStore  = (*Store)(nil)
	_ driven.ReadWriteStore = (*Store)(nil)
)

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.docgraph/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docgraph", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets readers proceed while the importer writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_documents.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// SaveDocument stores or updates a document.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	tagsJSON, err := json.Marshal(nonNil(doc.Tags))
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, uri, title, content, tags, group_path, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			title = excluded.title,
			content = excluded.content,
			tags = excluded.tags,
			group_path = excluded.group_path,
			created_at = COALESCE(documents.created_at, excluded.created_at),
			modified_at = excluded.modified_at
	`, doc.ID, doc.URI, doc.Title, doc.Content, string(tagsJSON),
		domain.CleanGroupPath(doc.GroupPath), nullTime(doc.CreatedAt), nullTime(doc.ModifiedAt))

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, uri, title, content, tags, group_path, created_at, modified_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// DeleteDocument removes a document.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// Search returns summaries of documents whose title, content or tags
// contain every query term, ordered by ID. Query terms and the group
// constraint are evaluated in SQL; tag and time constraints afterwards.
func (s *Store) Search(ctx context.Context, query string, constraints domain.SearchConstraints) ([]domain.DocumentSummary, error) {
	var (
		where []string
		args  []any
	)
	for _, term := range domain.QueryTerms(query) {
		where = append(where, `LOWER(title || ' ' || content || ' ' || tags) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(term)+"%")
	}
	if group := domain.CleanGroupPath(constraints.Group); group != "" {
		where = append(where, `(group_path = ? OR group_path LIKE ? ESCAPE '\')`)
		args = append(args, group, escapeLike(group)+"/%")
	}

	q := "SELECT id, title, tags, group_path, created_at, modified_at FROM documents"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	results := make([]domain.DocumentSummary, 0)
	for rows.Next() {
		var (
			doc      domain.Document
			tagsJSON string
			created  sql.NullTime
			modified sql.NullTime
		)
		if err := rows.Scan(&doc.ID, &doc.Title, &tagsJSON, &doc.GroupPath, &created, &modified); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if err := decodeTags(tagsJSON, &doc); err != nil {
			return nil, err
		}
		doc.CreatedAt = fromNull(created)
		doc.ModifiedAt = fromNull(modified)

		if !constraints.Matches(&doc) {
			continue
		}
		results = append(results, doc.Summary())
		if constraints.Limit > 0 && len(results) == constraints.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return results, nil
}

// ListGroups returns the group hierarchy with document counts.
func (s *Store) ListGroups(ctx context.Context) ([]domain.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_path, COUNT(*) FROM documents
		WHERE group_path != '' GROUP BY group_path
	`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var path string
		var n int
		if err := rows.Scan(&path, &n); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		counts[path] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}
	return domain.BuildGroupTree(counts), nil
}

// ListURIs maps ID to URI for documents whose URI starts with prefix.
func (s *Store) ListURIs(ctx context.Context, prefix string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uri FROM documents WHERE uri != '' AND uri LIKE ? ESCAPE '\'`,
		escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("listing uris: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, uri string
		if err := rows.Scan(&id, &uri); err != nil {
			return nil, fmt.Errorf("scanning uri: %w", err)
		}
		// LIKE is case-insensitive for ASCII.
		if strings.HasPrefix(uri, prefix) {
			out[id] = uri
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating uris: %w", err)
	}
	return out, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var (
		doc      domain.Document
		tagsJSON string
		created  sql.NullTime
		modified sql.NullTime
	)
	if err := row.Scan(&doc.ID, &doc.URI, &doc.Title, &doc.Content, &tagsJSON,
		&doc.GroupPath, &created, &modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if err := decodeTags(tagsJSON, &doc); err != nil {
		return nil, err
	}
	doc.CreatedAt = fromNull(created)
	doc.ModifiedAt = fromNull(modified)
	return &doc, nil
}

func decodeTags(tagsJSON string, doc *domain.Document) error {
	if tagsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
		return fmt.Errorf("unmarshalling tags of %s: %w", doc.ID, err)
	}
	if len(doc.Tags) == 0 {
		doc.Tags = nil
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func fromNull(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// escapeLike escapes LIKE wildcards with a backslash.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
