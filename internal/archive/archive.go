// Package archive keeps a local history of every post a session has
// briefed, in SQLite. Feed state files only retain IDs; the archive
// retains the posts themselves so old items stay searchable after they
// fall out of the feed.
package archive

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/micheloosterhof/moltbook/internal/feed"
	"github.com/micheloosterhof/moltbook/internal/state"
)

// Archive handles all database operations
type Archive struct {
	db *sql.DB
}

// DefaultPath returns the archive location inside the state directory
func DefaultPath() string {
	return state.Resolve("archive.db")
}

// Open creates or opens the archive at dbPath
func Open(dbPath string) (*Archive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return a, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}

// migrate creates the database schema
func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT,
		submolt TEXT,
		upvotes INTEGER,
		comment_count INTEGER,
		created_at TEXT,
		source TEXT,
		first_seen_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author);
	CREATE INDEX IF NOT EXISTS idx_posts_submolt ON posts(submolt);
	CREATE INDEX IF NOT EXISTS idx_posts_first_seen ON posts(first_seen_at);
	`

	_, err := a.db.Exec(schema)
	return err
}

// SavePosts inserts or updates posts from one source. Vote and comment
// counts are refreshed on conflict; first_seen_at keeps its original
// value.
func (a *Archive) SavePosts(posts []*feed.Post, source string) error {
	now := time.Now().UTC()
	for _, p := range posts {
		if p.ID == "" {
			continue
		}
		_, err := a.db.Exec(`
			INSERT INTO posts (id, title, author, submolt, upvotes, comment_count, created_at, source, first_seen_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				upvotes = excluded.upvotes,
				comment_count = excluded.comment_count
		`, p.ID, p.Title, p.AuthorName(), p.SubmoltName(), p.Upvotes, p.CommentCount, p.CreatedAt, source, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// Entry is one archived post
type Entry struct {
	ID           string
	Title        string
	Author       string
	Submolt      string
	Upvotes      int
	CommentCount int
	CreatedAt    string
	Source       string
	FirstSeenAt  time.Time
}

// Recent returns the most recently archived posts, newest first
func (a *Archive) Recent(limit int) ([]Entry, error) {
	rows, err := a.db.Query(`
		SELECT id, title, author, submolt, upvotes, comment_count, created_at, source, first_seen_at
		FROM posts
		ORDER BY first_seen_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ByAuthor returns archived posts by one author, newest first
func (a *Archive) ByAuthor(author string, limit int) ([]Entry, error) {
	rows, err := a.db.Query(`
		SELECT id, title, author, submolt, upvotes, comment_count, created_at, source, first_seen_at
		FROM posts
		WHERE author = ?
		ORDER BY first_seen_at DESC, id
		LIMIT ?
	`, author, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the number of archived posts
func (a *Archive) Count() (int, error) {
	var n int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.ID, &e.Title, &e.Author, &e.Submolt, &e.Upvotes,
			&e.CommentCount, &e.CreatedAt, &e.Source, &e.FirstSeenAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
