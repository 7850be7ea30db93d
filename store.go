package synblog

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/eringen/synblog/syn"
)

// Store wraps a SQLite database and provides CRUD operations for posts and
// uploaded images. Posts are kept in their syn wire form; title, posted
// time and tags are copied into columns for ordering and filtering.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during a write; busy_timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    posted INTEGER NOT NULL,
    tags TEXT NOT NULL,
    source TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS posts_posted ON posts (posted DESC);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// ListPosts returns all published posts ordered by posted time descending.
// If tag is non-empty, results are filtered to posts containing that tag.
// Only the header of each post is decoded.
func (s *Store) ListPosts(tag string) ([]Post, error) {
	if tag == "" {
		return s.queryPosts(`SELECT slug, source, published FROM posts WHERE published = 1 ORDER BY posted DESC, slug`)
	}
	return s.queryPosts(`SELECT slug, source, published FROM posts WHERE published = 1 AND instr(tags, ',' || ? || ',') > 0 ORDER BY posted DESC, slug`, normalizeTag(tag))
}

// ListAllPosts returns every post (published and drafts) ordered by posted
// time descending. Only the header of each post is decoded.
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.queryPosts(`SELECT slug, source, published FROM posts ORDER BY posted DESC, slug`)
}

func (s *Store) queryPosts(query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var slug, source string
		var published int
		if err := rows.Scan(&slug, &source, &published); err != nil {
			return nil, err
		}
		doc, err := syn.ParseMetadata(strings.NewReader(source))
		if err != nil {
			return nil, fmt.Errorf("post %s: %w", slug, err)
		}
		posts = append(posts, Post{Slug: slug, Published: published == 1, Document: doc})
	}
	return posts, rows.Err()
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE published = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post by slug with its full body.
func (s *Store) GetPost(slug string) (Post, error) {
	return s.getPost(`SELECT source, published FROM posts WHERE slug = ? AND published = 1`, slug)
}

// GetPostAny returns a post by slug regardless of published status (for admin).
func (s *Store) GetPostAny(slug string) (Post, error) {
	return s.getPost(`SELECT source, published FROM posts WHERE slug = ?`, slug)
}

func (s *Store) getPost(query, slug string) (Post, error) {
	var source string
	var published int
	if err := s.db.QueryRow(query, slug).Scan(&source, &published); err != nil {
		return Post{}, err
	}
	doc, err := syn.Parse(strings.NewReader(source))
	if err != nil {
		return Post{}, fmt.Errorf("post %s: %w", slug, err)
	}
	return Post{Slug: slug, Published: published == 1, Document: doc}, nil
}

// SavePost upserts a post. The tag index is normalized to lowercase; the
// stored source keeps tags as written.
func (s *Store) SavePost(p Post) error {
	if p.Document == nil {
		return fmt.Errorf("post %s: no document", p.Slug)
	}
	normalizedTags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = normalizeTag(t); t != "" {
			normalizedTags = append(normalizedTags, t)
		}
	}
	tagString := "," + strings.Join(normalizedTags, ",") + ","
	published := 0
	if p.Published {
		published = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO posts (slug, title, posted, tags, source, published) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, postedKey(p.Posted), tagString, p.String(), published)
	return err
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE slug = ?`, slug)
	return err
}

// SaveImage records an uploaded image.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns all images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// HasImage reports whether an image with filename is recorded.
func (s *Store) HasImage(filename string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM images WHERE filename = ?`, filename).Scan(&n)
	return n > 0, err
}

// DeleteImage removes an image record.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// postedKey maps a posted time onto the signed SQLite integer range.
func postedKey(posted uint64) int64 {
	if posted > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(posted)
}
