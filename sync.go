package synblog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eringen/synblog/syn"
)

// PostExt is the file extension of post sources.
const PostExt = ".syn"

// ImportDir loads every *.syn file in dir and upserts it as a published
// post whose slug is the slugified file name without extension. Blocks that
// fail to parse are reported to onDrop, which may be nil. A file that cannot
// be loaded, or whose name yields no slug, aborts the import.
func (s *Store) ImportDir(dir string, onDrop func(path, block string, err error)) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+PostExt))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, path := range paths {
		slug := Slugify(strings.TrimSuffix(filepath.Base(path), PostExt))
		if slug == "" {
			return n, fmt.Errorf("%s: file name has no usable slug", path)
		}
		doc, err := syn.LoadFileFunc(path, func(block string, err error) {
			if onDrop != nil {
				onDrop(path, block, err)
			}
		})
		if err != nil {
			return n, err
		}
		if err := s.SavePost(Post{Slug: slug, Published: true, Document: doc}); err != nil {
			return n, fmt.Errorf("save %s: %w", slug, err)
		}
		n++
	}
	return n, nil
}

// ExportDir writes every stored post, drafts included, to dir as
// <slug>.syn. Existing files are overwritten.
func (s *Store) ExportDir(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	posts, err := s.ListAllPosts()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, meta := range posts {
		p, err := s.GetPostAny(meta.Slug)
		if err != nil {
			return n, err
		}
		if err := syn.SaveFile(filepath.Join(dir, p.Slug+PostExt), p.Document); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
