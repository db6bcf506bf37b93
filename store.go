package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ArticleStore reads and writes article pages inside the site checkout
type ArticleStore struct {
	root   string
	logger *zap.Logger
}

// NewArticleStore creates a store rooted at the site checkout
func NewArticleStore(root string, logger *zap.Logger) *ArticleStore {
	return &ArticleStore{root: root, logger: logger}
}

// Path returns the on-disk path for a site-relative path like articles/tech/foo
func (s *ArticleStore) Path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Read returns the article page stored under fullPath
func (s *ArticleStore) Read(fullPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.Path(fullPath), "index.html"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Ref: fullPath, Path: filepath.Join(fullPath, "index.html")}
		}
		return "", fmt.Errorf("reading article %s: %w", fullPath, err)
	}
	return string(data), nil
}

// Write stores the page at {fullPath}/index.html. When the record moved, the new
// copy is written before the old directory is removed, so at least one copy
// exists on disk at every point.
func (s *ArticleStore) Write(rec *ArticleRecord, page []byte) (string, error) {
	target := filepath.Join(s.Path(rec.FullPath), "index.html")
	if err := writeFileAtomic(target, page); err != nil {
		return "", fmt.Errorf("writing article: %w", err)
	}
	s.logger.Info("wrote article", zap.String("path", target))

	if rec.PathChanged && rec.OldFullPath != "" && rec.OldFullPath != rec.FullPath {
		old := s.Path(rec.OldFullPath)
		if err := os.RemoveAll(old); err != nil {
			return target, fmt.Errorf("removing old article directory %s: %w", old, err)
		}
		s.logger.Info("removed old article directory", zap.String("path", old))
		s.removeIfEmpty(filepath.Dir(old))
	}
	return target, nil
}

// removeIfEmpty drops a category directory left without articles or listing page.
func (s *ArticleStore) removeIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(dir); err == nil {
		s.logger.Debug("removed empty category directory", zap.String("path", dir))
	}
}

// writeFileAtomic writes through a temp file in the same directory and renames
// it into place, creating parent directories as needed.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // Clean up temp file

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
