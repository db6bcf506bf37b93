package main

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Locator resolves user-supplied article references to article directories
type Locator struct {
	root string
}

// NewLocator creates a locator over the site checkout at root
func NewLocator(root string) *Locator {
	return &Locator{root: root}
}

// Locate accepts a bare slug, a category/slug path or a full article URL and
// returns the article directory relative to the site root, e.g. articles/tech/foo.
//
// A bare slug is searched depth-first and the first directory in lexical order
// wins, so a slug used in two categories resolves to the alphabetically first one.
func (l *Locator) Locate(ref string) (string, error) {
	normalized := strings.Trim(stripSiteURL(ref), "/")
	if normalized == "" {
		return "", &NotFoundError{Ref: ref}
	}

	if !strings.Contains(normalized, "/") {
		return l.searchSlug(ref, normalized)
	}

	rel := path.Clean(normalized)
	if !strings.HasPrefix(rel, articlesDir+"/") {
		rel = path.Join(articlesDir, rel)
	}
	if strings.HasPrefix(rel, "..") {
		return "", &NotFoundError{Ref: ref, Path: rel}
	}

	if !l.hasArticle(rel) {
		return "", &NotFoundError{Ref: ref, Path: path.Join(rel, "index.html")}
	}
	return rel, nil
}

// ArticleFile returns the index.html path on disk for a located article directory
func (l *Locator) ArticleFile(rel string) string {
	return filepath.Join(l.root, filepath.FromSlash(rel), "index.html")
}

func (l *Locator) hasArticle(rel string) bool {
	info, err := os.Stat(l.ArticleFile(rel))
	return err == nil && !info.IsDir()
}

var errFound = errors.New("found")

func (l *Locator) searchSlug(ref, slug string) (string, error) {
	treeRoot := filepath.Join(l.root, articlesDir)
	var found string

	err := filepath.WalkDir(treeRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on errors
		}
		if !d.IsDir() || p == treeRoot {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		// articles/{category}/{slug} is as deep as articles go
		depth := strings.Count(rel, "/")
		if depth > 2 {
			return filepath.SkipDir
		}
		if depth < 2 || d.Name() != slug || !l.hasArticle(rel) {
			return nil
		}
		found = rel
		return errFound
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", err
	}

	if found == "" {
		return "", &NotFoundError{Ref: ref}
	}
	return found, nil
}
