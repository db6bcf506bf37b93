package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// CategoryCounter scans the article tree on disk. Listing pages are derived
// data; the tree is the source of truth for counts and rebuilds.
type CategoryCounter struct {
	root      string
	extractor *Extractor
	logger    *zap.Logger
}

// NewCategoryCounter creates a counter over the site checkout at root
func NewCategoryCounter(root string, extractor *Extractor, logger *zap.Logger) *CategoryCounter {
	return &CategoryCounter{root: root, extractor: extractor, logger: logger}
}

// Scan extracts every article stored at articles/{category}/{slug}/index.html.
// Slugs and paths come from the directory names. Pages that are listings or
// cannot be extracted are skipped with a warning.
func (c *CategoryCounter) Scan() ([]*ArticleRecord, error) {
	treeRoot := filepath.Join(c.root, articlesDir)
	categories, err := os.ReadDir(treeRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", treeRoot, err)
	}

	var records []*ArticleRecord
	for _, cat := range categories {
		if !cat.IsDir() {
			continue
		}
		articles, err := os.ReadDir(filepath.Join(treeRoot, cat.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading category %s: %w", cat.Name(), err)
		}
		for _, a := range articles {
			if !a.IsDir() {
				continue
			}
			rec, err := c.read(cat.Name(), a.Name())
			if err != nil {
				return nil, err
			}
			if rec != nil {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

func (c *CategoryCounter) read(categorySlug, slug string) (*ArticleRecord, error) {
	file := filepath.Join(c.root, articlesDir, categorySlug, slug, "index.html")
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	page := string(data)
	if strings.Contains(page, `class="article-list"`) || strings.Contains(page, `class="categories-grid"`) {
		return nil, nil
	}

	rec, err := c.extractor.Extract(page)
	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		c.logger.Warn("skipping unrecognized article page", zap.String("path", file), zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", file, err)
	}

	rec.CategorySlug = categorySlug
	rec.Slug = slug
	rec.URL = articleURL(categorySlug, slug)
	rec.RelativePath = rec.URL
	rec.FullPath = articleFullPath(categorySlug, slug)
	if rec.Category == "" {
		rec.Category = titleFromSlug(categorySlug)
	}
	return rec, nil
}

// Count returns one entry per category directory holding at least one article,
// ordered by category slug. The display name is taken from the first article.
func (c *CategoryCounter) Count() ([]CategoryCount, error) {
	records, err := c.Scan()
	if err != nil {
		return nil, err
	}
	var counts []CategoryCount
	for _, rec := range records {
		if n := len(counts); n > 0 && counts[n-1].Slug == rec.CategorySlug {
			counts[n-1].Count++
			continue
		}
		counts = append(counts, CategoryCount{Name: rec.Category, Slug: rec.CategorySlug, Count: 1})
	}
	return counts, nil
}

// titleFromSlug turns content-strategy into Content Strategy
func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// sortByPublishDate orders records newest first. Equal dates keep tree order.
func sortByPublishDate(records []*ArticleRecord) {
	slices.SortStableFunc(records, func(a, b *ArticleRecord) int {
		return cmp.Compare(b.PublishDate, a.PublishDate)
	})
}

// Rebuild regenerates every listing from the article tree: the site-wide list
// holds the most recent articles, each category page all of its articles, and
// the grid one card per category. It returns the files written.
func (s *IndexSynchronizer) Rebuild() ([]string, error) {
	records, err := s.counter.Scan()
	if err != nil {
		return nil, err
	}
	sortByPublishDate(records)

	var written []string

	recent := records
	if limit := s.settings.ListingLimit; limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	indexPath := s.indexPath()
	doc, err := s.loadOrCreate(indexPath, func() ([]byte, error) {
		return s.renderer.RenderIndexPage(s.now())
	})
	if err != nil {
		return nil, err
	}
	if list := doc.Find(listSelector).First(); list.Length() > 0 {
		html, err := s.renderEntries(recent)
		if err != nil {
			return nil, err
		}
		list.SetHtml(html)
	} else {
		s.logger.Warn("site index has no article list, skipping", zap.String("path", indexPath))
	}
	if grid := doc.Find(gridSelector).First(); grid.Length() > 0 {
		if err := s.fillGrid(grid); err != nil {
			return nil, err
		}
	}
	if err := saveDocument(indexPath, doc); err != nil {
		return nil, err
	}
	written = append(written, indexPath)
	s.logger.Info("rebuilt site index", zap.Int("entries", entryCount(doc)))

	byCategory := make(map[string][]*ArticleRecord)
	var order []string
	for _, rec := range records {
		if _, ok := byCategory[rec.CategorySlug]; !ok {
			order = append(order, rec.CategorySlug)
		}
		byCategory[rec.CategorySlug] = append(byCategory[rec.CategorySlug], rec)
	}
	slices.Sort(order)

	for _, slug := range order {
		group := byCategory[slug]
		path := s.categoryPath(slug)
		doc, err := s.loadOrCreate(path, func() ([]byte, error) {
			return s.renderer.RenderCategoryPage(group[0].Category, slug, s.now())
		})
		if err != nil {
			return nil, err
		}
		list := doc.Find(listSelector).First()
		if list.Length() == 0 {
			s.logger.Warn("category index has no article list, skipping", zap.String("path", path))
			continue
		}
		html, err := s.renderEntries(group)
		if err != nil {
			return nil, err
		}
		list.SetHtml(html)
		if err := saveDocument(path, doc); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (s *IndexSynchronizer) renderEntries(records []*ArticleRecord) (string, error) {
	var b strings.Builder
	for _, rec := range records {
		entry, err := s.renderer.RenderEntry(NewIndexEntry(rec))
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(entry)
	}
	b.WriteString("\n")
	return b.String(), nil
}
