package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	entrySelector = "article.article-item"
	listSelector  = ".article-list"
	gridSelector  = ".categories-grid"
)

// Excerpt returns the plain text of an HTML fragment, whitespace collapsed and
// cut to at most n runes followed by "...".
func Excerpt(fragment string, n int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var parts []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if text == "" {
		text = strings.Join(strings.Fields(doc.Text()), " ")
	}

	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// NewIndexEntry builds the listing summary of a record
func NewIndexEntry(rec *ArticleRecord) IndexEntry {
	excerpt := rec.SEODescription
	if excerpt == "" {
		body := rec.ContentHTML
		if body == "" {
			body = ToHTML(rec.Content)
		}
		excerpt = Excerpt(body, excerptLength)
	}
	return IndexEntry{
		Title:       rec.Title,
		URL:         rec.URL,
		Author:      rec.Author,
		Date:        formatDisplayDate(rec.PublishDate),
		Category:    rec.Category,
		CategoryURL: rec.CategoryURL(),
		Excerpt:     excerpt,
	}
}

// IndexSynchronizer keeps the site-wide and per-category listing pages in
// step with published articles
type IndexSynchronizer struct {
	root     string
	settings *Settings
	renderer *Renderer
	counter  *CategoryCounter
	logger   *zap.Logger
	now      func() time.Time
}

// NewIndexSynchronizer creates a synchronizer for the site checkout at root
func NewIndexSynchronizer(root string, settings *Settings, renderer *Renderer, counter *CategoryCounter, logger *zap.Logger) *IndexSynchronizer {
	return &IndexSynchronizer{
		root:     root,
		settings: settings,
		renderer: renderer,
		counter:  counter,
		logger:   logger,
		now:      time.Now,
	}
}

// Sync reconciles listing pages with rec after its article file was written.
// It returns the listing files it wrote. A page without any of its anchors is
// not rewritten and a warning is logged.
func (s *IndexSynchronizer) Sync(rec *ArticleRecord) ([]string, error) {
	entry, err := s.renderer.RenderEntry(NewIndexEntry(rec))
	if err != nil {
		return nil, err
	}
	urls := []string{rec.URL}
	if rec.OldURL != "" && rec.OldURL != rec.URL {
		urls = append(urls, rec.OldURL)
	}

	var written []string

	// Site-wide listing and category cards
	indexPath := s.indexPath()
	doc, err := s.loadOrCreate(indexPath, func() ([]byte, error) {
		return s.renderer.RenderIndexPage(s.now())
	})
	if err != nil {
		return nil, err
	}
	list := doc.Find(listSelector).First()
	if list.Length() > 0 {
		upsertEntry(list, entry, urls, s.settings.ListingLimit)
	} else {
		s.logger.Warn("site index has no article list, skipping", zap.String("path", indexPath))
	}
	grid := doc.Find(gridSelector).First()
	if grid.Length() > 0 {
		if err := s.fillGrid(grid); err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("site index has no categories grid, skipping", zap.String("path", indexPath))
	}
	if list.Length() > 0 || grid.Length() > 0 {
		if err := saveDocument(indexPath, doc); err != nil {
			return nil, err
		}
		written = append(written, indexPath)
	}

	// Category listing
	categoryPath := s.categoryPath(rec.CategorySlug)
	doc, err = s.loadOrCreate(categoryPath, func() ([]byte, error) {
		return s.renderer.RenderCategoryPage(rec.Category, rec.CategorySlug, s.now())
	})
	if err != nil {
		return nil, err
	}
	if list := doc.Find(listSelector).First(); list.Length() > 0 {
		upsertEntry(list, entry, urls, 0)
		if err := saveDocument(categoryPath, doc); err != nil {
			return nil, err
		}
		written = append(written, categoryPath)
	} else {
		s.logger.Warn("category index has no article list, skipping", zap.String("path", categoryPath))
	}

	// Entry left behind on the previous category page
	if rec.PathChanged && rec.OldCategorySlug != "" && rec.OldCategorySlug != rec.CategorySlug {
		oldPath := s.categoryPath(rec.OldCategorySlug)
		removed, err := s.removeEntry(oldPath, urls)
		if err != nil {
			return nil, err
		}
		if removed {
			written = append(written, oldPath)
		}
	}

	s.logger.Info("synchronized listings",
		zap.String("url", rec.URL),
		zap.Int("files", len(written)),
	)
	return written, nil
}

// RefreshCategoryCards rebuilds only the categories grid of the site index
func (s *IndexSynchronizer) RefreshCategoryCards() (string, error) {
	indexPath := s.indexPath()
	doc, err := s.loadOrCreate(indexPath, func() ([]byte, error) {
		return s.renderer.RenderIndexPage(s.now())
	})
	if err != nil {
		return "", err
	}
	grid := doc.Find(gridSelector).First()
	if grid.Length() == 0 {
		s.logger.Warn("site index has no categories grid, skipping", zap.String("path", indexPath))
		return "", nil
	}
	if err := s.fillGrid(grid); err != nil {
		return "", err
	}
	if err := saveDocument(indexPath, doc); err != nil {
		return "", err
	}
	return indexPath, nil
}

func (s *IndexSynchronizer) fillGrid(grid *goquery.Selection) error {
	counts, err := s.counter.Count()
	if err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	var b strings.Builder
	for _, c := range counts {
		card, err := s.renderer.RenderCategoryCard(c)
		if err != nil {
			return err
		}
		b.WriteString("\n")
		b.WriteString(card)
	}
	b.WriteString("\n")
	grid.SetHtml(b.String())
	s.logger.Debug("rebuilt category cards", zap.Int("categories", len(counts)))
	return nil
}

func (s *IndexSynchronizer) removeEntry(path string, urls []string) (bool, error) {
	doc, err := loadDocument(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	items := doc.Find(entrySelector).FilterFunction(func(_ int, item *goquery.Selection) bool {
		return entryMatches(item, urls)
	})
	if items.Length() == 0 {
		return false, nil
	}
	items.Remove()
	if err := saveDocument(path, doc); err != nil {
		return false, err
	}
	s.logger.Info("removed entry from previous category", zap.String("path", path))
	return true, nil
}

func (s *IndexSynchronizer) indexPath() string {
	return filepath.Join(s.root, articlesDir, "index.html")
}

func (s *IndexSynchronizer) categoryPath(categorySlug string) string {
	return filepath.Join(s.root, articlesDir, categorySlug, "index.html")
}

func (s *IndexSynchronizer) loadOrCreate(path string, skeleton func() ([]byte, error)) (*goquery.Document, error) {
	doc, err := loadDocument(path)
	if err == nil {
		return doc, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	page, err := skeleton()
	if err != nil {
		return nil, err
	}
	s.logger.Info("creating listing page", zap.String("path", path))
	return goquery.NewDocumentFromReader(strings.NewReader(string(page)))
}

// upsertEntry replaces the first entry linking to any of urls and drops any
// further duplicates. Without a match the entry is prepended and, when limit is
// positive, the list is trimmed to limit entries.
func upsertEntry(list *goquery.Selection, entry string, urls []string, limit int) {
	matched := false
	list.Find(entrySelector).Each(func(_ int, item *goquery.Selection) {
		if !entryMatches(item, urls) {
			return
		}
		if matched {
			item.Remove()
			return
		}
		item.ReplaceWithHtml(entry)
		matched = true
	})
	if matched {
		return
	}

	list.PrependHtml("\n" + entry)
	if items := list.Find(entrySelector); limit > 0 && items.Length() > limit {
		items.Slice(limit, goquery.ToEnd).Remove()
	}
}

// entryMatches reports whether any link in a listing block points at one of urls
func entryMatches(item *goquery.Selection, urls []string) bool {
	found := false
	item.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := normalizeArticleURL(a.AttrOr("href", ""))
		for _, u := range urls {
			if href == normalizeArticleURL(u) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// entryCount returns the number of listing blocks on a page
func entryCount(doc *goquery.Document) int {
	return doc.Find(listSelector).First().Find(entrySelector).Length()
}

func loadDocument(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

func saveDocument(path string, doc *goquery.Document) error {
	out, err := doc.Html()
	if err != nil {
		return fmt.Errorf("serializing %s: %w", path, err)
	}
	if err := writeFileAtomic(path, []byte(out)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
