package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCategoryCounterCount(t *testing.T) {
	root := t.TempDir()
	for _, rec := range []*ArticleRecord{
		newTestRecord("One", "Tech", "1."),
		newTestRecord("Two", "Tech", "2."),
		newTestRecord("Palette", "Visual Design", "3."),
	} {
		writeTestArticle(t, root, rec)
	}
	// Listing pages and stray files are not articles
	writeTestFile(t, filepath.Join(root, "articles", "tech", "index.html"), `<div class="article-list"></div>`)
	writeTestFile(t, filepath.Join(root, "articles", "notes.txt"), "scratch")
	writeTestFile(t, filepath.Join(root, "articles", "tech", "broken", "index.html"), "<p>not an article</p>")

	counter := NewCategoryCounter(root, newTestExtractor(t), zaptest.NewLogger(t))
	counts, err := counter.Count()
	require.NoError(t, err)

	assert.Equal(t, []CategoryCount{
		{Name: "Tech", Slug: "tech", Count: 2},
		{Name: "Visual Design", Slug: "visual-design", Count: 1},
	}, counts)
}

func TestCategoryCounterEmptyTree(t *testing.T) {
	counter := NewCategoryCounter(t.TempDir(), newTestExtractor(t), zaptest.NewLogger(t))
	counts, err := counter.Count()
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestCategoryCounterUsesDirectoryNames(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "articles", "content-strategy", "moved-by-hand", "index.html"), legacyArticlePage)

	records, err := NewCategoryCounter(root, newTestExtractor(t), zaptest.NewLogger(t)).Scan()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "content-strategy", records[0].CategorySlug)
	assert.Equal(t, "moved-by-hand", records[0].Slug)
	assert.Equal(t, "/articles/content-strategy/moved-by-hand/", records[0].URL)
	assert.Equal(t, "Tech", records[0].Category)
}

func TestTitleFromSlug(t *testing.T) {
	assert.Equal(t, "Content Strategy", titleFromSlug("content-strategy"))
	assert.Equal(t, "Tech", titleFromSlug("tech"))
}

func TestRebuild(t *testing.T) {
	root := t.TempDir()
	s := newTestSynchronizer(t, root, zaptest.NewLogger(t))

	dates := []string{"2026-01-01", "2026-01-03", "2026-01-02", "2025-12-31", "2026-01-05", "2026-01-04"}
	var recs []*ArticleRecord
	for i, title := range []string{"A", "B", "C", "D", "E", "F"} {
		category := "Tech"
		if i%2 == 1 {
			category = "Design"
		}
		rec := newTestRecord("Post "+title, category, "Body "+title+".")
		rec.PublishDate = dates[i]
		recs = append(recs, rec)
		writeTestArticle(t, root, rec)
	}
	// A stale site index listing an article that no longer exists
	stale := newTestRecord("Gone", "Tech", "Deleted.")
	_, err := s.Sync(stale)
	require.NoError(t, err)

	files, err := s.Rebuild()
	require.NoError(t, err)
	assert.Len(t, files, 3)

	site := listedURLs(t, filepath.Join(root, "articles", "index.html"))
	assert.Equal(t, []string{recs[4].URL, recs[5].URL, recs[1].URL, recs[2].URL, recs[0].URL}, site)

	assert.Equal(t, []string{recs[5].URL, recs[1].URL, recs[3].URL},
		listedURLs(t, filepath.Join(root, "articles", "design", "index.html")))
	assert.Equal(t, []string{recs[4].URL, recs[2].URL, recs[0].URL},
		listedURLs(t, filepath.Join(root, "articles", "tech", "index.html")))

	counts := loadTestDocument(t, filepath.Join(root, "articles", "index.html")).Find(".category-count")
	require.Equal(t, 2, counts.Length())
	assert.Equal(t, "3 articles", counts.Eq(0).Text())
	assert.Equal(t, "3 articles", counts.Eq(1).Text())
}
