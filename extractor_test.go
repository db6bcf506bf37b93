package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(testSettings(t), NewConverter())
}

func TestExtractRoundTrip(t *testing.T) {
	full := newTestRecord("Writing Better Docs", "Content Strategy",
		"Docs are a **product**.\n\n## Start with the reader\n\n- who\n- why\n\nSee [the guide](https://example.com/guide).")
	full.SEOTitle = "Docs That Get Read"
	full.SEODescription = "How to write docs people read."
	full.SEOKeywords = "docs, writing"

	bare := newTestRecord("Short Note", "Tech", "Only one line & a symbol.")

	for _, rec := range []*ArticleRecord{full, bare} {
		t.Run(rec.Slug, func(t *testing.T) {
			page, err := NewRenderer(testSettings(t)).RenderArticlePage(rec, OperationCreate)
			require.NoError(t, err)

			got, err := newTestExtractor(t).Extract(string(page))
			require.NoError(t, err)

			opts := cmpopts.IgnoreFields(ArticleRecord{}, "Operation")
			if diff := cmp.Diff(rec, got, opts); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractUpdatedPage(t *testing.T) {
	rec := newTestRecord("Edited Piece", "Tech", "Body.")
	rec.DateModified = "2026-05-01T08:00:00Z"
	page, err := NewRenderer(testSettings(t)).RenderArticlePage(rec, OperationUpdate)
	require.NoError(t, err)

	got, err := newTestExtractor(t).Extract(string(page))
	require.NoError(t, err)
	assert.Equal(t, "Body.", got.Content)
	assert.Equal(t, "2026-03-14", got.PublishDate)
	assert.Equal(t, "2026-05-01T08:00:00Z", got.DateModified)
}

const legacyArticlePage = `<!DOCTYPE html>
<html>
<head>
  <title>Old Layout | Kevin Sundstrom</title>
  <link rel="canonical" href="https://kevinsundstrom.com/articles/tech/old-layout/">
  <script type="application/ld+json">
  {"@context": "https://schema.org", "@type": "Article", "headline": "Old Layout",
   "author": "Legacy Author", "datePublished": "2023-07-04", "articleSection": "Tech"}
  </script>
</head>
<body>
  <article>
    <h1>Old Layout</h1>
    <div class="meta">Published somewhere</div>
    <p>First paragraph.</p>
    <p>Second with <em>emphasis</em>.</p>
  </article>
</body>
</html>`

func TestExtractLegacyPage(t *testing.T) {
	got, err := newTestExtractor(t).Extract(legacyArticlePage)
	require.NoError(t, err)

	assert.Equal(t, "Old Layout", got.Title)
	assert.Equal(t, "Legacy Author", got.Author)
	assert.Equal(t, "Tech", got.Category)
	assert.Equal(t, "tech", got.CategorySlug)
	assert.Equal(t, "old-layout", got.Slug)
	assert.Equal(t, "articles/tech/old-layout", got.FullPath)
	assert.Equal(t, "2023-07-04", got.PublishDate)
	assert.Equal(t, "2023-07-04", got.DateCreated)
	assert.Equal(t, "First paragraph.\n\nSecond with *emphasis*.", got.Content)
}

func TestExtractMissingFields(t *testing.T) {
	got, err := newTestExtractor(t).Extract("<html><body><article><p>Only body</p></article></body></html>")
	require.NoError(t, err)

	assert.Empty(t, got.Title)
	assert.Empty(t, got.Author)
	assert.Empty(t, got.Category)
	assert.Empty(t, got.FullPath)
	assert.Equal(t, "Only body", got.Content)
}

func TestExtractErrors(t *testing.T) {
	for _, page := range []string{
		"",
		"<html><body><p>No article here</p></body></html>",
		"<html><body><article><p>never closed</p></body></html>",
	} {
		_, err := newTestExtractor(t).Extract(page)
		var extractErr *ExtractionError
		assert.True(t, errors.As(err, &extractErr), "page %q: got %v", page, err)
	}
}
