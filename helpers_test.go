package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func testSettings(t *testing.T) *Settings {
	t.Helper()
	settings, err := loadSettings("")
	require.NoError(t, err)
	return settings
}

func testConfig(t *testing.T, root string) *Config {
	t.Helper()
	return &Config{Settings: testSettings(t), SiteRoot: root}
}

func newTestPublisher(t *testing.T, cfg *Config) *Publisher {
	t.Helper()
	p := NewPublisher(cfg, zaptest.NewLogger(t))
	p.now = func() time.Time { return testNow }
	p.indexes.now = p.now
	return p
}

func newTestRecord(title, category, content string) *ArticleRecord {
	rec := &ArticleRecord{
		Title:        title,
		Author:       "Kevin Sundstrom",
		Category:     category,
		Content:      content,
		PublishDate:  "2026-03-14",
		DateCreated:  "2026-03-14T09:30:00Z",
		DateModified: "2026-03-14T09:30:00Z",
		Operation:    OperationCreate,
	}
	rec.SetPaths()
	rec.ContentHTML = ToHTML(content)
	return rec
}

// writeTestArticle renders rec and stores it under root without touching listings
func writeTestArticle(t *testing.T, root string, rec *ArticleRecord) {
	t.Helper()
	page, err := NewRenderer(testSettings(t)).RenderArticlePage(rec, OperationCreate)
	require.NoError(t, err)
	writeTestFile(t, filepath.Join(root, filepath.FromSlash(rec.FullPath), "index.html"), string(page))
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
