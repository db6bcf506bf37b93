package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

const articleDataKey = "article-data"

// WriteArticleData emits the record as a single article-data=<json> output line
func WriteArticleData(w io.Writer, rec *ArticleRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding article data: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s=%s\n", articleDataKey, data); err != nil {
		return fmt.Errorf("writing article data: %w", err)
	}
	return nil
}

// WriteOutputFile appends the output line to the GitHub Actions output file,
// or writes it to stdout when path is empty.
func WriteOutputFile(path string, rec *ArticleRecord) error {
	if path == "" {
		return WriteArticleData(os.Stdout, rec)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	if err := WriteArticleData(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DecodeArticleData parses a record handed over by a previous step. It accepts
// the bare JSON object as well as a full article-data=<json> line.
func DecodeArticleData(raw string) (*ArticleRecord, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, articleDataKey+"=")
	if raw == "" {
		return nil, &MissingFieldError{Field: "ARTICLE_DATA"}
	}

	var rec ArticleRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decoding article data: %w", err)
	}
	if rec.Title == "" {
		return nil, &MissingFieldError{Field: fieldTitle}
	}
	if rec.FullPath == "" || rec.URL == "" {
		rec.SetPaths()
	}
	return &rec, nil
}
