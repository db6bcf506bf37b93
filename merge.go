package main

import "time"

// MergeEdit applies an edit request to an existing record and returns the new record.
//
// Every provided field replaces the stored value whole. In particular new
// content replaces the entire body; nothing of the old body survives. A
// changed title or category re-derives slug and paths, and when the location
// moves the previous one is kept so the article can be moved rather than copied.
func MergeEdit(existing *ArticleRecord, req *EditRequest, now time.Time) *ArticleRecord {
	merged := *existing
	merged.Operation = OperationUpdate
	merged.PathChanged = false
	merged.OldFullPath = ""
	merged.OldURL = ""
	merged.OldCategorySlug = ""
	merged.EditNotes = ""

	if req.NewContent != nil {
		merged.Content = *req.NewContent
		merged.ContentHTML = ToHTML(merged.Content)
	}
	if req.NewAuthor != nil {
		merged.Author = *req.NewAuthor
	}
	if req.NewSEOTitle != nil {
		merged.SEOTitle = *req.NewSEOTitle
	}
	if req.NewSEODescription != nil {
		merged.SEODescription = *req.NewSEODescription
	}
	if req.NewSEOKeywords != nil {
		merged.SEOKeywords = *req.NewSEOKeywords
	}
	if req.EditNotes != nil {
		merged.EditNotes = *req.EditNotes
	}

	titleChanged := req.NewTitle != nil && *req.NewTitle != existing.Title
	categoryChanged := req.NewCategory != nil && *req.NewCategory != existing.Category
	if titleChanged {
		merged.Title = *req.NewTitle
	}
	if categoryChanged {
		merged.Category = *req.NewCategory
	}

	if titleChanged || categoryChanged {
		merged.SetPaths()
		if merged.FullPath != existing.FullPath {
			merged.PathChanged = true
			merged.OldFullPath = existing.FullPath
			merged.OldURL = existing.URL
			merged.OldCategorySlug = existing.CategorySlug
		}
	}

	merged.DateModified = now.UTC().Format(time.RFC3339)
	return &merged
}
