package main

import (
	"regexp"
	"strings"
	"time"
)

// formField maps a heading key phrase to a field name. Matching is a
// case-sensitive substring test and the first matching phrase wins.
type formField struct {
	phrase string
	name   string
}

// Field names produced by the parsers
const (
	fieldTitle          = "title"
	fieldSEOTitle       = "seoTitle"
	fieldSEODescription = "seoDescription"
	fieldSEOKeywords    = "seoKeywords"
	fieldAuthor         = "author"
	fieldCategory       = "category"
	fieldContent        = "content"
	fieldPublishDate    = "publishDate"

	fieldArticleURL        = "articleUrl"
	fieldNewTitle          = "newTitle"
	fieldNewContent        = "newContent"
	fieldNewAuthor         = "newAuthor"
	fieldNewSEOTitle       = "newSeoTitle"
	fieldNewSEODescription = "newSeoDescription"
	fieldNewSEOKeywords    = "newSeoKeywords"
	fieldNewCategory       = "newCategory"
	fieldEditNotes         = "editNotes"
)

var newArticleFields = []formField{
	{"SEO Title", fieldSEOTitle},
	{"SEO Description", fieldSEODescription},
	{"Meta Description", fieldSEODescription},
	{"SEO Keywords", fieldSEOKeywords},
	{"Keywords", fieldSEOKeywords},
	{"Article Title", fieldTitle},
	{"Article Content", fieldContent},
	{"Publish Date", fieldPublishDate},
	{"Author", fieldAuthor},
	{"Category", fieldCategory},
}

var editArticleFields = []formField{
	{"Article URL", fieldArticleURL},
	{"Article to Edit", fieldArticleURL},
	{"New SEO Title", fieldNewSEOTitle},
	{"New SEO Description", fieldNewSEODescription},
	{"New SEO Keywords", fieldNewSEOKeywords},
	{"New Title", fieldNewTitle},
	{"New Content", fieldNewContent},
	{"Article Content", fieldNewContent},
	{"New Author", fieldNewAuthor},
	{"New Category", fieldNewCategory},
	{"Edit Notes", fieldEditNotes},
}

// headingRE matches "###" only at the start of a line
var headingRE = regexp.MustCompile(`(?m)^###`)

// ParseIssueForm splits a GitHub Issue Form body on "###" headings and returns
// the answered fields. Empty answers and the placeholder GitHub inserts for
// unanswered optional fields are left out.
func ParseIssueForm(body string, fields []formField, placeholder string) map[string]string {
	parsed := make(map[string]string)
	chunks := headingRE.Split(strings.ReplaceAll(body, "\r\n", "\n"), -1)

	var last string
	// chunks[0] is whatever precedes the first heading
	for _, chunk := range chunks[1:] {
		heading, value, _ := strings.Cut(chunk, "\n")
		heading = strings.TrimSpace(heading)
		value = strings.TrimSpace(value)

		name := matchField(heading, fields)
		if name == "" {
			// An h3 written inside the article body, not a form heading.
			if isContentField(last) {
				parsed[last] += "\n\n###" + strings.TrimRight(chunk, " \t\n")
			}
			continue
		}
		last = ""
		if value == "" || value == placeholder {
			continue
		}
		if _, seen := parsed[name]; seen {
			continue
		}
		parsed[name] = value
		last = name
	}
	return parsed
}

func isContentField(name string) bool {
	return name == fieldContent || name == fieldNewContent
}

func matchField(heading string, fields []formField) string {
	for _, f := range fields {
		if strings.Contains(heading, f.phrase) {
			return f.name
		}
	}
	return ""
}

var issueTagRE = regexp.MustCompile(`^\s*\[[^\]]*\]\s*`)

// ParseNewArticle builds a new record from a "new article" issue, filling
// title, author, category and publish date defaults.
func ParseNewArticle(body, issueTitle string, settings *Settings, now time.Time) *ArticleRecord {
	fields := ParseIssueForm(body, newArticleFields, settings.Placeholder)

	rec := &ArticleRecord{
		Title:          fields[fieldTitle],
		SEOTitle:       fields[fieldSEOTitle],
		SEODescription: fields[fieldSEODescription],
		SEOKeywords:    fields[fieldSEOKeywords],
		Author:         fields[fieldAuthor],
		Category:       fields[fieldCategory],
		Content:        fields[fieldContent],
		Operation:      OperationCreate,
	}

	if rec.Title == "" {
		rec.Title = strings.TrimSpace(issueTagRE.ReplaceAllString(issueTitle, ""))
	}
	if rec.Title == "" {
		rec.Title = settings.Defaults.Title
	}
	if rec.Author == "" {
		rec.Author = settings.Defaults.Author
	}
	if rec.Category == "" {
		rec.Category = settings.Defaults.Category
	}

	rec.PublishDate = now.Format(dateLayout)
	if t, ok := parseRecordDate(fields[fieldPublishDate]); ok {
		rec.PublishDate = t.Format(dateLayout)
	}
	stamp := now.UTC().Format(time.RFC3339)
	rec.DateCreated = stamp
	rec.DateModified = stamp

	rec.SetPaths()
	rec.ContentHTML = ToHTML(rec.Content)
	return rec
}

// ParseEditRequest builds a sparse edit request. No defaults are applied.
func ParseEditRequest(body, placeholder string) (*EditRequest, error) {
	fields := ParseIssueForm(body, editArticleFields, placeholder)

	ref, ok := fields[fieldArticleURL]
	if !ok {
		return nil, &MissingFieldError{Field: fieldArticleURL}
	}

	req := &EditRequest{ArticleURL: ref}
	req.NewTitle = optional(fields, fieldNewTitle)
	req.NewContent = optional(fields, fieldNewContent)
	req.NewAuthor = optional(fields, fieldNewAuthor)
	req.NewSEOTitle = optional(fields, fieldNewSEOTitle)
	req.NewSEODescription = optional(fields, fieldNewSEODescription)
	req.NewSEOKeywords = optional(fields, fieldNewSEOKeywords)
	req.NewCategory = optional(fields, fieldNewCategory)
	req.EditNotes = optional(fields, fieldEditNotes)
	return req, nil
}

func optional(fields map[string]string, name string) *string {
	v, ok := fields[name]
	if !ok {
		return nil
	}
	return &v
}
