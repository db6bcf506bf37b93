package main

import "fmt"

// Operation says whether a record is being published for the first time or rewritten.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
)

// ArticleRecord represents one published article and is the hand-off format between CI steps
type ArticleRecord struct {
	Title          string `json:"title"`
	SEOTitle       string `json:"seoTitle,omitempty"`
	SEODescription string `json:"seoDescription,omitempty"`
	SEOKeywords    string `json:"seoKeywords,omitempty"`
	Author         string `json:"author"`
	Category       string `json:"category"`
	CategorySlug   string `json:"categorySlug"`
	Slug           string `json:"slug"`
	URL            string `json:"url"`
	RelativePath   string `json:"relativePath"`
	FullPath       string `json:"fullPath"`
	Content        string `json:"content"`
	ContentHTML    string `json:"contentHtml"`
	PublishDate    string `json:"publishDate"`
	DateCreated    string `json:"dateCreated,omitempty"`
	DateModified   string `json:"dateModified,omitempty"`

	Operation       Operation `json:"operation,omitempty"`
	PathChanged     bool      `json:"pathChanged,omitempty"`
	OldFullPath     string    `json:"oldFullPath,omitempty"`
	OldURL          string    `json:"oldUrl,omitempty"`
	OldCategorySlug string    `json:"oldCategorySlug,omitempty"`
	IssueNumber     string    `json:"issueNumber,omitempty"`
	EditNotes       string    `json:"editNotes,omitempty"`
}

// SetPaths derives slug, category slug and every path field from title and category.
// It is the only place those fields are assigned.
func (r *ArticleRecord) SetPaths() {
	r.Slug = Slugify(r.Title)
	r.CategorySlug = Slugify(r.Category)
	r.URL = articleURL(r.CategorySlug, r.Slug)
	r.RelativePath = r.URL
	r.FullPath = articleFullPath(r.CategorySlug, r.Slug)
}

// CategoryURL is the listing page of the record's category.
func (r *ArticleRecord) CategoryURL() string {
	return fmt.Sprintf("/%s/%s/", articlesDir, r.CategorySlug)
}

// EditRequest is a sparse update. Nil fields were not provided and must not overwrite anything.
type EditRequest struct {
	ArticleURL        string
	NewTitle          *string
	NewContent        *string
	NewAuthor         *string
	NewSEOTitle       *string
	NewSEODescription *string
	NewSEOKeywords    *string
	NewCategory       *string
	EditNotes         *string
}

// IndexEntry is the summary block shown on listing pages
type IndexEntry struct {
	Title       string
	URL         string
	Author      string
	Date        string
	Category    string
	CategoryURL string
	Excerpt     string
}

// CategoryCount is one card in the categories grid
type CategoryCount struct {
	Name  string
	Slug  string
	Count int
}

// PublishResult tracks what a publish run touched
type PublishResult struct {
	Record      *ArticleRecord
	ArticleFile string
	IndexFiles  []string
	Moved       bool
}
