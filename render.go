package main

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var siteTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const (
	maxKeywords   = 5
	excerptLength = 160
	dateLayout    = "2006-01-02"
	displayDate   = "January 2, 2006"
)

// siteView is the data the shared nav and footer templates need
type siteView struct {
	SiteName string
	Year     int
}

type articlePage struct {
	Record       *ArticleRecord
	Site         siteView
	PageTitle    string
	OGTitle      string
	Description  string
	Keywords     string
	CanonicalURL string
	Published    string
	Updated      string
	Body         template.HTML
	JSONLD       template.JS
}

type listingPage struct {
	Site         siteView
	Name         string
	TitleSuffix  string
	CanonicalURL string
}

type articleJSONLD struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description,omitempty"`
	Author           jsonLDPerson `json:"author"`
	DatePublished    string       `json:"datePublished,omitempty"`
	DateCreated      string       `json:"dateCreated,omitempty"`
	DateModified     string       `json:"dateModified,omitempty"`
	ArticleSection   string       `json:"articleSection,omitempty"`
	Keywords         string       `json:"keywords,omitempty"`
	URL              string       `json:"url"`
	MainEntityOfPage string       `json:"mainEntityOfPage"`
}

type jsonLDPerson struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// UnmarshalJSON also accepts the bare author string older pages used.
func (p *jsonLDPerson) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*p = jsonLDPerson{Type: "Person", Name: name}
		return nil
	}
	type plain jsonLDPerson
	return json.Unmarshal(b, (*plain)(p))
}

// Renderer turns records into pages using the embedded site templates.
// Create and update pages share one template; mode only toggles the "Updated" line.
type Renderer struct {
	settings *Settings
}

// NewRenderer creates a renderer for the given site settings
func NewRenderer(settings *Settings) *Renderer {
	return &Renderer{settings: settings}
}

// RenderArticlePage renders a complete article document. It is a pure function
// of the record, settings and mode.
func (r *Renderer) RenderArticlePage(rec *ArticleRecord, mode Operation) ([]byte, error) {
	if strings.TrimSpace(rec.Title) == "" {
		return nil, &RenderError{Field: "title", Reason: "must not be empty"}
	}
	if rec.URL == "" || rec.CategorySlug == "" || rec.Slug == "" {
		return nil, &RenderError{Field: "url", Reason: "paths not derived"}
	}

	// ContentHTML is authoritative; it keeps markup the Markdown subset cannot express.
	body := rec.ContentHTML
	if body == "" {
		body = ToHTML(rec.Content)
	}

	description := rec.SEODescription
	if description == "" {
		description = Excerpt(body, excerptLength)
	}
	ogTitle := rec.SEOTitle
	if ogTitle == "" {
		ogTitle = rec.Title
	}
	keywords := capKeywords(rec.SEOKeywords, maxKeywords)
	canonical := r.settings.AbsoluteURL(rec.URL)

	ld, err := json.MarshalIndent(articleJSONLD{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         rec.Title,
		Description:      description,
		Author:           jsonLDPerson{Type: "Person", Name: rec.Author},
		DatePublished:    rec.PublishDate,
		DateCreated:      rec.DateCreated,
		DateModified:     rec.DateModified,
		ArticleSection:   rec.Category,
		Keywords:         keywords,
		URL:              canonical,
		MainEntityOfPage: canonical,
	}, "  ", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding structured data: %w", err)
	}

	page := articlePage{
		Record:       rec,
		Site:         siteView{SiteName: r.settings.SiteName, Year: recordYear(rec)},
		PageTitle:    rec.Title + r.settings.TitleSuffix(),
		OGTitle:      ogTitle,
		Description:  description,
		Keywords:     keywords,
		CanonicalURL: canonical,
		Published:    formatDisplayDate(rec.PublishDate),
		Body:         template.HTML(body),
		JSONLD:       template.JS(ld),
	}
	if mode == OperationUpdate && rec.DateModified != "" {
		page.Updated = formatDisplayDate(rec.DateModified)
	}

	var buf bytes.Buffer
	if err := siteTemplates.ExecuteTemplate(&buf, "article", page); err != nil {
		return nil, fmt.Errorf("executing article template: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderEntry renders one listing block
func (r *Renderer) RenderEntry(entry IndexEntry) (string, error) {
	return r.fragment("entry", entry)
}

// RenderCategoryCard renders one card of the categories grid
func (r *Renderer) RenderCategoryCard(c CategoryCount) (string, error) {
	return r.fragment("category-card", c)
}

// RenderIndexPage renders an empty site-wide listing page
func (r *Renderer) RenderIndexPage(now time.Time) ([]byte, error) {
	return r.page("index-page", listingPage{
		Site:         siteView{SiteName: r.settings.SiteName, Year: now.Year()},
		TitleSuffix:  r.settings.TitleSuffix(),
		CanonicalURL: r.settings.AbsoluteURL("/" + articlesDir + "/"),
	})
}

// RenderCategoryPage renders an empty category listing page
func (r *Renderer) RenderCategoryPage(name, slug string, now time.Time) ([]byte, error) {
	return r.page("category-page", listingPage{
		Site:         siteView{SiteName: r.settings.SiteName, Year: now.Year()},
		Name:         name,
		TitleSuffix:  r.settings.TitleSuffix(),
		CanonicalURL: r.settings.AbsoluteURL(fmt.Sprintf("/%s/%s/", articlesDir, slug)),
	})
}

func (r *Renderer) fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := siteTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) page(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := siteTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}

// capKeywords keeps the first n non-empty comma-separated keywords
func capKeywords(keywords string, n int) string {
	var out []string
	for _, k := range strings.Split(keywords, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
		if len(out) == n {
			break
		}
	}
	return strings.Join(out, ", ")
}

// formatDisplayDate turns 2006-01-02 or RFC 3339 into "January 2, 2006".
// Unparseable input is returned unchanged.
func formatDisplayDate(s string) string {
	if t, ok := parseRecordDate(s); ok {
		return t.Format(displayDate)
	}
	return s
}

func parseRecordDate(s string) (time.Time, bool) {
	for _, layout := range []string{dateLayout, time.RFC3339, displayDate} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func recordYear(rec *ArticleRecord) int {
	if t, ok := parseRecordDate(rec.PublishDate); ok {
		return t.Year()
	}
	if t, ok := parseRecordDate(rec.DateModified); ok {
		return t.Year()
	}
	return 0
}
