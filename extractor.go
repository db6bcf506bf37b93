package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var bylineRE = regexp.MustCompile(`^By\s+(.+?)\s*\|\s*(.+)$`)

// Extractor rebuilds article records from published article pages
type Extractor struct {
	settings  *Settings
	converter *Converter
}

// NewExtractor creates an extractor for pages rendered with the given settings
func NewExtractor(settings *Settings, converter *Converter) *Extractor {
	return &Extractor{settings: settings, converter: converter}
}

// Extract reads every known field independently. Only a missing <article>
// boundary is an error; absent optional tags leave zero values.
func (e *Extractor) Extract(page string) (*ArticleRecord, error) {
	if !strings.Contains(page, "</article>") {
		return nil, &ExtractionError{Reason: "no closing </article> tag"}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing article HTML: %w", err)
	}
	article := doc.Find("article").First()
	if article.Length() == 0 {
		return nil, &ExtractionError{Reason: "no <article> element"}
	}

	rec := &ArticleRecord{}
	ld := readJSONLD(doc)

	rec.Title = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(doc.Find("title").First().Text()), e.settings.TitleSuffix()))
	if rec.Title == "" {
		rec.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	rec.SEOTitle = metaContent(doc, `meta[property="og:title"]`)
	if rec.SEOTitle == rec.Title {
		rec.SEOTitle = ""
	}
	rec.SEODescription = metaContent(doc, `meta[name="description"]`)
	rec.SEOKeywords = metaContent(doc, `meta[name="keywords"]`)
	rec.Author = metaContent(doc, `meta[name="author"]`)

	rec.Category = strings.TrimSpace(doc.Find("div.category-topic a").First().Text())
	if rec.Category == "" {
		rec.Category = ld.ArticleSection
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		if cat, slug, ok := splitArticlePath(href); ok {
			rec.CategorySlug, rec.Slug = cat, slug
			rec.URL = articleURL(cat, slug)
			rec.RelativePath = rec.URL
			rec.FullPath = articleFullPath(cat, slug)
		}
	}

	if m := bylineRE.FindStringSubmatch(strings.TrimSpace(doc.Find("div.meta").First().Text())); m != nil {
		if rec.Author == "" {
			rec.Author = strings.TrimSpace(m[1])
		}
		if t, ok := parseRecordDate(m[2]); ok {
			rec.PublishDate = t.Format(dateLayout)
		}
	}
	if rec.PublishDate == "" {
		if t, ok := parseRecordDate(ld.DatePublished); ok {
			rec.PublishDate = t.Format(dateLayout)
		}
	}
	rec.DateCreated = ld.DateCreated
	if rec.DateCreated == "" {
		rec.DateCreated = ld.DatePublished
	}
	rec.DateModified = ld.DateModified

	body, err := articleBody(article)
	if err != nil {
		return nil, err
	}
	rec.ContentHTML = strings.TrimSpace(body)
	rec.Content, err = e.converter.ToMarkdown(rec.ContentHTML)
	if err != nil {
		return nil, fmt.Errorf("converting article body: %w", err)
	}

	// A description that is only the generated excerpt was never set by the author.
	if rec.SEODescription == Excerpt(rec.ContentHTML, excerptLength) {
		rec.SEODescription = ""
	}
	if rec.Author == "" {
		rec.Author = ld.Author.Name
	}
	return rec, nil
}

// articleBody returns the body markup: the article-body wrapper when present,
// otherwise the article minus its category, heading and byline blocks.
func articleBody(article *goquery.Selection) (string, error) {
	if wrapper := article.Find("div.article-body").First(); wrapper.Length() > 0 {
		return wrapper.Html()
	}
	body := article.Clone()
	body.Find("div.category-topic").Remove()
	body.Find("h1").First().Remove()
	body.Find("div.meta").Remove()
	body.Find("div.updated").Remove()
	return body.Html()
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

func readJSONLD(doc *goquery.Document) articleJSONLD {
	var ld articleJSONLD
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var candidate articleJSONLD
		if err := json.Unmarshal([]byte(s.Text()), &candidate); err != nil {
			return true
		}
		if candidate.Type == "Article" || candidate.Type == "BlogPosting" || candidate.Headline != "" {
			ld = candidate
			return false
		}
		return true
	})
	return ld
}
