package main

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugStripRE = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRE = regexp.MustCompile(`\s+`)
	slugDashRE  = regexp.MustCompile(`-+`)
)

// Slugify creates a URL slug from a title or category name
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = slugStripRE.ReplaceAllString(slug, "")
	slug = slugSpaceRE.ReplaceAllString(slug, "-")
	slug = slugDashRE.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return "article"
	}
	return slug
}

func articleURL(categorySlug, slug string) string {
	return fmt.Sprintf("/%s/%s/%s/", articlesDir, categorySlug, slug)
}

func articleFullPath(categorySlug, slug string) string {
	return fmt.Sprintf("%s/%s/%s", articlesDir, categorySlug, slug)
}

// normalizeArticleURL reduces any link to an article (absolute, relative, with or
// without slashes) to the canonical /articles/{category}/{slug}/ form.
func normalizeArticleURL(raw string) string {
	p := stripSiteURL(raw)
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// stripSiteURL removes scheme, host, query and fragment from a URL-ish string.
func stripSiteURL(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "/"); j >= 0 {
			s = s[j:]
		} else {
			s = ""
		}
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// splitArticlePath returns category slug and slug from /articles/{category}/{slug}/.
func splitArticlePath(raw string) (categorySlug, slug string, ok bool) {
	parts := strings.Split(strings.Trim(normalizeArticleURL(raw), "/"), "/")
	if len(parts) != 3 || parts[0] != articlesDir {
		return "", "", false
	}
	return parts[1], parts[2], true
}
