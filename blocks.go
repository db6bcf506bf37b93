package main

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Block is one block-level node of an article body. Text fields hold inline
// Markdown source; each block knows how to serialize itself both ways.
type Block interface {
	HTML() string
	Markdown() string
}

// Heading is an h1-h6 block
type Heading struct {
	Level int
	Text  string
}

func (h Heading) HTML() string {
	return fmt.Sprintf("<h%d>%s</h%d>", h.Level, inlineHTML(h.Text), h.Level)
}

func (h Heading) Markdown() string {
	return strings.Repeat("#", h.Level) + " " + h.Text
}

// Paragraph is a plain text block
type Paragraph struct {
	Text string
}

func (p Paragraph) HTML() string {
	return "<p>" + inlineHTML(p.Text) + "</p>"
}

func (p Paragraph) Markdown() string {
	return p.Text
}

// List is an ordered or unordered list of single-line items
type List struct {
	Ordered bool
	Items   []string
}

func (l List) HTML() string {
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}
	var b strings.Builder
	b.WriteString("<" + tag + ">\n")
	for _, item := range l.Items {
		b.WriteString("<li>" + inlineHTML(item) + "</li>\n")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

func (l List) Markdown() string {
	lines := make([]string, len(l.Items))
	for i, item := range l.Items {
		if l.Ordered {
			lines[i] = fmt.Sprintf("%d. %s", i+1, item)
		} else {
			lines[i] = "- " + item
		}
	}
	return strings.Join(lines, "\n")
}

// Raw holds markup outside the supported subset. Source is the original HTML
// and is emitted verbatim; Text is its Markdown rendering from the fallback
// converter. Without a source it is treated as a paragraph.
type Raw struct {
	Source string
	Text   string
}

func (r Raw) HTML() string {
	if r.Source != "" {
		return r.Source
	}
	return Paragraph{Text: r.Text}.HTML()
}

func (r Raw) Markdown() string {
	return r.Text
}

var (
	blankLineRE   = regexp.MustCompile(`\n[ \t]*\n`)
	bulletLineRE  = regexp.MustCompile(`^- (.*)$`)
	orderedLineRE = regexp.MustCompile(`^\d+\. (.*)$`)

	boldRE   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRE = regexp.MustCompile(`\*([^*\n]+?)\*`)
	linkRE   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
)

// ParseMarkdown splits Markdown into blocks on blank lines and classifies each
// block by its leading token.
func ParseMarkdown(markdown string) []Block {
	src := strings.ReplaceAll(markdown, "\r\n", "\n")

	var blocks []Block
	for _, chunk := range blankLineRE.Split(src, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		blocks = append(blocks, classifyBlock(chunk))
	}
	return blocks
}

func classifyBlock(chunk string) Block {
	switch {
	case strings.HasPrefix(chunk, "### "):
		return Heading{Level: 3, Text: strings.TrimSpace(chunk[4:])}
	case strings.HasPrefix(chunk, "## "):
		return Heading{Level: 2, Text: strings.TrimSpace(chunk[3:])}
	case strings.HasPrefix(chunk, "# "):
		return Heading{Level: 1, Text: strings.TrimSpace(chunk[2:])}
	}

	lines := strings.Split(chunk, "\n")
	// Lines that don't match the list marker are dropped from a list block.
	if items := matchingLines(lines, bulletLineRE); len(items) > 0 {
		return List{Items: items}
	}
	if items := matchingLines(lines, orderedLineRE); len(items) > 0 {
		return List{Ordered: true, Items: items}
	}
	return Paragraph{Text: chunk}
}

func matchingLines(lines []string, re *regexp.Regexp) []string {
	var items []string
	for _, line := range lines {
		if m := re.FindStringSubmatch(line); m != nil {
			items = append(items, strings.TrimSpace(m[1]))
		}
	}
	return items
}

// inlineHTML escapes text and rewrites bold, italic and link spans.
func inlineHTML(text string) string {
	s := html.EscapeString(text)
	s = boldRE.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRE.ReplaceAllString(s, "<em>$1</em>")
	s = linkRE.ReplaceAllString(s, `<a href="$2">$1</a>`)
	return s
}
