package main

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlockHandler turns one top-level HTML node into a body block
type BlockHandler interface {
	CanHandle(n *html.Node) bool
	Handle(n *html.Node) (Block, error)
}

// Converter translates article bodies between the restricted Markdown subset
// and the HTML the renderer emits. HTML → Markdown only reverses what ToHTML
// produces; anything else goes through the fallback handler.
type Converter struct {
	handlers []BlockHandler
	inline   *inlineWriter
}

// NewConverter creates a converter with the default handler chain
func NewConverter() *Converter {
	fallback := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		BulletListMarker: "-",
		EmDelimiter:      "*",
		StrongDelimiter:  "**",
		LinkStyle:        "inlined",
	})
	inline := &inlineWriter{fallback: fallback}

	c := &Converter{inline: inline}

	// Register handlers (most specific first)
	c.AddHandler(&headingHandler{inline: inline})
	c.AddHandler(&paragraphHandler{inline: inline})
	c.AddHandler(&listHandler{inline: inline})
	c.AddHandler(&textHandler{})
	c.AddHandler(&fallbackHandler{converter: fallback}) // fallback
	return c
}

// AddHandler adds a block handler to the chain
func (c *Converter) AddHandler(handler BlockHandler) {
	c.handlers = append(c.handlers, handler)
}

// ToHTML renders Markdown as block-level HTML elements joined by newlines
func (c *Converter) ToHTML(markdown string) string {
	blocks := ParseMarkdown(markdown)
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.HTML()
	}
	return strings.Join(parts, "\n")
}

// ToMarkdown converts article body HTML back to Markdown
func (c *Converter) ToMarkdown(body string) (string, error) {
	blocks, err := c.ParseHTML(body)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := b.Markdown(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// ParseHTML parses an HTML fragment into body blocks
func (c *Converter) ParseHTML(body string) ([]Block, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(body), context)
	if err != nil {
		return nil, fmt.Errorf("parsing body HTML: %w", err)
	}

	var blocks []Block
	for _, n := range nodes {
		if n.Type == html.CommentNode {
			continue
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		block, err := c.handle(n)
		if err != nil {
			return nil, err
		}
		if block != nil {
			blocks = append(blocks, block)
		}
	}
	return blocks, nil
}

func (c *Converter) handle(n *html.Node) (Block, error) {
	for _, handler := range c.handlers {
		if handler.CanHandle(n) {
			return handler.Handle(n)
		}
	}
	return nil, fmt.Errorf("no handler for <%s>", n.Data)
}

var defaultConverter = NewConverter()

// ToHTML renders Markdown with the default converter
func ToHTML(markdown string) string {
	return defaultConverter.ToHTML(markdown)
}

// ToMarkdown converts HTML with the default converter
func ToMarkdown(body string) (string, error) {
	return defaultConverter.ToMarkdown(body)
}

type headingHandler struct {
	inline *inlineWriter
}

func (h *headingHandler) CanHandle(n *html.Node) bool {
	return n.Type == html.ElementNode && headingLevel(n) > 0
}

func (h *headingHandler) Handle(n *html.Node) (Block, error) {
	text, err := h.inline.children(n)
	if err != nil {
		return nil, err
	}
	return Heading{Level: headingLevel(n), Text: strings.TrimSpace(text)}, nil
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

type paragraphHandler struct {
	inline *inlineWriter
}

func (h *paragraphHandler) CanHandle(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.P
}

func (h *paragraphHandler) Handle(n *html.Node) (Block, error) {
	text, err := h.inline.children(n)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return Paragraph{Text: text}, nil
}

type listHandler struct {
	inline *inlineWriter
}

func (h *listHandler) CanHandle(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Ul || n.DataAtom == atom.Ol)
}

func (h *listHandler) Handle(n *html.Node) (Block, error) {
	list := List{Ordered: n.DataAtom == atom.Ol}
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		text, err := h.inline.children(li)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, strings.TrimSpace(text))
	}
	if len(list.Items) == 0 {
		return nil, nil
	}
	return list, nil
}

// textHandler keeps loose top-level text as a paragraph
type textHandler struct{}

func (h *textHandler) CanHandle(n *html.Node) bool {
	return n.Type == html.TextNode
}

func (h *textHandler) Handle(n *html.Node) (Block, error) {
	return Paragraph{Text: strings.TrimSpace(n.Data)}, nil
}

// fallbackHandler converts markup outside the supported subset with html-to-markdown
type fallbackHandler struct {
	converter *md.Converter
}

func (h *fallbackHandler) CanHandle(n *html.Node) bool {
	return true // Always handles as fallback
}

func (h *fallbackHandler) Handle(n *html.Node) (Block, error) {
	source, err := renderNode(n)
	if err != nil {
		return nil, err
	}
	markdown, err := h.converter.ConvertString(source)
	if err != nil {
		return nil, fmt.Errorf("converting <%s> to markdown: %w", n.Data, err)
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil, nil
	}
	return Raw{Source: source, Text: markdown}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("rendering <%s>: %w", n.Data, err)
	}
	return buf.String(), nil
}

func convertNode(converter *md.Converter, n *html.Node) (string, error) {
	source, err := renderNode(n)
	if err != nil {
		return "", err
	}
	markdown, err := converter.ConvertString(source)
	if err != nil {
		return "", fmt.Errorf("converting <%s> to markdown: %w", n.Data, err)
	}
	return strings.TrimSpace(markdown), nil
}

// inlineWriter maps inline HTML back to the three supported Markdown spans
type inlineWriter struct {
	fallback *md.Converter
}

func (w *inlineWriter) children(n *html.Node) (string, error) {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s, err := w.node(c)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (w *inlineWriter) node(n *html.Node) (string, error) {
	switch n.Type {
	case html.TextNode:
		return n.Data, nil
	case html.ElementNode:
	default:
		return "", nil
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		inner, err := w.children(n)
		return "**" + inner + "**", err
	case atom.Em, atom.I:
		inner, err := w.children(n)
		return "*" + inner + "*", err
	case atom.A:
		inner, err := w.children(n)
		return "[" + inner + "](" + attr(n, "href") + ")", err
	case atom.Br:
		return "\n", nil
	}
	return convertNode(w.fallback, n)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
