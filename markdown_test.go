package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		expected string
	}{
		{"h1", "# Title", "<h1>Title</h1>"},
		{"h2", "## Section", "<h2>Section</h2>"},
		{"h3", "### Detail", "<h3>Detail</h3>"},
		{
			"inline spans",
			"Text with **bold**, *italic* and [a link](https://example.com).",
			`<p>Text with <strong>bold</strong>, <em>italic</em> and <a href="https://example.com">a link</a>.</p>`,
		},
		{"bullet list", "- one\n- two", "<ul>\n<li>one</li>\n<li>two</li>\n</ul>"},
		{"ordered list", "1. one\n2. two", "<ol>\n<li>one</li>\n<li>two</li>\n</ol>"},
		{"mixed list drops stray lines", "- one\nstray line\n- two", "<ul>\n<li>one</li>\n<li>two</li>\n</ul>"},
		{"escaping", "a < b & c", "<p>a &lt; b &amp; c</p>"},
		{"blocks joined by newline", "# T\n\nBody", "<h1>T</h1>\n<p>Body</p>"},
		{"blank lines with spaces", "one\n   \ntwo", "<p>one</p>\n<p>two</p>"},
		{"crlf", "one\r\n\r\ntwo", "<p>one</p>\n<p>two</p>"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToHTML(tt.markdown))
		})
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	inputs := []string{
		"Just one paragraph.",
		"First paragraph.\n\nSecond with **bold**, *italic* and [a link](https://example.com/x?a=1&b=2).",
		"# Title\n\nIntro text.\n\n## Section\n\n- one\n- two with **bold**\n\nClosing.",
		"1. first\n2. second",
		`Tom & Jerry said "hi" <3 and it's fine`,
		"Line one\nline two of the same paragraph",
	}

	for _, in := range inputs {
		out, err := ToMarkdown(ToHTML(in))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"paragraphs", "<p>a</p>\n<p>b</p>", "a\n\nb"},
		{"bold tags", "<p><b>x</b> and <i>y</i></p>", "**x** and *y*"},
		{"line break", "<p>one<br>two</p>", "one\ntwo"},
		{"h4 heading", "<h4>Deep</h4>", "#### Deep"},
		{"comments skipped", "<!-- note --><p>kept</p>", "kept"},
		{"loose text", "plain text", "plain text"},
		{"empty paragraph dropped", "<p>  </p><p>x</p>", "x"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMarkdown(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToMarkdownFallback(t *testing.T) {
	got, err := ToMarkdown("<blockquote><p>quoted</p></blockquote>")
	require.NoError(t, err)
	assert.Contains(t, got, "> quoted")
	assert.NotContains(t, got, "<blockquote")

	got, err = ToMarkdown("<p>run <code>go test</code> first</p>")
	require.NoError(t, err)
	assert.Contains(t, got, "`go test`")
	assert.NotContains(t, got, "<code>")
}

func TestParseHTMLKeepsFallbackSource(t *testing.T) {
	blocks, err := NewConverter().ParseHTML(`<p>Intro.</p><blockquote><p>quoted</p></blockquote>`)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	raw, ok := blocks[1].(Raw)
	require.True(t, ok)
	assert.Contains(t, raw.Text, "> quoted")
	assert.Equal(t, "<blockquote><p>quoted</p></blockquote>", raw.HTML())
}

type figureHandler struct{}

func (h *figureHandler) CanHandle(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "figure"
}

func (h *figureHandler) Handle(n *html.Node) (Block, error) {
	return Paragraph{Text: "[figure]"}, nil
}

func TestConverterCustomHandler(t *testing.T) {
	c := NewConverter()
	// Prepend so it runs before the fallback
	c.handlers = append([]BlockHandler{&figureHandler{}}, c.handlers...)

	got, err := c.ToMarkdown("<p>before</p><figure><img src=x></figure>")
	require.NoError(t, err)
	assert.Equal(t, "before\n\n[figure]", got)
}
