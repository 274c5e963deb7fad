package html

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"text/html", "application/xhtml+xml"}, New().SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	mod := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	raw := &domain.RawDocument{
		URI:       "/site/page.html",
		MIMEType:  "text/html",
		GroupPath: "/site",
		ModTime:   mod,
		Content: []byte(`<html><head><title>Test Page</title>
<meta name="keywords" content="Go, graphs , ">
</head><body><h1>Hello World</h1><p>Body text.</p></body></html>`),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "Test Page", doc.Title)
	assert.Equal(t, "Hello World\nBody text.", doc.Content)
	assert.Equal(t, []string{"Go", "graphs"}, doc.Tags)
	assert.Equal(t, "/site", doc.GroupPath)
	assert.Equal(t, mod, doc.ModifiedAt)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_EmptyContent(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "/path/to/empty.html"})

	require.NoError(t, err)
	assert.Empty(t, result.Document.Content)
	assert.Nil(t, result.Document.Tags)
}

func TestNormalise_TitleExtraction(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		uri           string
		expectedTitle string
	}{
		{
			name:          "title tag",
			content:       "<html><head><title>My Document</title></head><body></body></html>",
			uri:           "/doc.html",
			expectedTitle: "My Document",
		},
		{
			name:          "title with extra spaces",
			content:       "<title>   Spaced Title   </title>",
			uri:           "/doc.html",
			expectedTitle: "Spaced Title",
		},
		{
			name:          "title with HTML entities",
			content:       "<title>Tom &amp; Jerry</title>",
			uri:           "/doc.html",
			expectedTitle: "Tom & Jerry",
		},
		{
			name:          "no title - fallback to filename",
			content:       "<html><body>Just content</body></html>",
			uri:           "/my_document.html",
			expectedTitle: "my document",
		},
		{
			name:          "empty title - fallback to filename",
			content:       "<title></title><body>Content</body>",
			uri:           "/readme.html",
			expectedTitle: "readme",
		},
	}

	normaliser := New()
	ctx := context.Background()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := &domain.RawDocument{
				URI:      tc.uri,
				MIMEType: "text/html",
				Content:  []byte(tc.content),
			}

			result, err := normaliser.Normalise(ctx, raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTitle, result.Document.Title)
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple paragraph",
			input:    "<p>Hello World</p>",
			expected: "Hello World",
		},
		{
			name:     "nested tags",
			input:    "<div><p><strong>Bold</strong> text</p></div>",
			expected: "Bold text",
		},
		{
			name:     "script removed",
			input:    "<p>Before</p><script>alert('evil');</script><p>After</p>",
			expected: "Before\nAfter",
		},
		{
			name:     "style removed",
			input:    "<style>.foo { color: red; }</style><p>Content</p>",
			expected: "Content",
		},
		{
			name:     "noscript removed",
			input:    "<p>Content</p><noscript>No JS fallback</noscript>",
			expected: "Content",
		},
		{
			name:     "head removed",
			input:    "<head><meta charset='utf-8'><title>Title</title></head><body>Content</body>",
			expected: "Content",
		},
		{
			name:     "br to newline",
			input:    "Line 1<br>Line 2<br/>Line 3",
			expected: "Line 1\nLine 2\nLine 3",
		},
		{
			name:     "block elements create newlines",
			input:    "<div>Block 1</div><div>Block 2</div>",
			expected: "Block 1\nBlock 2",
		},
		{
			name:     "HTML entities decoded",
			input:    "<p>&lt;tag&gt; &amp; &quot;quotes&quot;</p>",
			expected: "<tag> & \"quotes\"",
		},
		{
			name:     "comments removed",
			input:    "<p>Before</p><!-- comment --><p>After</p>",
			expected: "Before\nAfter",
		},
		{
			name:     "list items",
			input:    "<ul><li>Item 1</li><li>Item 2</li></ul>",
			expected: "Item 1\nItem 2",
		},
		{
			name:     "headings",
			input:    "<h1>Title</h1><h2>Subtitle</h2><p>Content</p>",
			expected: "Title\nSubtitle\nContent",
		},
		{
			name:     "links - text preserved",
			input:    `<a href="https://example.com">Click here</a>`,
			expected: "Click here",
		},
		{
			name:     "images removed",
			input:    `<p>See <img src="image.png" alt="Image"> here</p>`,
			expected: "See here",
		},
		{
			name:     "table",
			input:    "<table><tr><td>Cell 1</td><td>Cell 2</td></tr></table>",
			expected: "Cell 1Cell 2",
		},
		{
			name:     "svg removed",
			input:    `<p>Before</p><svg width="100"><circle cx="50"/></svg><p>After</p>`,
			expected: "Before\nAfter",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := stripHTML(tc.input)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"double quotes", `<meta name="keywords" content="a, b">`, []string{"a", "b"}},
		{"single quotes, content first", `<meta content='x,y' name='Keywords'>`, []string{"x", "y"}},
		{"entities", `<meta name="keywords" content="R&amp;D">`, []string{"R&D"}},
		{"other meta ignored", `<meta name="description" content="a, b">`, nil},
		{"none", `<p>text</p>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractKeywords(tt.content))
		})
	}
}
