// Package markdown provides a Normaliser for Markdown files. YAML front
// matter supplies the title, tags, group and dates when present.
package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// frontMatter is the subset of YAML front matter understood.
type frontMatter struct {
	Title    string     `yaml:"title"`
	Tags     stringList `yaml:"tags"`
	Keywords stringList `yaml:"keywords"`
	Group    string     `yaml:"group"`
	Date     string     `yaml:"date"`
	Created  string     `yaml:"created"`
	Updated  string     `yaml:"updated"`
	Modified string     `yaml:"modified"`
}

// stringList accepts either a YAML sequence or a comma-separated string.
type stringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(value.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := value.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected list or string", value.Line)
	}
}

// Normalise converts a markdown document to a document. Malformed front
// matter is reported as domain.ErrInvalidInput.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")
	meta, body, err := splitFrontMatter(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: front matter: %w", domain.ErrInvalidInput, raw.URI, err)
	}

	doc := domain.Document{
		URI:        raw.URI,
		Title:      meta.Title,
		Content:    stripMarkdown(body),
		Tags:       append(meta.Tags, meta.Keywords...),
		GroupPath:  raw.GroupPath,
		ModifiedAt: raw.ModTime,
	}
	if doc.Title == "" {
		doc.Title = extractMarkdownTitle(body, raw.URI)
	}
	if meta.Group != "" {
		doc.GroupPath = domain.CleanGroupPath(meta.Group)
	}
	if created, ok := firstDate(meta.Created, meta.Date); ok {
		doc.CreatedAt = created
	}
	// Front matter dates take precedence over the file modification time.
	if modified, ok := firstDate(meta.Modified, meta.Updated); ok {
		doc.ModifiedAt = modified
	} else if !doc.CreatedAt.IsZero() {
		doc.ModifiedAt = doc.CreatedAt
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// splitFrontMatter separates a leading "---" YAML block from the body.
// Content without front matter is returned unchanged.
func splitFrontMatter(text string) (frontMatter, string, error) {
	var meta frontMatter
	if !strings.HasPrefix(text, "---\n") {
		return meta, text, nil
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta, text, nil
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	// The closing fence may be followed by more dashes or spaces.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return frontMatter{}, "", err
	}
	return meta, body, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// firstDate parses the first non-empty value. Dates without a zone are UTC.
func firstDate(values ...string) (time.Time, bool) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// extractMarkdownTitle returns the first H1 heading or a title derived
// from the file name.
func extractMarkdownTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			if title := strings.TrimSpace(strings.TrimPrefix(line, "#")); title != "" {
				return title
			}
		}
	}
	return plaintext.TitleFromURI(uri)
}

var (
	codeBlock     = regexp.MustCompile("(?s)```.*?```")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	wikiLinks     = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis      = regexp.MustCompile(`(\*\*|__|\*|~~)`)
	blockquote    = regexp.MustCompile(`(?m)^>\s*`)
	hr            = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers   = regexp.MustCompile(`(?m)^\s*[-*+]\s+(\[[ xX]\]\s+)?`)
	numberedList  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common markdown formatting, keeping readable text.
// Fenced code blocks are dropped; inline code keeps its text.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = wikiLinks.ReplaceAllStringFunc(content, func(m string) string {
		parts := wikiLinks.FindStringSubmatch(m)
		if parts[2] != "" {
			return parts[2]
		}
		return parts[1]
	})
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
