package domain

import (
	"sort"
	"strings"
	"time"
)

// Document is a read-only, request-scoped copy of a document held by the
// document store.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the extracted plain text. It may be empty when the
	// store could not extract text.
	Content string

	// Tags is the unordered set of tags attached to the document.
	Tags []string

	// GroupPath is the container the document lives in (e.g. "/Research/Papers").
	GroupPath string

	// URI is the original location (file path, URL, etc).
	URI string

	// CreatedAt is when the document was created.
	CreatedAt time.Time

	// ModifiedAt is when the document was last modified.
	ModifiedAt time.Time
}

// Timestamp returns the modification time, falling back to the creation
// time. The zero time is returned when neither is set.
func (d *Document) Timestamp() time.Time {
	if !d.ModifiedAt.IsZero() {
		return d.ModifiedAt
	}
	return d.CreatedAt
}

// HasTimestamp reports whether the document carries a usable timestamp.
func (d *Document) HasTimestamp() bool {
	return !d.Timestamp().IsZero()
}

// NormalisedTags returns the case-folded, de-duplicated, sorted tag set.
func (d *Document) NormalisedTags() []string {
	return NormaliseTags(d.Tags)
}

// Summary returns the document without its content.
func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:         d.ID,
		Title:      d.Title,
		Tags:       d.Tags,
		GroupPath:  d.GroupPath,
		CreatedAt:  d.CreatedAt,
		ModifiedAt: d.ModifiedAt,
	}
}

// DocumentSummary is the metadata returned by store searches.
type DocumentSummary struct {
	ID         string
	Title      string
	Tags       []string
	GroupPath  string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// SearchConstraints narrows a document store search.
type SearchConstraints struct {
	// Tags requires every listed tag to be present.
	Tags []string

	// Group restricts results to a group path and its descendants.
	Group string

	// ModifiedAfter and ModifiedBefore bound Document.Timestamp (inclusive).
	// Zero values are ignored.
	ModifiedAfter  time.Time
	ModifiedBefore time.Time

	// Limit is the maximum number of results (0 = no limit).
	Limit int
}

// Group is a container in the document store hierarchy.
type Group struct {
	// Name is the last path segment.
	Name string

	// Path is the full slash-separated path.
	Path string

	// DocumentCount is the number of documents directly in this group.
	DocumentCount int

	// Children are the nested groups, sorted by name.
	Children []Group
}

// NormaliseTags case-folds, trims, de-duplicates and sorts tags.
func NormaliseTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// CleanGroupPath normalises a group path to "/a/b" form. The root is "".
func CleanGroupPath(path string) string {
	parts := strings.Split(path, "/")
	kept := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "/" + strings.Join(kept, "/")
}

// InGroup reports whether path equals group or is nested below it.
func InGroup(path, group string) bool {
	group = CleanGroupPath(group)
	if group == "" {
		return true
	}
	path = CleanGroupPath(path)
	return path == group || strings.HasPrefix(path, group+"/")
}

// BuildGroupTree assembles a hierarchy from per-path document counts.
// Intermediate groups without documents are created as needed.
func BuildGroupTree(counts map[string]int) []Group {
	type node struct {
		group    Group
		children map[string]*node
	}
	root := &node{children: make(map[string]*node)}

	for path, count := range counts {
		path = CleanGroupPath(path)
		if path == "" {
			continue
		}
		cur := root
		segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
		for i, seg := range segments {
			child, ok := cur.children[seg]
			if !ok {
				child = &node{
					group: Group{
						Name: seg,
						Path: "/" + strings.Join(segments[:i+1], "/"),
					},
					children: make(map[string]*node),
				}
				cur.children[seg] = child
			}
			cur = child
		}
		cur.group.DocumentCount += count
	}

	var flatten func(n *node) []Group
	flatten = func(n *node) []Group {
		names := make([]string, 0, len(n.children))
		for name := range n.children {
			names = append(names, name)
		}
		sort.Strings(names)
		groups := make([]Group, 0, len(names))
		for _, name := range names {
			child := n.children[name]
			g := child.group
			g.Children = flatten(child)
			groups = append(groups, g)
		}
		return groups
	}
	return flatten(root)
}

// FindGroup looks up a group by path in a hierarchy.
func FindGroup(groups []Group, path string) (*Group, bool) {
	path = CleanGroupPath(path)
	for i := range groups {
		if groups[i].Path == path {
			return &groups[i], true
		}
		if found, ok := FindGroup(groups[i].Children, path); ok {
			return found, true
		}
	}
	return nil, false
}

// QueryTerms splits a search query into lowercase terms.
func QueryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// MatchesQuery reports whether every query term occurs in the document's
// title, content or tags, ignoring case. An empty query matches everything.
func (d *Document) MatchesQuery(terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(d.Title + "\n" + d.Content + "\n" + strings.Join(d.Tags, " "))
	for _, t := range terms {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

// Matches reports whether a document satisfies the constraints. Limit is
// not considered. Time bounds apply to Timestamp and are inclusive; a
// document without a timestamp fails any time bound.
func (c SearchConstraints) Matches(d *Document) bool {
	if !InGroup(d.GroupPath, c.Group) {
		return false
	}
	if len(c.Tags) > 0 {
		have := make(map[string]struct{}, len(d.Tags))
		for _, t := range d.NormalisedTags() {
			have[t] = struct{}{}
		}
		for _, t := range NormaliseTags(c.Tags) {
			if _, ok := have[t]; !ok {
				return false
			}
		}
	}
	if !c.ModifiedAfter.IsZero() || !c.ModifiedBefore.IsZero() {
		ts := d.Timestamp()
		if ts.IsZero() {
			return false
		}
		if !c.ModifiedAfter.IsZero() && ts.Before(c.ModifiedAfter) {
			return false
		}
		if !c.ModifiedBefore.IsZero() && ts.After(c.ModifiedBefore) {
			return false
		}
	}
	return true
}
