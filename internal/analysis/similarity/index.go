package similarity

import (
	"sort"

	"github.com/custodia-labs/docgraph/internal/analysis/tokens"
	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// Item is a document with its precomputed comparison features.
type Item struct {
	Doc     *domain.Document
	Profile domain.TokenProfile

	// Tags is the normalised tag set.
	Tags []string

	norm2 int64
}

// NewItem precomputes the features of a document from its profile.
// doc may be nil when only the profile is compared.
func NewItem(doc *domain.Document, profile domain.TokenProfile) *Item {
	it := &Item{Doc: doc, Profile: profile}
	if doc == nil {
		it.Doc = &domain.Document{}
	} else {
		it.Tags = domain.NormaliseTags(doc.Tags)
	}
	for _, c := range profile.Counts {
		it.norm2 += int64(c) * int64(c)
	}
	return it
}

// Index holds the profiles of one operation's documents, sorted by ID.
// It is built per operation and discarded with its result.
type Index struct {
	items []*Item
	byID  map[string]int
}

// DocumentText is the text a document is profiled from: title and content.
func DocumentText(d *domain.Document) string {
	if d.Title == "" {
		return d.Content
	}
	if d.Content == "" {
		return d.Title
	}
	return d.Title + "\n\n" + d.Content
}

// NewIndex profiles every document once. Duplicate IDs keep the first copy.
func NewIndex(docs []domain.Document, n *tokens.Normalizer) *Index {
	idx := &Index{byID: make(map[string]int, len(docs))}
	for i := range docs {
		d := &docs[i]
		if _, dup := idx.byID[d.ID]; dup {
			continue
		}
		idx.byID[d.ID] = -1
		idx.items = append(idx.items, NewItem(d, n.Normalize(DocumentText(d))))
	}
	sort.Slice(idx.items, func(i, j int) bool {
		return idx.items[i].Doc.ID < idx.items[j].Doc.ID
	})
	for i, it := range idx.items {
		idx.byID[it.Doc.ID] = i
	}
	return idx
}

// Len returns the number of documents.
func (idx *Index) Len() int {
	return len(idx.items)
}

// At returns the i-th item in ID order.
func (idx *Index) At(i int) *Item {
	return idx.items[i]
}

// Lookup returns the position of a document ID.
func (idx *Index) Lookup(id string) (int, bool) {
	i, ok := idx.byID[id]
	return i, ok
}

// Items returns all items in ID order.
func (idx *Index) Items() []*Item {
	return idx.items
}

// Profiles returns the token profiles keyed by document ID.
func (idx *Index) Profiles() map[string]domain.TokenProfile {
	out := make(map[string]domain.TokenProfile, len(idx.items))
	for _, it := range idx.items {
		out[it.Doc.ID] = it.Profile
	}
	return out
}
