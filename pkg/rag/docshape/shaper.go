package docshape

import (
	"strings"

	"ai-legalchat-be/pkg/store"
)

// ExtractStrategy pulls display text out of a retrieved document. It
// returns empty when it has nothing usable.
type ExtractStrategy func(doc store.Document) string

// Shaper normalizes raw retrieval hits into the documents the generation
// step consumes. Strategies run in order; the first non-empty extraction
// wins. Documents no strategy can extract are dropped.
type Shaper struct {
	strategies []ExtractStrategy
}

// NewShaper builds a shaper with the default strategy chain: the chunk's
// own text first, the contenu metadata field second.
func NewShaper() *Shaper {
	return &Shaper{
		strategies: []ExtractStrategy{
			extractText,
			extractMetaContenu,
		},
	}
}

// Shape returns the usable documents with text normalized and rank
// reassigned to the 0-based surviving order.
func (s *Shaper) Shape(documents []store.Document) []store.Document {
	shaped := make([]store.Document, 0, len(documents))
	for _, doc := range documents {
		text := s.extract(doc)
		if text == "" {
			continue
		}
		doc.Text = text
		doc.Rank = len(shaped)
		shaped = append(shaped, doc)
	}
	return shaped
}

// ContextBlock joins shaped document texts with blank lines, in rank order.
func ContextBlock(documents []store.Document, separator string) string {
	texts := make([]string, 0, len(documents))
	for _, doc := range documents {
		texts = append(texts, doc.Text)
	}
	return strings.Join(texts, separator)
}

func (s *Shaper) extract(doc store.Document) string {
	for _, strategy := range s.strategies {
		if text := strings.TrimSpace(strategy(doc)); text != "" {
			return text
		}
	}
	return ""
}

func extractText(doc store.Document) string {
	return doc.Text
}

func extractMetaContenu(doc store.Document) string {
	if doc.Metadata == nil {
		return ""
	}
	if contenu, ok := doc.Metadata[store.MetaContenu].(string); ok {
		return contenu
	}
	return ""
}
