package docshape

import (
	"testing"

	"ai-legalchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestShapeUsesTextFieldFirst(t *testing.T) {
	shaper := NewShaper()

	shaped := shaper.Shape([]store.Document{
		{
			Text:     "Article 12 du code foncier.",
			Metadata: map[string]interface{}{store.MetaContenu: "ignored"},
		},
	})

	assert.Len(t, shaped, 1)
	assert.Equal(t, "Article 12 du code foncier.", shaped[0].Text)
}

func TestShapeFallsBackToContenuMetadata(t *testing.T) {
	shaper := NewShaper()

	shaped := shaper.Shape([]store.Document{
		{
			Text:     "   ",
			Metadata: map[string]interface{}{store.MetaContenu: "Loi 2021-14, article 3."},
		},
	})

	assert.Len(t, shaped, 1)
	assert.Equal(t, "Loi 2021-14, article 3.", shaped[0].Text)
}

func TestShapeDropsEmptyAndReassignsRank(t *testing.T) {
	shaper := NewShaper()

	shaped := shaper.Shape([]store.Document{
		{ID: "a", Rank: 0, Text: "premier"},
		{ID: "b", Rank: 1, Text: "", Metadata: map[string]interface{}{}},
		{ID: "c", Rank: 2, Text: "second"},
	})

	assert.Len(t, shaped, 2)
	assert.Equal(t, "a", shaped[0].ID)
	assert.Equal(t, 0, shaped[0].Rank)
	assert.Equal(t, "c", shaped[1].ID)
	assert.Equal(t, 1, shaped[1].Rank)
}

func TestShapeAllUnusable(t *testing.T) {
	shaper := NewShaper()

	shaped := shaper.Shape([]store.Document{
		{Text: ""},
		{Metadata: map[string]interface{}{store.MetaContenu: 42}},
	})

	assert.Empty(t, shaped)
}

func TestContextBlockJoinsInRankOrder(t *testing.T) {
	block := ContextBlock([]store.Document{
		{Text: "un"},
		{Text: "deux"},
	}, "\n\n")

	assert.Equal(t, "un\n\ndeux", block)
}
