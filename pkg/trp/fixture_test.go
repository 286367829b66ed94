package trp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// box returns a geometry for a rectangle in normalized page space.
func box(left, top, width, height float64) *Geometry {
	g := GeometryFromBox(BoundingBox{Left: left, Top: top, Width: width, Height: height})
	return &g
}

func word(id, text string, page int, top float64) *Block {
	return &Block{
		ID:         id,
		BlockType:  BlockTypeWord,
		Text:       text,
		Page:       page,
		Confidence: Float(90),
		Geometry:   box(0.1, top, 0.1, 0.02),
	}
}

func withChildren(b *Block, ids ...string) *Block {
	b.AddIDsToRelationships(RelationshipChild, ids...)
	return b
}

func cell(id string, page, row, col int, words ...string) *Block {
	c := &Block{
		ID:          id,
		BlockType:   BlockTypeCell,
		Page:        page,
		RowIndex:    row,
		ColumnIndex: col,
		RowSpan:     1,
		ColumnSpan:  1,
		Geometry:    box(0.1*float64(col), 0.5+0.05*float64(row), 0.1, 0.05),
	}
	if len(words) > 0 {
		c.AddIDsToRelationships(RelationshipChild, words...)
	}
	return c
}

// sampleResponse builds a two page response:
//
//	page 1: line "Name: John" (words w-name, w-john), key "Name:" → value "John",
//	        table t1 with a header row (h1, h2) and one body row (c1, c2)
//	page 2: table t2 with a header row and a body row, a query with one answer
func sampleResponse() *Response {
	blocks := []*Block{
		withChildren(&Block{ID: "p1", BlockType: BlockTypePage, Page: 1, Geometry: box(0, 0, 1, 1)},
			"l1", "k1", "v1", "t1"),
		withChildren(&Block{ID: "l1", BlockType: BlockTypeLine, Page: 1, Text: "Name: John", Geometry: box(0.1, 0.1, 0.4, 0.02)},
			"w-name", "w-john"),
		word("w-name", "Name:", 1, 0.1),
		word("w-john", "John", 1, 0.1),
		{ID: "k1", BlockType: BlockTypeKeyValueSet, Page: 1, EntityTypes: []EntityType{EntityTypeKey},
			Confidence: Float(80), Geometry: box(0.1, 0.1, 0.1, 0.02),
			Relationships: []Relationship{
				{Type: RelationshipValue, IDs: []string{"v1"}},
				{Type: RelationshipChild, IDs: []string{"w-name"}},
			}},
		withChildren(&Block{ID: "v1", BlockType: BlockTypeKeyValueSet, Page: 1, EntityTypes: []EntityType{EntityTypeValue},
			Confidence: Float(70), Geometry: box(0.2, 0.1, 0.1, 0.02)}, "w-john"),
		withChildren(&Block{ID: "t1", BlockType: BlockTypeTable, Page: 1, Geometry: box(0.1, 0.5, 0.8, 0.3)},
			"t1-h1", "t1-h2", "t1-c1", "t1-c2"),
		withHeader(cell("t1-h1", 1, 1, 1, "t1-w1")),
		withHeader(cell("t1-h2", 1, 1, 2, "t1-w2")),
		cell("t1-c1", 1, 2, 1, "t1-w3"),
		cell("t1-c2", 1, 2, 2, "t1-w4"),
		word("t1-w1", "Item", 1, 0.55),
		word("t1-w2", "Price", 1, 0.55),
		word("t1-w3", "Apple", 1, 0.6),
		word("t1-w4", "1.00", 1, 0.6),

		withChildren(&Block{ID: "p2", BlockType: BlockTypePage, Page: 2, Geometry: box(0, 0, 1, 1)},
			"t2", "q1"),
		withChildren(&Block{ID: "t2", BlockType: BlockTypeTable, Page: 2, Geometry: box(0.1, 0.05, 0.8, 0.3)},
			"t2-h1", "t2-h2", "t2-c1", "t2-c2"),
		withHeader(cell("t2-h1", 2, 1, 1, "t2-w1")),
		withHeader(cell("t2-h2", 2, 1, 2, "t2-w2")),
		cell("t2-c1", 2, 2, 1, "t2-w3"),
		cell("t2-c2", 2, 2, 2, "t2-w4"),
		word("t2-w1", "Item", 2, 0.1),
		word("t2-w2", "Price", 2, 0.1),
		word("t2-w3", "Pear", 2, 0.15),
		word("t2-w4", "2.00", 2, 0.15),
		{ID: "q1", BlockType: BlockTypeQuery, Page: 2, Query: &Query{Text: "What is the total?", Alias: "TOTAL"},
			Relationships: []Relationship{{Type: RelationshipAnswer, IDs: []string{"a1"}}}},
		{ID: "a1", BlockType: BlockTypeQueryResult, Page: 2, Text: "3.00", Confidence: Float(95)},
	}
	return &Response{
		Metadata: Metadata{
			DocumentMetadata:            &DocumentMetadata{Pages: 2},
			AnalyzeDocumentModelVersion: "1.0",
		},
		Blocks: blocks,
	}
}

func withHeader(b *Block) *Block {
	b.EntityTypes = append(b.EntityTypes, EntityTypeColumnHeader)
	return b
}

func newSampleDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := New(sampleResponse())
	require.NoError(t, err)
	return doc
}

func ids(blocks []*Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}
