package trp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadIDs(t *testing.T) {
	_, err := New(&Response{Blocks: []*Block{{ID: "a"}, {ID: "a"}}})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(&Response{Blocks: []*Block{{BlockType: BlockTypeWord}}})
	require.ErrorIs(t, err, ErrInvalidArgument)

	doc, err := New(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Blocks())
}

func TestIndexConsistency(t *testing.T) {
	doc := newSampleDocument(t)

	for i, b := range doc.Blocks() {
		pos, ok := doc.IndexOf(b.ID)
		require.True(t, ok, b.ID)
		assert.Equal(t, i, pos, b.ID)
	}

	pages := doc.BlockIDMap(BlockTypePage)
	assert.Len(t, pages, 2)
	assert.Len(t, doc.BlockIDMap(""), len(doc.Blocks()))
	assert.Empty(t, doc.BlockIDMap(BlockTypeMergedCell))

	words := doc.BlockMap(BlockTypeWord)
	assert.Len(t, words, 10)
	assert.Equal(t, "John", words["w-john"].Text)
}

func TestIndexUntypedBlocks(t *testing.T) {
	doc, err := New(&Response{Blocks: []*Block{{ID: "untyped"}, {ID: "w", BlockType: BlockTypeWord}}})
	require.NoError(t, err)

	_, ok := doc.IndexOf("untyped")
	assert.True(t, ok)
	for _, m := range doc.index.byType {
		assert.NotContains(t, m, "untyped")
	}
}

func TestDeleteBlocksIndex(t *testing.T) {
	doc := newSampleDocument(t)
	before := len(doc.Blocks())

	doc.DeleteBlocks("w-name")

	assert.Len(t, doc.Blocks(), before-1)
	_, ok := doc.IndexOf("w-name")
	assert.False(t, ok)
	for typ, m := range doc.index.byType {
		assert.NotContains(t, m, "w-name", typ)
	}
	for i, b := range doc.Blocks() {
		pos, ok := doc.IndexOf(b.ID)
		require.True(t, ok)
		assert.Equal(t, i, pos)
	}
	assert.Nil(t, doc.FindBlockByID("w-name"))
}

func TestGetBlockByID(t *testing.T) {
	doc := newSampleDocument(t)

	b, err := doc.GetBlockByID("t1")
	require.NoError(t, err)
	assert.Equal(t, BlockTypeTable, b.BlockType)

	_, err = doc.GetBlockByID("missing")
	assert.ErrorIs(t, err, ErrBlockNotFound)

	// position 0 is a valid hit
	assert.Equal(t, "p1", doc.FindBlockByID("p1").ID)
}

func TestPagesSortedByNumber(t *testing.T) {
	resp := sampleResponse()
	// move page 2 in front of page 1
	blocks := resp.Blocks
	var p2 int
	for i, b := range blocks {
		if b.ID == "p2" {
			p2 = i
		}
	}
	blocks[0], blocks[p2] = blocks[p2], blocks[0]

	doc, err := New(resp)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(doc.Pages()))
	assert.Equal(t, "p2", doc.PageByNumber(2).ID)
	assert.Nil(t, doc.PageByNumber(7))
}

func TestTypedAccessors(t *testing.T) {
	doc := newSampleDocument(t)
	pages := doc.Pages()
	require.Len(t, pages, 2)

	tables, err := doc.Tables(pages[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ids(tables))

	tables, err = doc.Tables(pages[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, ids(tables))

	tables, err = doc.Tables(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, ids(tables))

	lines, err := doc.Lines(pages[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, ids(lines))

	forms, err := doc.Forms(pages[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "v1"}, ids(forms))

	keys, err := doc.Keys(pages[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, ids(keys))

	queries, err := doc.Queries(pages[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, ids(queries))

	words, err := doc.GetBlocksByType(BlockTypeWord, pages[1])
	require.NoError(t, err)
	assert.Len(t, words, 4)

	all, err := doc.GetBlocksByType("", pages[1])
	require.NoError(t, err)
	assert.Len(t, all, 11)
}

func TestPageWithoutRelationships(t *testing.T) {
	doc, err := New(&Response{Blocks: []*Block{
		{ID: "p", BlockType: BlockTypePage, Page: 1},
		{ID: "t", BlockType: BlockTypeTable},
	}})
	require.NoError(t, err)

	tables, err := doc.Tables(doc.Pages()[0])
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestValueForKey(t *testing.T) {
	doc := newSampleDocument(t)

	values, err := doc.ValueForKey(doc.FindBlockByID("k1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"w-john"}, ids(values))

	values, err = doc.ValueForKey(doc.FindBlockByID("v1"))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestQueries(t *testing.T) {
	doc := newSampleDocument(t)

	answers, err := doc.GetAnswersForQuery(doc.FindBlockByID("q1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, ids(answers))

	qa, err := doc.GetQueryAnswers(doc.Pages()[1])
	require.NoError(t, err)
	assert.Equal(t, []QueryAnswer{{Query: "What is the total?", Alias: "TOTAL", Answer: "3.00"}}, qa)

	qa, err = doc.GetQueryAnswers(doc.Pages()[0])
	require.NoError(t, err)
	assert.Empty(t, qa)

	answers, err = doc.GetAnswersForQuery(nil)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestGetKeyByName(t *testing.T) {
	doc := newSampleDocument(t)

	keys, err := doc.GetKeyByName("Name:")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, ids(keys))

	keys, err = doc.GetKeyByName("name:")
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = doc.SearchKeys("NAME")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, ids(keys))
}

func TestFields(t *testing.T) {
	doc := newSampleDocument(t)

	fields, err := doc.Fields(nil)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Name:", fields[0].Name)
	assert.Equal(t, "John", fields[0].Value)
}

func TestTextForBlocks(t *testing.T) {
	blocks := []*Block{
		{Text: "Accept"},
		{Text: "terms"},
		{SelectionStatus: SelectionSelected},
		nil,
	}
	assert.Equal(t, "Accept terms SELECTED", TextForBlocks(blocks))
	assert.Equal(t, "", TextForBlocks(nil))
}

func TestTextInReadingOrder(t *testing.T) {
	doc, err := New(&Response{Blocks: []*Block{
		withChildren(&Block{ID: "p", BlockType: BlockTypePage, Page: 1}, "l1", "r1", "l2", "r2"),
		{ID: "l1", BlockType: BlockTypeLine, Text: "left one", Geometry: box(0.05, 0.1, 0.3, 0.02)},
		{ID: "r1", BlockType: BlockTypeLine, Text: "right one", Geometry: box(0.6, 0.1, 0.3, 0.02)},
		{ID: "l2", BlockType: BlockTypeLine, Text: "left two", Geometry: box(0.05, 0.2, 0.3, 0.02)},
		{ID: "r2", BlockType: BlockTypeLine, Text: "right two", Geometry: box(0.6, 0.2, 0.3, 0.02)},
	}})
	require.NoError(t, err)

	text, err := doc.TextInReadingOrder(doc.Pages()[0])
	require.NoError(t, err)
	assert.Equal(t, "left one\nleft two\nright one\nright two\n", text)
}
