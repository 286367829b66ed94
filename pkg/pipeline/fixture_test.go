package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrgraph/pkg/trp"
)

func box(left, top, width, height float64) *trp.Geometry {
	g := trp.GeometryFromBox(trp.BoundingBox{Left: left, Top: top, Width: width, Height: height})
	return &g
}

// pageBuilder collects the blocks of one page.
type pageBuilder struct {
	page   *trp.Block
	blocks []*trp.Block
}

func newPage(n int) *pageBuilder {
	p := &trp.Block{ID: fmt.Sprintf("p%d", n), BlockType: trp.BlockTypePage, Page: n, Geometry: box(0, 0, 1, 1)}
	return &pageBuilder{page: p, blocks: []*trp.Block{p}}
}

// line adds a LINE of one word at top.
func (pb *pageBuilder) line(id, text string, top float64) *pageBuilder {
	w := &trp.Block{ID: id + "-w", BlockType: trp.BlockTypeWord, Page: pb.page.Page, Text: text,
		Confidence: trp.Float(99), Geometry: box(0.1, top, 0.3, 0.02)}
	l := &trp.Block{ID: id, BlockType: trp.BlockTypeLine, Page: pb.page.Page, Text: text, Geometry: box(0.1, top, 0.3, 0.02)}
	l.AddIDsToRelationships(trp.RelationshipChild, w.ID)
	pb.page.AddIDsToRelationships(trp.RelationshipChild, l.ID)
	pb.blocks = append(pb.blocks, l, w)
	return pb
}

// table adds a table at top whose first row is a header with the given texts
// followed by rows body rows.
func (pb *pageBuilder) table(id string, left, top, width float64, header []string, rows int) *pageBuilder {
	rowHeight := 0.03
	t := &trp.Block{ID: id, BlockType: trp.BlockTypeTable, Page: pb.page.Page,
		Geometry: box(left, top, width, rowHeight*float64(rows+1))}
	pb.page.AddIDsToRelationships(trp.RelationshipChild, id)
	pb.blocks = append(pb.blocks, t)

	for r := 1; r <= rows+1; r++ {
		for c := 1; c <= len(header); c++ {
			text := header[c-1]
			if r > 1 {
				text = fmt.Sprintf("%s-%d-%d", id, r, c)
			}
			cellTop := top + rowHeight*float64(r-1)
			cellWidth := width / float64(len(header))
			w := &trp.Block{ID: fmt.Sprintf("%s-w%d-%d", id, r, c), BlockType: trp.BlockTypeWord, Page: pb.page.Page,
				Text: text, Confidence: trp.Float(95), Geometry: box(left+cellWidth*float64(c-1), cellTop, cellWidth, rowHeight)}
			cell := &trp.Block{ID: fmt.Sprintf("%s-c%d-%d", id, r, c), BlockType: trp.BlockTypeCell, Page: pb.page.Page,
				RowIndex: r, ColumnIndex: c, RowSpan: 1, ColumnSpan: 1, Geometry: w.Geometry}
			if r == 1 {
				cell.EntityTypes = []trp.EntityType{trp.EntityTypeColumnHeader}
			}
			cell.AddIDsToRelationships(trp.RelationshipChild, w.ID)
			t.AddIDsToRelationships(trp.RelationshipChild, cell.ID)
			pb.blocks = append(pb.blocks, cell, w)
		}
	}
	return pb
}

func newDocument(t *testing.T, pages ...*pageBuilder) *trp.Document {
	t.Helper()
	var blocks []*trp.Block
	for _, pb := range pages {
		blocks = append(blocks, pb.blocks...)
	}
	doc, err := trp.New(&trp.Response{Blocks: blocks})
	require.NoError(t, err)
	return doc
}

var header = []string{"Date", "Description", "Amount"}

// splitTableDocument has a table with five body rows at the bottom of page 1 that
// continues with two rows at the top of page 2.
func splitTableDocument(t *testing.T) *trp.Document {
	return newDocument(t,
		newPage(1).line("title", "Statement", 0.05).table("t1", 0.1, 0.6, 0.8, header, 5),
		newPage(2).table("t2", 0.1, 0.05, 0.8, header, 2).line("after", "Thank you", 0.5),
	)
}
