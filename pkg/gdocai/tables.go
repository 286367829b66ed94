package gdocai

import (
	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// table converts a Document AI table to a TABLE block and its CELL blocks. Header
// rows come first and their cells are tagged COLUMN_HEADER. Column indexes follow
// the column spans of the preceding cells of the row.
func (pc *pageConverter) table(index int, table *documentaipb.Document_Page_Table) *trp.Block {
	t := &trp.Block{
		ID:         pc.id("table", index),
		BlockType:  trp.BlockTypeTable,
		Page:       pc.number,
		Confidence: confidence(table.Layout),
		Geometry:   pc.geometry(table.Layout),
	}

	rowIndex := 0
	addRows := func(rows []*documentaipb.Document_Page_Table_TableRow, header bool) {
		for _, row := range rows {
			rowIndex++
			col := 1
			for _, c := range row.Cells {
				cell := &trp.Block{
					ID:          pc.id("table", index, rowIndex, col),
					BlockType:   trp.BlockTypeCell,
					Page:        pc.number,
					RowIndex:    rowIndex,
					ColumnIndex: col,
					RowSpan:     max(1, int(c.RowSpan)),
					ColumnSpan:  max(1, int(c.ColSpan)),
					Confidence:  confidence(c.Layout),
					Geometry:    pc.geometry(c.Layout),
				}
				if header {
					cell.EntityTypes = []trp.EntityType{trp.EntityTypeColumnHeader}
				}
				pc.link(cell, pc.wordsWithin(spansOf(c.Layout)))
				t.AddIDsToRelationships(trp.RelationshipChild, cell.ID)
				pc.blocks = append(pc.blocks, cell)
				col += cell.ColumnSpan
			}
		}
	}
	addRows(table.HeaderRows, true)
	addRows(table.BodyRows, false)
	return t
}
