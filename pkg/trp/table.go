package trp

import (
	"sort"
	"strings"
)

// Cell is a CELL block with its resolved content.
type Cell struct {
	Block   *Block
	Content []*Block

	// Merged is the MERGED_CELL spanning this cell, if any.
	Merged *MergedCell
}

// Text returns the words of the cell separated by spaces followed by the status of
// its selection elements.
func (c *Cell) Text() string {
	return TextForBlocks(c.Content)
}

// MergedText returns the text of the merged cell spanning c, or c's own text.
func (c *Cell) MergedText() string {
	if c.Merged != nil {
		return c.Merged.Text()
	}
	return c.Text()
}

// IsHeader reports whether the cell is tagged COLUMN_HEADER.
func (c *Cell) IsHeader() bool {
	return c.Block.HasEntityType(EntityTypeColumnHeader)
}

// MergedCell is a MERGED_CELL block with the cells it spans.
type MergedCell struct {
	Block *Block
	Cells []*Cell
}

// Text joins the non-empty text of the spanned cells.
func (m *MergedCell) Text() string {
	parts := make([]string, 0, len(m.Cells))
	for _, c := range m.Cells {
		if t := c.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Row is one table row, cells sorted by column index.
type Row struct {
	Index int
	Cells []*Cell
}

// IsHeader reports whether any cell of the row is a column header.
func (r Row) IsHeader() bool {
	for _, c := range r.Cells {
		if c.IsHeader() {
			return true
		}
	}
	return false
}

// Texts returns the text of each cell of the row.
func (r Row) Texts() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text()
	}
	return out
}

// Table is a row/column view over a TABLE block.
type Table struct {
	Block       *Block
	Rows        []Row
	MergedCells []*MergedCell
}

// Table resolves the cells of a TABLE block into rows. Row i of the result holds
// the cells with RowIndex i+1; missing row indexes give empty rows.
func (d *Document) Table(table *Block) (*Table, error) {
	cellBlocks, err := d.resolve(table.RelatedIDs(RelationshipChild))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Cell, len(cellBlocks))
	cells := make([]*Cell, 0, len(cellBlocks))
	maxRow := 0
	for _, cb := range cellBlocks {
		content, err := d.resolve(cb.RelatedIDs(RelationshipChild))
		if err != nil {
			return nil, err
		}
		c := &Cell{Block: cb, Content: content}
		byID[cb.ID] = c
		cells = append(cells, c)
		maxRow = max(maxRow, cb.RowIndex)
	}
	sort.SliceStable(cells, func(i, j int) bool {
		a, b := cells[i].Block, cells[j].Block
		if a.RowIndex != b.RowIndex {
			return a.RowIndex < b.RowIndex
		}
		return a.ColumnIndex < b.ColumnIndex
	})

	t := &Table{Block: table, Rows: make([]Row, maxRow)}
	for i := range t.Rows {
		t.Rows[i].Index = i + 1
	}
	for _, c := range cells {
		if c.Block.RowIndex < 1 {
			continue
		}
		r := &t.Rows[c.Block.RowIndex-1]
		r.Cells = append(r.Cells, c)
	}

	merged, err := d.resolve(table.RelatedIDs(RelationshipMergedCell))
	if err != nil {
		return nil, err
	}
	for _, mb := range merged {
		m := &MergedCell{Block: mb}
		for _, id := range mb.RelatedIDs(RelationshipChild) {
			if c, ok := byID[id]; ok {
				c.Merged = m
				m.Cells = append(m.Cells, c)
			}
		}
		t.MergedCells = append(t.MergedCells, m)
	}
	return t, nil
}

// Header returns the rows containing column header cells, each reduced to its
// header cells.
func (t *Table) Header() [][]*Cell {
	var out [][]*Cell
	for _, r := range t.Rows {
		var header []*Cell
		for _, c := range r.Cells {
			if c.IsHeader() {
				header = append(header, c)
			}
		}
		if len(header) > 0 {
			out = append(out, header)
		}
	}
	return out
}

// RowsWithoutHeader returns the rows that have no column header cell.
func (t *Table) RowsWithoutHeader() []Row {
	var out []Row
	for _, r := range t.Rows {
		if !r.IsHeader() {
			out = append(out, r)
		}
	}
	return out
}

// HeaderFieldNames returns the trimmed text of every header row, using the merged
// text for cells covered by a merged cell.
func (t *Table) HeaderFieldNames() [][]string {
	var out [][]string
	for _, header := range t.Header() {
		names := make([]string, len(header))
		for i, c := range header {
			names[i] = strings.TrimSpace(c.MergedText())
		}
		out = append(out, names)
	}
	return out
}

// FirstRow returns the first row of the table, or an empty row.
func (t *Table) FirstRow() Row {
	if len(t.Rows) == 0 {
		return Row{}
	}
	return t.Rows[0]
}
