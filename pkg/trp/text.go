package trp

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TextForBlocks joins the text and selection status of blocks with single spaces.
func TextForBlocks(blocks []*Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != nil && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	for _, b := range blocks {
		if b != nil && b.SelectionStatus != "" {
			parts = append(parts, b.SelectionStatus)
		}
	}
	return strings.Join(parts, " ")
}

// foldText normalizes s for case-insensitive comparison.
func foldText(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// SearchKeys returns the keys whose text contains name, ignoring case and
// Unicode normalization differences.
func (d *Document) SearchKeys(name string) ([]*Block, error) {
	keys, err := d.Keys(nil)
	if err != nil {
		return nil, err
	}
	needle := foldText(name)
	var out []*Block
	for _, k := range keys {
		text, err := d.KeyText(k)
		if err != nil {
			return nil, err
		}
		if strings.Contains(foldText(text), needle) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Field is a resolved key/value pair.
type Field struct {
	Key   *Block
	Name  string
	Value string
}

// Fields resolves the keys of page into name/value text pairs. Keys without
// content are left out.
func (d *Document) Fields(page *Block) ([]Field, error) {
	keys, err := d.Keys(page)
	if err != nil {
		return nil, err
	}
	var out []Field
	for _, k := range keys {
		name, err := d.KeyText(k)
		if err != nil {
			return nil, err
		}
		if name == "" {
			d.Logger.WithField("key", k.ID).Info("key without content, excluded from fields")
			continue
		}
		values, err := d.ValueForKey(k)
		if err != nil {
			return nil, err
		}
		out = append(out, Field{Key: k, Name: name, Value: TextForBlocks(values)})
	}
	return out, nil
}

// LinesInReadingOrder groups the lines of page into columns by horizontal overlap
// and returns them column by column. Within a column the document order is kept.
func (d *Document) LinesInReadingOrder(page *Block) ([]*Block, error) {
	lines, err := d.Lines(page)
	if err != nil {
		return nil, err
	}

	type column struct{ left, right float64 }
	type placed struct {
		column int
		line   *Block
	}
	var columns []column
	var out []placed

	for _, line := range lines {
		if line.Geometry == nil {
			out = append(out, placed{column: len(columns), line: line})
			continue
		}
		box := line.Geometry.BoundingBox
		centre := box.Centre().X
		found := -1
		for i, c := range columns {
			columnCentre := c.left + (c.right-c.left)/2
			if (centre > c.left && centre < c.right) || (columnCentre > box.Left && columnCentre < box.Right()) {
				found = i
				break
			}
		}
		if found < 0 {
			columns = append(columns, column{left: box.Left, right: box.Right()})
			found = len(columns) - 1
		}
		out = append(out, placed{column: found, line: line})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].column < out[j].column })
	result := make([]*Block, len(out))
	for i, p := range out {
		result[i] = p.line
	}
	return result, nil
}

// TextInReadingOrder returns the text of page's lines in reading order, one per line.
func (d *Document) TextInReadingOrder(page *Block) (string, error) {
	lines, err := d.LinesInReadingOrder(page)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
