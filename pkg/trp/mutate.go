package trp

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// AddBlock appends block to the document and links it as a CHILD of page, or of
// the first page when page is nil. A block without id gets a generated one. A block
// whose id is already present is only linked.
func (d *Document) AddBlock(block *Block, page *Block) error {
	if block == nil {
		return fmt.Errorf("nil block: %w", ErrInvalidArgument)
	}
	if page == nil {
		p, err := d.firstPage()
		if err != nil {
			return fmt.Errorf("failed to add block: %w", err)
		}
		page = p
	}
	if block.ID == "" {
		block.ID = NewID()
	}
	if _, exists := d.index.position(block.ID); !exists {
		d.blocks = append(d.blocks, block)
		d.index.add(block, len(d.blocks)-1)
	}
	page.AddIDsToRelationships(RelationshipChild, block.ID)
	d.invalidate()
	return nil
}

// DeleteBlocks removes the blocks with the given ids and every reference to them
// from the remaining blocks' relationships. Unknown ids are logged and skipped.
func (d *Document) DeleteBlocks(ids ...string) {
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := d.index.position(id); !ok {
			d.Logger.WithField("id", id).Warn("delete blocks: no block for id")
			continue
		}
		gone[id] = struct{}{}
		d.index.remove(id)
	}
	if len(gone) == 0 {
		return
	}

	d.blocks = slices.DeleteFunc(d.blocks, func(b *Block) bool {
		_, ok := gone[b.ID]
		return ok
	})
	for _, b := range d.blocks {
		b.scrubIDs(gone)
	}
	d.reindex()
}

// MergeTables merges each group of table ids into its first table. The cells of
// every following table are appended to the first table's CHILD relationship with
// their row index shifted below the rows already there, their COLUMN_HEADER tag is
// dropped, and the emptied table is deleted.
//
// The row offset is the row index of the parent's last listed cell, so the
// relationship order is trusted to follow row order. Cells without a row index are
// skipped, as is a child when the parent has no cells.
func (d *Document) MergeTables(groups [][]string) error {
	defer d.invalidate()

	for _, group := range groups {
		if len(group) < 2 {
			return fmt.Errorf("merge tables: need a parent and at least one child table, got %v: %w", group, ErrInvalidArgument)
		}
		if id, ok := repeatedID(group); ok {
			return fmt.Errorf("merge tables: table %s listed twice in %v: %w", id, group, ErrInvalidArgument)
		}
		parent, err := d.GetBlockByID(group[0])
		if err != nil {
			return fmt.Errorf("merge tables: parent table: %w", err)
		}

		for _, childID := range group[1:] {
			rel := parent.RelationshipFor(RelationshipChild)
			if rel == nil || len(rel.IDs) == 0 {
				d.Logger.WithFields(logrus.Fields{"parent": parent.ID, "child": childID}).
					Warn("merge tables: parent table has no cells, child left in place")
				continue
			}
			lastCell, err := d.GetBlockByID(rel.IDs[len(rel.IDs)-1])
			if err != nil {
				return fmt.Errorf("merge tables: parent cell: %w", err)
			}
			lastRow := lastCell.RowIndex

			child, err := d.GetBlockByID(childID)
			if err != nil {
				return fmt.Errorf("merge tables: child table: %w", err)
			}
			cells, err := d.resolve(child.RelatedIDs(RelationshipChild))
			if err != nil {
				return fmt.Errorf("merge tables: child cell: %w", err)
			}
			for _, cell := range cells {
				if cell.RowIndex == 0 || lastRow == 0 {
					d.Logger.WithFields(logrus.Fields{"cell": cell.ID, "child": childID}).
						Warn("merge tables: cell or parent without row index skipped")
					continue
				}
				cell.RowIndex += lastRow
				cell.RemoveEntityType(EntityTypeColumnHeader)
				parent.AddIDsToRelationships(RelationshipChild, cell.ID)
			}
			d.DeleteBlocks(childID)
		}
	}
	return nil
}

// LinkTables records next_table / previous_table ids in the Custom map of
// consecutive tables of each group, leaving their cells untouched. Nothing is
// written unless every group resolves.
func (d *Document) LinkTables(groups [][]string) error {
	defer d.invalidate()

	resolved := make([][]*Block, len(groups))
	for g, group := range groups {
		if len(group) < 2 {
			return fmt.Errorf("link tables: need at least two tables, got %v: %w", group, ErrInvalidArgument)
		}
		if id, ok := repeatedID(group); ok {
			return fmt.Errorf("link tables: table %s listed twice in %v: %w", id, group, ErrInvalidArgument)
		}
		tables, err := d.resolve(group)
		if err != nil {
			return fmt.Errorf("link tables: %w", err)
		}
		resolved[g] = tables
	}

	for g, tables := range resolved {
		group := groups[g]
		for i, table := range tables {
			if i > 0 {
				table.SetCustom(CustomPreviousTable, group[i-1])
			}
			if i < len(group)-1 {
				table.SetCustom(CustomNextTable, group[i+1])
			}
		}
	}
	return nil
}

func repeatedID(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return "", false
}

// AddVirtualBlock creates a WORD block with zero geometry carrying text and adds it
// to page. An empty textType defaults to VIRTUAL.
func (d *Document) AddVirtualBlock(text string, page *Block, textType string) (*Block, error) {
	if textType == "" {
		textType = TextTypeVirtual
	}
	b := &Block{
		ID:         NewID(),
		BlockType:  BlockTypeWord,
		Text:       text,
		TextType:   textType,
		Geometry:   virtualGeometry(),
		Confidence: Float(99),
	}
	if page != nil {
		b.Page = page.Page
	}
	if err := d.AddBlock(b, page); err != nil {
		return nil, err
	}
	return b, nil
}

// GeometryFromBlocks returns the envelope of the bounding boxes of blocks. Blocks
// without geometry are ignored.
func GeometryFromBlocks(blocks []*Block) Geometry {
	var points []Point
	for _, b := range blocks {
		if b != nil && b.Geometry != nil {
			points = append(points, b.Geometry.BoundingBox.Points()...)
		}
	}
	return GeometryFromBox(envelope(points, nil))
}

// CreateValueBlock builds a KEY_VALUE_SET VALUE block over values. Its geometry is
// the union of theirs and its confidence their mean. The block is not added to any
// document.
func CreateValueBlock(values []*Block) *Block {
	v := &Block{
		ID:          NewID(),
		BlockType:   BlockTypeKeyValueSet,
		EntityTypes: []EntityType{EntityTypeValue},
	}
	ids := make([]string, 0, len(values))
	var sum float64
	var n int
	for _, b := range values {
		ids = append(ids, b.ID)
		if b.Confidence != nil {
			sum += *b.Confidence
			n++
		}
	}
	v.AddIDsToRelationships(RelationshipChild, ids...)
	g := GeometryFromBlocks(values)
	v.Geometry = &g
	if n > 0 {
		v.Confidence = Float(sum / float64(n))
	}
	if len(values) > 0 {
		v.Page = values[0].Page
	}
	return v
}

// AddKeyValues synthesizes a key named keyName whose value is made of the existing
// blocks values. The key, its virtual name word and the value block go to the page
// of the first value (page 1 when unknown). With no values an empty virtual word is
// created as the value.
func (d *Document) AddKeyValues(keyName string, values []*Block, page *Block) (*Block, error) {
	if keyName == "" {
		return nil, fmt.Errorf("add key values: key name required: %w", ErrInvalidArgument)
	}
	if len(values) == 0 {
		d.Logger.WithField("key", keyName).Debug("add key values: no values, creating empty virtual value")
		empty, err := d.AddVirtualBlock("", page, "")
		if err != nil {
			return nil, err
		}
		values = []*Block{empty}
	}
	for _, v := range values {
		if v == nil || v.ID == "" || d.FindBlockByID(v.ID) == nil {
			return nil, fmt.Errorf("add key values: value blocks must already exist in the document: %w", ErrInvalidArgument)
		}
	}

	target := d.PageByNumber(values[0].Page)
	if target == nil {
		p, err := d.firstPage()
		if err != nil {
			return nil, err
		}
		target = p
	}

	value := CreateValueBlock(values)
	value.Page = target.Page
	if err := d.AddBlock(value, target); err != nil {
		return nil, err
	}

	name, err := d.AddVirtualBlock(keyName, target, "")
	if err != nil {
		return nil, err
	}

	key := &Block{
		ID:          NewID(),
		BlockType:   BlockTypeKeyValueSet,
		EntityTypes: []EntityType{EntityTypeKey},
		Confidence:  Float(99),
		Geometry:    virtualGeometry(),
		Page:        target.Page,
	}
	key.AddIDsToRelationships(RelationshipValue, value.ID)
	key.AddIDsToRelationships(RelationshipChild, name.ID)
	d.Logger.WithFields(logrus.Fields{"id": key.ID, "key": keyName}).Debug("add key")
	if err := d.AddBlock(key, target); err != nil {
		return nil, err
	}
	return key, nil
}

// AddVirtualKeyForExistingKey adds a key named keyName that shares the value blocks
// of existingKey.
func (d *Document) AddVirtualKeyForExistingKey(keyName string, existingKey *Block, page *Block) (*Block, error) {
	if existingKey == nil || existingKey.BlockType != BlockTypeKeyValueSet || !existingKey.HasEntityType(EntityTypeKey) {
		return nil, fmt.Errorf("add virtual key %q: existing block is not a KEY: %w", keyName, ErrInvalidArgument)
	}
	values, err := d.ValueForKey(existingKey)
	if err != nil {
		return nil, err
	}
	return d.AddKeyValues(keyName, values, page)
}

// Rotate rotates the geometry of every block reachable from page around origin.
func (d *Document) Rotate(page *Block, degrees float64, origin Point) error {
	if page == nil {
		return fmt.Errorf("rotate: need a page: %w", ErrInvalidArgument)
	}
	if degrees == 0 {
		return fmt.Errorf("rotate: need degrees: %w", ErrInvalidArgument)
	}
	blocks, err := d.RelationshipsRecursive(page)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		b.Rotate(origin, degrees)
	}
	d.invalidate()
	return nil
}
