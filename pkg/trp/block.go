package trp

import (
	"slices"

	"github.com/google/uuid"
)

// Relationship is a typed, ordered edge from a block to other blocks by id.
type Relationship struct {
	Type RelationshipType `json:"Type,omitempty"`
	IDs  []string         `json:"Ids,omitempty"`
}

// Query is the payload of a QUERY block.
type Query struct {
	Text  string   `json:"Text,omitempty"`
	Alias string   `json:"Alias,omitempty"`
	Pages []string `json:"Pages,omitempty"`
}

// Block is the universal node of the document graph. Two blocks are the same entity
// when their ids are equal; the other fields play no part in identity.
type Block struct {
	ID              string         `json:"Id"`
	BlockType       BlockType      `json:"BlockType,omitempty"`
	Geometry        *Geometry      `json:"Geometry,omitempty"`
	Confidence      *float64       `json:"Confidence,omitempty"`
	Text            string         `json:"Text,omitempty"`
	TextType        string         `json:"TextType,omitempty"`
	EntityTypes     []EntityType   `json:"EntityTypes,omitempty"`
	Page            int            `json:"Page,omitempty"`
	RowIndex        int            `json:"RowIndex,omitempty"`
	ColumnIndex     int            `json:"ColumnIndex,omitempty"`
	RowSpan         int            `json:"RowSpan,omitempty"`
	ColumnSpan      int            `json:"ColumnSpan,omitempty"`
	SelectionStatus string         `json:"SelectionStatus,omitempty"`
	Relationships   []Relationship `json:"Relationships,omitempty"`
	Query           *Query         `json:"Query,omitempty"`
	Custom          map[string]any `json:"Custom,omitempty"`
}

// NewID returns a fresh block id.
func NewID() string {
	return uuid.NewString()
}

// Float returns a pointer to v, for optional fields such as Block.Confidence.
func Float(v float64) *float64 {
	return &v
}

// RelationshipFor returns the first relationship of the given type, or nil.
func (b *Block) RelationshipFor(relType RelationshipType) *Relationship {
	if b == nil {
		return nil
	}
	for i := range b.Relationships {
		if b.Relationships[i].Type == relType {
			return &b.Relationships[i]
		}
	}
	return nil
}

// RelatedIDs returns the ids of all relationships of the given type, in order.
// A nil block has none.
func (b *Block) RelatedIDs(relType RelationshipType) []string {
	if b == nil {
		return nil
	}
	var ids []string
	for _, r := range b.Relationships {
		if r.Type == relType {
			ids = append(ids, r.IDs...)
		}
	}
	return ids
}

// AddIDsToRelationships appends ids to the relationship of relType, creating it
// when missing. Ids already present are not added twice.
func (b *Block) AddIDsToRelationships(relType RelationshipType, ids ...string) {
	rel := b.RelationshipFor(relType)
	if rel == nil {
		b.Relationships = append(b.Relationships, Relationship{Type: relType})
		rel = &b.Relationships[len(b.Relationships)-1]
	}
	for _, id := range ids {
		if !slices.Contains(rel.IDs, id) {
			rel.IDs = append(rel.IDs, id)
		}
	}
}

// HasEntityType reports whether the block carries the given role tag.
func (b *Block) HasEntityType(et EntityType) bool {
	return b != nil && slices.Contains(b.EntityTypes, et)
}

// RemoveEntityType drops every occurrence of et from the block's role tags.
func (b *Block) RemoveEntityType(et EntityType) {
	b.EntityTypes = slices.DeleteFunc(b.EntityTypes, func(e EntityType) bool { return e == et })
}

// SetCustom stores value under key in the block's custom annotations.
func (b *Block) SetCustom(key string, value any) {
	if b.Custom == nil {
		b.Custom = make(map[string]any)
	}
	b.Custom[key] = value
}

// CustomFloat reads a numeric custom annotation, whether it was set in process or
// decoded from JSON.
func (b *Block) CustomFloat(key string) (float64, bool) {
	switch v := b.Custom[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// PageSize returns the width and height recorded on a page block by an importer.
func (b *Block) PageSize() (width, height float64, ok bool) {
	width, okW := b.CustomFloat(CustomPageWidth)
	height, okH := b.CustomFloat(CustomPageHeight)
	if !okW || !okH || width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// Rotate rotates the block's geometry around origin. Blocks without geometry are
// left unchanged.
func (b *Block) Rotate(origin Point, degrees float64) {
	if b.Geometry == nil {
		return
	}
	g := b.Geometry.Rotate(origin, degrees)
	b.Geometry = &g
}

// scrubIDs removes the given ids from every relationship of the block and drops
// relationships that end up empty. It reports whether anything changed.
func (b *Block) scrubIDs(gone map[string]struct{}) bool {
	changed := false
	kept := b.Relationships[:0]
	for _, r := range b.Relationships {
		ids := slices.DeleteFunc(r.IDs, func(id string) bool {
			_, ok := gone[id]
			return ok
		})
		removed := len(ids) != len(r.IDs)
		r.IDs = ids
		if removed {
			changed = true
			if len(r.IDs) == 0 {
				continue
			}
		}
		kept = append(kept, r)
	}
	b.Relationships = kept
	return changed
}
