package trp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipHelpers(t *testing.T) {
	b := &Block{ID: "k"}
	assert.Nil(t, b.RelationshipFor(RelationshipChild))
	assert.Empty(t, b.RelatedIDs(RelationshipChild))

	b.AddIDsToRelationships(RelationshipChild, "w1", "w2")
	b.AddIDsToRelationships(RelationshipChild, "w2", "w3")
	b.AddIDsToRelationships(RelationshipValue, "v")

	assert.Equal(t, []string{"w1", "w2", "w3"}, b.RelatedIDs(RelationshipChild))
	assert.Equal(t, []string{"v"}, b.RelatedIDs(RelationshipValue))
	assert.Len(t, b.Relationships, 2)
}

func TestNilBlockRelationships(t *testing.T) {
	var b *Block
	assert.Nil(t, b.RelationshipFor(RelationshipChild))
	assert.Nil(t, b.RelatedIDs(RelationshipChild))
}

func TestEntityTypes(t *testing.T) {
	b := &Block{EntityTypes: []EntityType{EntityTypeKey, EntityTypeColumnHeader}}
	assert.True(t, b.HasEntityType(EntityTypeColumnHeader))

	b.RemoveEntityType(EntityTypeColumnHeader)
	assert.False(t, b.HasEntityType(EntityTypeColumnHeader))
	assert.True(t, b.HasEntityType(EntityTypeKey))
}

func TestCustomFloat(t *testing.T) {
	b := &Block{}
	_, ok := b.CustomFloat("missing")
	assert.False(t, ok)

	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"float64", 1.5, 1.5},
		{"float32", float32(1.5), 1.5},
		{"int", 2, 2},
		{"int64", int64(-3), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b.SetCustom("v", tt.value)
			got, ok := b.CustomFloat("v")
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	b.SetCustom("v", "1.5")
	_, ok = b.CustomFloat("v")
	assert.False(t, ok)
}

func TestPageSize(t *testing.T) {
	page := &Block{BlockType: BlockTypePage}
	_, _, ok := page.PageSize()
	assert.False(t, ok)

	page.SetCustom(CustomPageWidth, 1700.0)
	page.SetCustom(CustomPageHeight, 2200)
	w, h, ok := page.PageSize()
	assert.True(t, ok)
	assert.Equal(t, 1700.0, w)
	assert.Equal(t, 2200.0, h)

	page.SetCustom(CustomPageHeight, 0)
	_, _, ok = page.PageSize()
	assert.False(t, ok)
}
