package gdocai

import (
	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// formField converts a Document AI form field into a KEY block pointing at a VALUE
// block. Both list the words of their part of the field as children.
func (pc *pageConverter) formField(index int, field *documentaipb.Document_Page_FormField) (key, value *trp.Block) {
	value = &trp.Block{
		ID:          pc.id("value", index),
		BlockType:   trp.BlockTypeKeyValueSet,
		EntityTypes: []trp.EntityType{trp.EntityTypeValue},
		Page:        pc.number,
		Confidence:  confidence(field.FieldValue),
		Geometry:    pc.geometry(field.FieldValue),
	}
	if field.ValueType != "" {
		value.SetCustom(CustomValueType, field.ValueType)
	}
	pc.link(value, pc.wordsWithin(spansOf(field.FieldValue)))

	key = &trp.Block{
		ID:          pc.id("key", index),
		BlockType:   trp.BlockTypeKeyValueSet,
		EntityTypes: []trp.EntityType{trp.EntityTypeKey},
		Page:        pc.number,
		Confidence:  confidence(field.FieldName),
		Geometry:    pc.geometry(field.FieldName),
	}
	key.AddIDsToRelationships(trp.RelationshipValue, value.ID)
	pc.link(key, pc.wordsWithin(spansOf(field.FieldName)))
	return key, value
}
