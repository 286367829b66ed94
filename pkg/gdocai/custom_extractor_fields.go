package gdocai

import (
	"fmt"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// entityBlocks converts the entities of a custom extractor into QUERY blocks named
// after the entity type, each answered by a QUERY_RESULT carrying the mention text.
// Nested properties become queries of their own named "parent/child". Entities
// without a type are skipped.
func entityBlocks(entities []*documentaipb.Document_Entity, runes []rune, pages []*pageConverter) []*trp.Block {
	var out []*trp.Block
	var walk func(prefix string, entity *documentaipb.Document_Entity, page int)
	counter := 0

	walk = func(prefix string, entity *documentaipb.Document_Entity, page int) {
		if entity.Type == "" {
			return
		}
		name := entity.Type
		if prefix != "" {
			name = prefix + "/" + entity.Type
		}
		if refs := entity.GetPageAnchor().GetPageRefs(); len(refs) > 0 {
			page = int(refs[0].Page) + 1
		}

		mention := entity.MentionText
		if mention == "" {
			mention = strings.TrimSpace(textFromAnchor(entity.TextAnchor, runes))
		}

		counter++
		id := fmt.Sprintf("entity-%d", counter)
		if entity.Id != "" {
			id = "entity-" + entity.Id
		}
		query := &trp.Block{
			ID:        id,
			BlockType: trp.BlockTypeQuery,
			Page:      page,
			Query:     &trp.Query{Text: name, Alias: name},
		}
		out = append(out, query)

		if mention != "" {
			answer := &trp.Block{
				ID:        id + "-answer",
				BlockType: trp.BlockTypeQueryResult,
				Page:      page,
				Text:      mention,
			}
			if entity.Confidence > 0 {
				answer.Confidence = trp.Float(float64(entity.Confidence) * 100)
			}
			if pc := pageByNumber(pages, page); pc != nil {
				if refs := entity.GetPageAnchor().GetPageRefs(); len(refs) > 0 {
					answer.Geometry = pc.geometry(&documentaipb.Document_Page_Layout{BoundingPoly: refs[0].BoundingPoly})
				}
			}
			query.AddIDsToRelationships(trp.RelationshipAnswer, answer.ID)
			out = append(out, answer)
		}

		for _, prop := range entity.Properties {
			walk(name, prop, page)
		}
	}

	for _, e := range entities {
		walk("", e, 1)
	}
	return out
}

func pageByNumber(pages []*pageConverter, number int) *pageConverter {
	for _, pc := range pages {
		if pc.number == number {
			return pc
		}
	}
	return nil
}
