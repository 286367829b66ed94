package pipeline

import (
	"sort"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// OrderBlocksByGeo rebuilds the block list page by page: each page block followed
// by the blocks reachable from it, sorted by the top of their bounding box. Pages
// and blocks without geometry sort as if their top were 1. A block reachable from
// several pages is kept at its first place, and blocks no page reaches are appended
// in their previous order.
func OrderBlocksByGeo(doc *trp.Document) *trp.Document {
	blocks := doc.Blocks()
	placed := make(map[string]struct{}, len(blocks))
	ordered := make([]*trp.Block, 0, len(blocks))

	add := func(b *trp.Block) {
		if _, ok := placed[b.ID]; ok {
			return
		}
		placed[b.ID] = struct{}{}
		ordered = append(ordered, b)
	}

	for _, page := range doc.Pages() {
		add(page)
		related, err := doc.RelationshipsRecursive(page)
		if err != nil {
			// dangling ids: keep what the page lists directly
			doc.Logger.WithError(err).WithField("page", page.Page).Warn("order blocks: incomplete page closure")
			related = nil
			for _, id := range page.RelatedIDs(trp.RelationshipChild) {
				if b := doc.FindBlockByID(id); b != nil {
					related = append(related, b)
				}
			}
		}
		sort.SliceStable(related, func(i, j int) bool {
			return topOf(related[i]) < topOf(related[j])
		})
		for _, b := range related {
			add(b)
		}
	}
	for _, b := range blocks {
		add(b)
	}

	doc.SetBlocks(ordered)
	return doc
}

func topOf(b *trp.Block) float64 {
	if b.BlockType == trp.BlockTypePage || b.Geometry == nil {
		return 1
	}
	return b.Geometry.BoundingBox.Top
}
