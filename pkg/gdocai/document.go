package gdocai

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// ResponseFromProto converts a Document AI document into a trp.Response. Block ids
// are derived from page and element positions, so converting the same document
// twice gives the same ids.
func ResponseFromProto(doc *documentaipb.Document) (*trp.Response, error) {
	if doc == nil {
		return nil, fmt.Errorf("no Document AI document: %w", trp.ErrInvalidArgument)
	}
	runes := []rune(doc.Text)

	pages := append([]*documentaipb.Document_Page(nil), doc.Pages...)
	// Sort pages by number if there are multiple
	if len(pages) > 1 && pages[0].PageNumber > 0 {
		sort.SliceStable(pages, func(i, j int) bool {
			return pages[i].PageNumber < pages[j].PageNumber
		})
	}

	resp := &trp.Response{
		Metadata: trp.Metadata{
			DocumentMetadata: &trp.DocumentMetadata{Pages: len(pages)},
		},
	}
	if lang := documentLanguage(doc); lang != "" {
		resp.Custom = map[string]any{trp.CustomLanguage: lang}
	}

	pageBlocks := make(map[int]*trp.Block, len(pages))
	converters := make([]*pageConverter, 0, len(pages))
	for i, page := range pages {
		number := int(page.PageNumber)
		if number == 0 {
			number = i + 1
		}
		pc := newPageConverter(page, number, runes)
		pc.convert()
		pageBlocks[number] = pc.block
		converters = append(converters, pc)
	}

	entities := entityBlocks(doc.Entities, runes, converters)
	for _, pc := range converters {
		resp.Blocks = append(resp.Blocks, pc.blocks...)
	}
	for _, e := range entities {
		page, ok := pageBlocks[e.Page]
		if !ok {
			return nil, fmt.Errorf("entity %s refers to missing page %d: %w", e.ID, e.Page, trp.ErrInvalidArgument)
		}
		if e.BlockType == trp.BlockTypeQuery {
			page.AddIDsToRelationships(trp.RelationshipChild, e.ID)
		}
		resp.Blocks = append(resp.Blocks, e)
	}
	return resp, nil
}

func newPageConverter(page *documentaipb.Document_Page, number int, runes []rune) *pageConverter {
	pc := &pageConverter{
		text:      runes,
		page:      page,
		number:    number,
		dimension: page.Dimension,
	}
	pc.block = &trp.Block{
		ID:        fmt.Sprintf("page-%d", number),
		BlockType: trp.BlockTypePage,
		Page:      number,
		Geometry:  pc.geometry(page.Layout),
	}
	if pc.block.Geometry == nil {
		g := trp.GeometryFromBox(trp.BoundingBox{Width: 1, Height: 1})
		pc.block.Geometry = &g
	}
	if d := page.Dimension; d != nil {
		pc.block.SetCustom(trp.CustomPageWidth, float64(d.Width))
		pc.block.SetCustom(trp.CustomPageHeight, float64(d.Height))
		pc.block.SetCustom(trp.CustomPageUnit, d.Unit)
	}
	if len(page.DetectedLanguages) > 0 {
		pc.block.SetCustom(trp.CustomLanguage, page.DetectedLanguages[0].LanguageCode)
	}
	pc.blocks = []*trp.Block{pc.block}
	return pc
}

// convert builds words, lines, tables and form fields of the page in that order.
func (pc *pageConverter) convert() {
	for i, token := range pc.page.Tokens {
		b := &trp.Block{
			ID:         pc.id("word", i),
			BlockType:  trp.BlockTypeWord,
			Page:       pc.number,
			Text:       tokenText(token, pc.text),
			Confidence: confidence(token.Layout),
			Geometry:   pc.geometry(token.Layout),
		}
		var s span
		if spans := spansOf(token.Layout); len(spans) > 0 {
			s = spans[0]
		}
		pc.words = append(pc.words, word{block: b, span: s})
		pc.blocks = append(pc.blocks, b)
	}

	for i, line := range pc.page.Lines {
		b := &trp.Block{
			ID:         pc.id("line", i),
			BlockType:  trp.BlockTypeLine,
			Page:       pc.number,
			Confidence: confidence(line.Layout),
			Geometry:   pc.geometry(line.Layout),
		}
		b.Text = strings.TrimSpace(textFromLayout(line.Layout, pc.text))
		pc.link(b, pc.wordsWithin(spansOf(line.Layout)))
		pc.add(b)
	}

	for i, table := range pc.page.Tables {
		pc.add(pc.table(i, table))
	}

	for i, field := range pc.page.FormFields {
		key, value := pc.formField(i, field)
		pc.add(key)
		pc.add(value)
	}
}

// add appends b to the page's blocks and lists it as a child of the page.
func (pc *pageConverter) add(b *trp.Block) {
	pc.blocks = append(pc.blocks, b)
	pc.block.AddIDsToRelationships(trp.RelationshipChild, b.ID)
}

// link adds children to the CHILD relationship of b.
func (pc *pageConverter) link(b *trp.Block, children []*trp.Block) {
	if len(children) == 0 {
		return
	}
	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	b.AddIDsToRelationships(trp.RelationshipChild, ids...)
}

func (pc *pageConverter) id(kind string, parts ...int) string {
	id := fmt.Sprintf("page-%d-%s", pc.number, kind)
	for _, p := range parts {
		id += fmt.Sprintf("-%d", p)
	}
	return id
}

// wordsWithin returns the words whose text lies inside one of spans, in token order.
func (pc *pageConverter) wordsWithin(spans []span) []*trp.Block {
	if len(spans) == 0 {
		return nil
	}
	var out []*trp.Block
	for _, w := range pc.words {
		if w.span.end <= w.span.start {
			continue
		}
		for _, s := range spans {
			if s.contains(w.span) {
				out = append(out, w.block)
				break
			}
		}
	}
	return out
}

// geometry converts a layout's bounding polygon to normalized page space. Absolute
// vertices are divided by the page dimension.
func (pc *pageConverter) geometry(layout *documentaipb.Document_Page_Layout) *trp.Geometry {
	if layout == nil || layout.BoundingPoly == nil {
		return nil
	}
	var poly []trp.Point
	if nv := layout.BoundingPoly.NormalizedVertices; len(nv) > 0 {
		for _, v := range nv {
			poly = append(poly, trp.Point{X: float64(v.X), Y: float64(v.Y)})
		}
	} else if d := pc.dimension; d != nil && d.Width > 0 && d.Height > 0 {
		for _, v := range layout.BoundingPoly.Vertices {
			poly = append(poly, trp.Point{X: float64(v.X), Y: float64(v.Y)}.Ratio(float64(d.Width), float64(d.Height)))
		}
	}
	if len(poly) == 0 {
		return nil
	}
	g := trp.GeometryFromPolygon(poly)
	return &g
}

// confidence converts a layout confidence in [0,1] to a percentage.
func confidence(layout *documentaipb.Document_Page_Layout) *float64 {
	if layout == nil || layout.Confidence == 0 {
		return nil
	}
	return trp.Float(float64(layout.Confidence) * 100)
}

// documentLanguage finds the most common language in the document
// by counting language occurrences across pages and tokens
func documentLanguage(doc *documentaipb.Document) string {
	langCount := make(map[string]int)
	for _, page := range doc.Pages {
		for _, lang := range page.DetectedLanguages {
			langCount[lang.LanguageCode]++
		}
		for _, token := range page.Tokens {
			for _, lang := range token.DetectedLanguages {
				langCount[lang.LanguageCode]++
			}
		}
	}

	var mostCommonLang string
	var highestCount int
	for lang, count := range langCount {
		if count > highestCount || (count == highestCount && lang < mostCommonLang) {
			highestCount = count
			mostCommonLang = lang
		}
	}
	return mostCommonLang
}
