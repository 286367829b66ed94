package hocr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// DefaultPageSize is the pixel width and height assumed for pages without a
// recorded size.
const DefaultPageSize = 1000.0

const capabilities = "ocr_page ocr_carea ocr_par ocr_line ocrx_word"

// FromDocument builds an hOCR document from the LINE blocks of every page of doc and
// their WORD children. Pixel coordinates use the page size recorded by the importer,
// or DefaultPageSize. A line without word children becomes a line of one word.
func FromDocument(doc *trp.Document) (*HOCR, error) {
	pages := doc.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("failed to build hOCR: %w", trp.ErrNoPages)
	}

	lang := "unknown"
	if l, ok := doc.Custom[trp.CustomLanguage].(string); ok && l != "" {
		lang = l
	}
	result := &HOCR{
		Title:    "Document OCR",
		Language: lang,
		Metadata: map[string]string{
			"ocr-system":          "ocrgraph",
			"ocr-number-of-pages": strconv.Itoa(len(pages)),
			"ocr-capabilities":    capabilities,
		},
	}

	langs := map[string]struct{}{lang: {}}
	for _, page := range pages {
		p, err := fromPage(doc, page)
		if err != nil {
			return nil, err
		}
		if p.Lang != "" {
			langs[p.Lang] = struct{}{}
		}
		result.Pages = append(result.Pages, p)
	}

	all := make([]string, 0, len(langs))
	for l := range langs {
		all = append(all, l)
	}
	sort.Strings(all)
	result.Metadata["ocr-langs"] = strings.Join(all, " ")
	return result, nil
}

func fromPage(doc *trp.Document, page *trp.Block) (Page, error) {
	width, height, ok := page.PageSize()
	if !ok {
		width, height = DefaultPageSize, DefaultPageSize
	}
	p := Page{
		ID:         fmt.Sprintf("page_%d", page.Page),
		PageNumber: page.Page,
		BBox:       NewBoundingBox(0, 0, width, height),
	}
	if l, ok := page.Custom[trp.CustomLanguage].(string); ok {
		p.Lang = l
	}

	lines, err := doc.Lines(page)
	if err != nil {
		return p, fmt.Errorf("failed to collect lines of page %d: %w", page.Page, err)
	}
	for i, line := range lines {
		l := Line{
			ID:   fmt.Sprintf("line_%d_%d", page.Page, i+1),
			BBox: pixelBox(line.Geometry, width, height),
		}
		children, err := doc.GetBlocksForRelationship(line.RelationshipFor(trp.RelationshipChild))
		if err != nil {
			return p, fmt.Errorf("failed to resolve words of line %s: %w", line.ID, err)
		}
		for _, w := range children {
			if w.BlockType != trp.BlockTypeWord {
				continue
			}
			word := Word{
				ID:   fmt.Sprintf("word_%d_%d_%d", page.Page, i+1, len(l.Words)+1),
				Text: w.Text,
				BBox: pixelBox(w.Geometry, width, height),
			}
			if w.Confidence != nil {
				word.Confidence = *w.Confidence
			}
			l.Words = append(l.Words, word)
		}
		if len(l.Words) == 0 && line.Text != "" {
			word := Word{ID: fmt.Sprintf("word_%d_%d_1", page.Page, i+1), Text: line.Text, BBox: l.BBox}
			if line.Confidence != nil {
				word.Confidence = *line.Confidence
			}
			l.Words = []Word{word}
		}
		p.Lines = append(p.Lines, l)
	}
	return p, nil
}

func pixelBox(g *trp.Geometry, width, height float64) BoundingBox {
	if g == nil {
		return BoundingBox{}
	}
	return BoundingBoxFromTRP(g.BoundingBox, width, height)
}

// ToResponse builds a PAGE block per hOCR page, a LINE block per line and a WORD
// block per non-empty word. Element ids are kept when present and unique. Pages
// record their pixel size, which must come from the page bbox.
func ToResponse(h *HOCR) (*trp.Response, error) {
	if h == nil || len(h.Pages) == 0 {
		return nil, fmt.Errorf("failed to convert hOCR: %w", trp.ErrNoPages)
	}
	resp := &trp.Response{
		Metadata: trp.Metadata{DocumentMetadata: &trp.DocumentMetadata{Pages: len(h.Pages)}},
	}
	if h.Language != "" && h.Language != "unknown" {
		resp.Custom = map[string]any{trp.CustomLanguage: h.Language}
	}

	ids := make(idSet)
	for i, page := range h.Pages {
		number := page.PageNumber
		if number <= 0 {
			number = i + 1
		}
		width, height := page.BBox.X2, page.BBox.Y2
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("page %d has no bounding box: %w", number, trp.ErrInvalidArgument)
		}

		full := trp.GeometryFromBox(trp.BoundingBox{Width: 1, Height: 1})
		pb := &trp.Block{
			ID:        ids.claim(page.ID),
			BlockType: trp.BlockTypePage,
			Page:      number,
			Geometry:  &full,
		}
		pb.SetCustom(trp.CustomPageWidth, width)
		pb.SetCustom(trp.CustomPageHeight, height)
		pb.SetCustom(trp.CustomPageUnit, "pixels")
		if page.Lang != "" {
			pb.SetCustom(trp.CustomLanguage, page.Lang)
		}
		resp.Blocks = append(resp.Blocks, pb)

		for _, line := range page.AllLines() {
			lb := &trp.Block{
				ID:        ids.claim(line.ID),
				BlockType: trp.BlockTypeLine,
				Page:      number,
				Text:      line.Text(),
				Geometry:  normalizedGeometry(line.BBox, width, height),
			}
			var words []*trp.Block
			var sum float64
			var scored int
			for _, w := range line.Words {
				if w.Text == "" {
					continue
				}
				wb := &trp.Block{
					ID:        ids.claim(w.ID),
					BlockType: trp.BlockTypeWord,
					Page:      number,
					Text:      w.Text,
					TextType:  "PRINTED",
					Geometry:  normalizedGeometry(w.BBox, width, height),
				}
				if w.Confidence > 0 {
					wb.Confidence = trp.Float(w.Confidence)
					sum += w.Confidence
					scored++
				}
				lb.AddIDsToRelationships(trp.RelationshipChild, wb.ID)
				words = append(words, wb)
			}
			if scored > 0 {
				lb.Confidence = trp.Float(sum / float64(scored))
			}
			pb.AddIDsToRelationships(trp.RelationshipChild, lb.ID)
			resp.Blocks = append(resp.Blocks, lb)
			resp.Blocks = append(resp.Blocks, words...)
		}
	}
	return resp, nil
}

// LoadDocument parses hOCR data into a trp.Document.
func LoadDocument(data []byte) (*trp.Document, error) {
	h, err := ParseHOCR(data)
	if err != nil {
		return nil, err
	}
	resp, err := ToResponse(&h)
	if err != nil {
		return nil, err
	}
	return trp.New(resp)
}

func normalizedGeometry(b BoundingBox, width, height float64) *trp.Geometry {
	if b.IsZero() {
		return nil
	}
	g := trp.GeometryFromBox(b.TRP(width, height))
	return &g
}

// idSet hands out block ids, keeping hOCR element ids unless they are empty or
// already taken.
type idSet map[string]struct{}

func (s idSet) claim(id string) string {
	if _, taken := s[id]; id == "" || taken {
		id = trp.NewID()
	}
	s[id] = struct{}{}
	return id
}

// Text extracts the text of an hOCR document one line per row, with a blank row
// between pages.
func Text(h *HOCR) string {
	var b strings.Builder
	for i, page := range h.Pages {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, line := range page.AllLines() {
			b.WriteString(line.Text())
			b.WriteString("\n")
		}
	}
	return b.String()
}
