package hocr

import (
	"fmt"
	"math"
	"strings"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title    string            // Document title
	Language string            // Document language
	Metadata map[string]string // ocr-system, ocr-capabilities and friends
	Pages    []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string      // Unique identifier
	PageNumber int         // 1-based page number, from ppageno
	ImageName  string      // Source image filename
	Lang       string      // Language code for this page
	BBox       BoundingBox // Page coordinates
	Areas      []Area      // Content areas (columns)
	Paragraphs []Paragraph // Paragraphs directly under page
	Lines      []Line      // Lines directly under page (no parent)
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// TitleAttr renders the page properties for the title attribute.
func (p Page) TitleAttr() string {
	var parts []string
	if p.ImageName != "" {
		parts = append(parts, fmt.Sprintf("image %q", p.ImageName))
	}
	parts = append(parts, p.BBox.String())
	if p.PageNumber > 0 {
		parts = append(parts, fmt.Sprintf("ppageno %d", p.PageNumber-1))
	}
	return strings.Join(parts, "; ")
}

// AllLines returns the lines of the page in document order: lines of areas, then
// of paragraphs directly under the page, then lines directly under the page.
func (p Page) AllLines() []Line {
	var out []Line
	for _, a := range p.Areas {
		for _, par := range a.Paragraphs {
			out = append(out, par.Lines...)
		}
		out = append(out, a.Lines...)
	}
	for _, par := range p.Paragraphs {
		out = append(out, par.Lines...)
	}
	return append(out, p.Lines...)
}

// Area represents a content area (column or region)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string      // Unique identifier
	BBox       BoundingBox // Area coordinates
	Paragraphs []Paragraph // Paragraphs in this area
	Lines      []Line      // Text lines directly under area
}

// Class assign 'ocr_carea' to 'Area' struct
func (Area) Class() string { return "ocr_carea" }

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID    string      // Unique identifier
	Lang  string      // Language code
	BBox  BoundingBox // Paragraph coordinates
	Lines []Line      // Text lines in this paragraph
}

// Class assign 'ocr_par' to 'Paragraph' struct
func (Paragraph) Class() string { return "ocr_par" }

// Line represents a line of text
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID       string      // Unique identifier
	BBox     BoundingBox // Line coordinates
	Baseline string      // Baseline information
	Words    []Word      // Words in this line
}

// Class assign 'ocr_line' to 'Line' struct
func (Line) Class() string { return "ocr_line" }

// TitleAttr renders the line properties for the title attribute.
func (l Line) TitleAttr() string {
	if l.Baseline == "" {
		return l.BBox.String()
	}
	return l.BBox.String() + "; baseline " + l.Baseline
}

// Text joins the words of the line with single spaces.
func (l Line) Text() string {
	texts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		if w.Text != "" {
			texts = append(texts, w.Text)
		}
	}
	return strings.Join(texts, " ")
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string      // Unique identifier
	Text       string      // The actual text content
	BBox       BoundingBox // Word coordinates
	Confidence float64     // Recognition confidence (0-100), 0 when unknown
	Lang       string      // Language code
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// TitleAttr renders the word properties for the title attribute.
func (w Word) TitleAttr() string {
	if w.Confidence <= 0 {
		return w.BBox.String()
	}
	return fmt.Sprintf("%s; x_wconf %d", w.BBox, int(math.Round(w.Confidence)))
}

// BoundingBox is a rectangle in page pixels, stored in hOCR 'bbox' order:
// x1, y1 is the top-left corner and x2, y2 the bottom-right corner.
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

// NewBoundingBox creates a bounding box from coordinates
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// BoundingBoxFromTRP scales a normalized box to a page of the given pixel size.
func BoundingBoxFromTRP(b trp.BoundingBox, width, height float64) BoundingBox {
	s := b.Scale(width, height)
	return BoundingBox{X1: s.Left, Y1: s.Top, X2: s.Left + s.Width, Y2: s.Top + s.Height}
}

// TRP converts the box to normalized coordinates of a page of the given pixel size.
func (b BoundingBox) TRP(width, height float64) trp.BoundingBox {
	return trp.BoundingBox{
		Left:   b.X1,
		Top:    b.Y1,
		Width:  b.X2 - b.X1,
		Height: b.Y2 - b.Y1,
	}.Ratio(width, height)
}

// IsZero reports whether the box carries no coordinates.
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}

// String renders the box as an hOCR bbox property with integer pixels.
func (b BoundingBox) String() string {
	return fmt.Sprintf("bbox %d %d %d %d",
		int(math.Round(b.X1)), int(math.Round(b.Y1)), int(math.Round(b.X2)), int(math.Round(b.Y2)))
}
