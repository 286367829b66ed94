package overlay

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// Render draws one PDF page per page of doc. Page sizes come from the size recorded
// by the importer, taken as points, from the pages of cfg.BasePDF, or from
// cfg.PageWidth and cfg.PageHeight.
func Render(doc *trp.Document, cfg Config) ([]byte, error) {
	pages := doc.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("failed to render overlay: %w", trp.ErrNoPages)
	}
	log := cfg.logger()

	var base *basePDF
	if len(cfg.BasePDF) > 0 {
		has, err := HasOverlay(cfg.BasePDF, cfg.LayerName)
		if err != nil {
			return nil, fmt.Errorf("layer detection failed: %w", err)
		}
		if has && !cfg.Force {
			return nil, fmt.Errorf("PDF already has an overlay (layer %q), set Force to draw it again: %w",
				cfg.LayerName, trp.ErrInvalidArgument)
		} else if has {
			log.WithField("layer", cfg.LayerName).Warn("PDF already has an overlay, drawing it again")
		}
		base = newBasePDF(cfg.BasePDF)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreator("ocrgraph", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	for i, page := range pages {
		r := &pageRenderer{pdf: pdf, cfg: cfg, page: page}
		r.width, r.height = pageSize(page, cfg)

		if base != nil {
			tpl, w, h, err := base.importPage(pdf, i+1)
			if err != nil {
				return nil, fmt.Errorf("failed to import page %d: %w", i+1, err)
			}
			r.width, r.height = w, h
			pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
			base.importer.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
		} else {
			pdf.AddPageFormat("P", fpdf.SizeType{Wd: r.width, Ht: r.height})
			if i < len(cfg.Images) && len(cfg.Images[i]) > 0 {
				if err := r.drawImage(i, cfg.Images[i]); err != nil {
					return nil, err
				}
			}
		}

		blocks, err := doc.RelationshipsRecursive(page)
		if err != nil {
			return nil, fmt.Errorf("failed to collect blocks of page %d: %w", page.Page, err)
		}
		r.drawBlocks(blocks)
		if cfg.Text {
			if err := r.drawText(blocks); err != nil {
				log.WithError(err).WithField("page", page.Page).Warn("text layer incomplete")
			}
		}
		if pdf.Err() {
			return nil, fmt.Errorf("failed to draw page %d: %w", page.Page, pdf.Error())
		}
		log.WithFields(logrus.Fields{"page": page.Page, "blocks": len(blocks)}).Debug("page rendered")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func pageSize(page *trp.Block, cfg Config) (float64, float64) {
	if w, h, ok := page.PageSize(); ok {
		return w, h
	}
	if cfg.PageWidth > 0 && cfg.PageHeight > 0 {
		return cfg.PageWidth, cfg.PageHeight
	}
	d := DefaultConfig()
	return d.PageWidth, d.PageHeight
}

// basePDF imports the pages of an existing PDF as templates.
type basePDF struct {
	importer *gofpdi.Importer
	rs       io.ReadSeeker
}

func newBasePDF(data []byte) *basePDF {
	return &basePDF{importer: gofpdi.NewImporter(), rs: bytes.NewReader(data)}
}

// importPage imports page n and returns its template id and media box size. The
// importer panics on unreadable input, which is reported as an error.
func (b *basePDF) importPage(pdf *fpdf.Fpdf, n int) (tpl int, w, h float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot read base PDF: %v", r)
		}
	}()
	tpl = b.importer.ImportPageFromStream(pdf, &b.rs, n, "/MediaBox")
	size := b.importer.GetPageSizes()[n]["/MediaBox"]
	w, h = size["w"], size["h"]
	if w <= 0 || h <= 0 {
		return 0, 0, 0, fmt.Errorf("base PDF page %d has no media box", n)
	}
	return tpl, w, h, nil
}

// pageRenderer draws the layers of one page.
type pageRenderer struct {
	pdf           *fpdf.Fpdf
	cfg           Config
	page          *trp.Block
	width, height float64
}

// drawImage places a page image over the whole page.
func (r *pageRenderer) drawImage(i int, data []byte) error {
	imageType, err := detectImageType(data)
	if err != nil {
		return fmt.Errorf("image %d has invalid format: %w", i+1, err)
	}
	name := fmt.Sprintf("img%d", i)
	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
	r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	r.pdf.ImageOptions(name, 0, 0, r.width, r.height, false, opts, 0, "")
	return nil
}

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}

// drawBlocks outlines the blocks of the configured types in the block layer.
func (r *pageRenderer) drawBlocks(blocks []*trp.Block) {
	want := make(map[trp.BlockType]bool, len(r.cfg.BlockTypes))
	for _, t := range r.cfg.BlockTypes {
		want[t] = true
	}

	layer := r.pdf.AddLayer(layerName(r.cfg.LayerName, r.page.Page), true)
	r.pdf.BeginLayer(layer)
	r.pdf.SetLineWidth(r.cfg.LineWidth)
	for _, b := range blocks {
		if !want[b.BlockType] || b.Geometry == nil {
			continue
		}
		c := ColorFor(b.BlockType)
		r.pdf.SetDrawColor(c.R, c.G, c.B)
		if poly := b.Geometry.Polygon; len(poly) >= 3 {
			points := make([]fpdf.PointType, len(poly))
			for i, p := range poly {
				s := p.Scale(r.width, r.height)
				points[i] = fpdf.PointType{X: s.X, Y: s.Y}
			}
			r.pdf.Polygon(points, "D")
			continue
		}
		box := b.Geometry.BoundingBox.Scale(r.width, r.height)
		r.pdf.Rect(box.Left, box.Top, box.Width, box.Height, "D")
	}
	r.pdf.EndLayer()
}

// drawText writes the text of WORD blocks into the text layer, each word scaled to
// the width of its box.
func (r *pageRenderer) drawText(blocks []*trp.Block) error {
	font := r.cfg.Font
	layer := r.pdf.AddLayer(layerName(r.cfg.TextLayerName, r.page.Page), true)
	r.pdf.BeginLayer(layer)
	r.pdf.SetFont(font.Name, font.Style, font.Size)

	if r.cfg.Debug {
		r.pdf.SetTextColor(255, 0, 0) // highlight text in red
	} else {
		r.pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	encodingErrors := 0
	wordCount := 0
	for _, b := range blocks {
		if b.BlockType != trp.BlockTypeWord || b.Geometry == nil || b.Text == "" {
			continue
		}
		if !r.drawWord(b) {
			encodingErrors++
		}
		wordCount++
	}

	if r.cfg.Debug {
		r.pdf.SetTextColor(0, 0, 0)
	} else {
		r.pdf.SetAlpha(1.0, "Normal")
	}
	r.pdf.EndLayer()

	// Report encoding errors if more than a threshold
	if encodingErrors > 0 && encodingErrors > wordCount/10 {
		return fmt.Errorf("character encoding issues in %d of %d words", encodingErrors, wordCount)
	}
	return nil
}

// drawWord renders a single word and reports whether its text fit Latin-1.
func (r *pageRenderer) drawWord(b *trp.Block) bool {
	font := r.cfg.Font
	box := b.Geometry.BoundingBox.Scale(r.width, r.height)

	// Convert text to ISO-8859-1 to avoid PDF encoding issues
	ok := true
	latin1, err := charmap.ISO8859_1.NewEncoder().String(b.Text)
	if err != nil {
		ok = false
		latin1 = b.Text // fallback to raw text
	}

	if strWidth := r.pdf.GetStringWidth(latin1); strWidth > 0 {
		r.pdf.SetFontSize(font.Size * box.Width / strWidth)
	}
	fontSize, _ := r.pdf.GetFontSize()
	r.pdf.Text(box.Left, box.Top+fontSize*font.AscentRatio, latin1)
	r.pdf.SetFontSize(font.Size)
	return ok
}
