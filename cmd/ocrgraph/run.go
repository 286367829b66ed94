package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrgraph/pkg/gdocai"
	"github.com/gardar/ocrgraph/pkg/hocr"
	"github.com/gardar/ocrgraph/pkg/overlay"
	"github.com/gardar/ocrgraph/pkg/pipeline"
	"github.com/gardar/ocrgraph/pkg/trp"
)

const (
	formatAuto     = "auto"
	formatTextract = "textract"
	formatDocAI    = "docai"
	formatHOCR     = "hocr"
)

type options struct {
	input      string
	format     string
	configPath string

	jsonPath    string
	textPath    string
	hocrPath    string
	fieldsPath  string
	queriesPath string
	pdfPath     string

	basePDFPath string
	force       bool
}

func (o options) hasOutput() bool {
	return o.jsonPath != "" || o.textPath != "" || o.hocrPath != "" ||
		o.fieldsPath != "" || o.queriesPath != "" || o.pdfPath != ""
}

// fieldOutput is one key/value pair of the -fields output.
type fieldOutput struct {
	Page          int                     `json:"page"`
	Key           string                  `json:"key"`
	Value         string                  `json:"value"`
	OCRConfidence *pipeline.OCRConfidence `json:"ocr_confidence,omitempty"`
}

func run(opts options, cfg *yamlConfig, logger logrus.FieldLogger) error {
	data, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	format := opts.format
	if format == "" || format == formatAuto {
		format = detectFormat(data)
	}
	logger.WithFields(logrus.Fields{"input": opts.input, "format": format}).Info("loading document")

	doc, err := loadDocument(data, format)
	if err != nil {
		return err
	}
	doc.Logger = logger

	doc, err = pipeline.Run(doc, cfg.pipelineConfig(logger))
	if err != nil {
		return err
	}

	if opts.jsonPath != "" {
		out, err := doc.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		if err := writeOutput(logger, opts.jsonPath, out, "response JSON"); err != nil {
			return err
		}
	}

	if opts.textPath != "" {
		text, err := documentText(doc)
		if err != nil {
			return err
		}
		if err := writeOutput(logger, opts.textPath, []byte(text), "document text"); err != nil {
			return err
		}
	}

	if opts.hocrPath != "" {
		h, err := hocr.FromDocument(doc)
		if err != nil {
			return err
		}
		html, err := hocr.GenerateHOCRDocument(h)
		if err != nil {
			return err
		}
		if err := writeOutput(logger, opts.hocrPath, []byte(html), "hOCR output"); err != nil {
			return err
		}
	}

	if opts.fieldsPath != "" {
		fields, err := doc.Fields(nil)
		if err != nil {
			return fmt.Errorf("failed to collect fields: %w", err)
		}
		out := make([]fieldOutput, 0, len(fields))
		for _, f := range fields {
			fo := fieldOutput{Page: f.Key.Page, Key: f.Name, Value: f.Value}
			if c, ok := f.Key.Custom[pipeline.CustomOCRConfidence].(pipeline.OCRConfidence); ok {
				fo.OCRConfidence = &c
			}
			out = append(out, fo)
		}
		if err := writeJSON(logger, opts.fieldsPath, out, "fields JSON"); err != nil {
			return err
		}
	}

	if opts.queriesPath != "" {
		answers, err := doc.GetQueryAnswers(nil)
		if err != nil {
			return fmt.Errorf("failed to collect query answers: %w", err)
		}
		if err := writeJSON(logger, opts.queriesPath, answers, "query answers JSON"); err != nil {
			return err
		}
	}

	if opts.pdfPath != "" {
		oc := cfg.overlayConfig(logger)
		oc.Force = opts.force
		if opts.basePDFPath != "" {
			base, err := os.ReadFile(opts.basePDFPath)
			if err != nil {
				return fmt.Errorf("failed to read base PDF: %w", err)
			}
			oc.BasePDF = base
		}
		pdf, err := overlay.Render(doc, oc)
		if err != nil {
			return fmt.Errorf("failed to render overlay: %w", err)
		}
		if err := writeOutput(logger, opts.pdfPath, pdf, "overlay PDF"); err != nil {
			return err
		}
	}
	return nil
}

// detectFormat guesses the input format: markup is hOCR, JSON with a Blocks list
// is a Textract response and anything else is taken for Document AI.
func detectFormat(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return formatHOCR
	}
	var probe struct {
		Blocks json.RawMessage `json:"Blocks"`
	}
	if err := json.Unmarshal(trimmed, &probe); err == nil && probe.Blocks != nil {
		return formatTextract
	}
	return formatDocAI
}

func loadDocument(data []byte, format string) (*trp.Document, error) {
	var (
		doc *trp.Document
		err error
	)
	switch format {
	case formatTextract:
		doc, err = trp.Decode(data)
	case formatDocAI:
		doc, err = gdocai.LoadDocument(data)
	case formatHOCR:
		doc, err = hocr.LoadDocument(data)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s input: %w", format, err)
	}
	return doc, nil
}

// documentText joins the reading-order text of every page, with a blank line
// between pages.
func documentText(doc *trp.Document) (string, error) {
	var b strings.Builder
	for i, page := range doc.Pages() {
		text, err := doc.TextInReadingOrder(page)
		if err != nil {
			return "", fmt.Errorf("failed to order text of page %d: %w", page.Page, err)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func writeJSON(logger logrus.FieldLogger, path string, v any, what string) error {
	out, err := gdocai.ToJSON(v)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", what, err)
	}
	return writeOutput(logger, path, []byte(out), what)
}

func writeOutput(logger logrus.FieldLogger, path string, data []byte, what string) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", what, err)
	}
	logger.WithField("path", path).Infof("%s saved", what)
	return nil
}
