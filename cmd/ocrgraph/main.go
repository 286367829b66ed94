// ocrgraph is a command-line tool for post-processing saved OCR results as a block graph.
//
// The tool reads an Amazon Textract response, a Google Document AI response or an
// hOCR document, runs the configured pipeline passes over it (reading order, page
// orientation, table merging, key/value confidence) and writes the result in one
// or more output formats.
//
// Configuration:
//
// An optional YAML configuration file selects the pipeline passes and overlay options:
//
//	order_by_geo: true
//	page_orientation: true
//	rotate_to_orientation: false
//	kv_ocr_confidence: true
//	merge_tables: merge        # none, merge or link
//	header_footer: normal      # none, narrow, normal or wide
//	accuracy_percentage: 98
//	log_level: info
//	overlay:
//	  debug: false
//	  text: true
//	  block_types: [LINE, TABLE, CELL]
//
// Usage:
//
//	ocrgraph -input response.json [options]
//
// Required flags:
//
//	-input string   Path to the saved OCR result
//
// Input options:
//
//	-format string  textract, docai, hocr or auto (default auto)
//	-config string  Path to the YAML configuration file
//
// Output options (at least one required):
//
//	-json string     Path to save the processed response as Textract JSON
//	-text string     Path to save the text in reading order
//	-hocr string     Path to save hOCR output
//	-fields string   Path to save key/value fields JSON
//	-queries string  Path to save query answers JSON
//	-pdf string      Path to save the block overlay PDF
//
// Overlay options:
//
//	-pdf-base string  Existing PDF to draw the overlay on
//	-force            Draw over a PDF that already has an overlay layer
//
// Example:
//
//	ocrgraph -input analyze.json -config ocrgraph.yml -json merged.json -text merged.txt
//	ocrgraph -input docai.json -format docai -hocr document.hocr -pdf blocks.pdf -pdf-base document.pdf
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	var opts options

	// Required flags.
	flag.StringVar(&opts.input, "input", "", "Path to the saved OCR result (required)")

	// Input flags
	flag.StringVar(&opts.format, "format", formatAuto, "Input format: textract, docai, hocr or auto")
	flag.StringVar(&opts.configPath, "config", "", "Path to the config YAML file")
	logLevel := flag.String("log-level", "", "Log level, overrides log_level of the config file")

	// Output flags
	flag.StringVar(&opts.jsonPath, "json", "", "Path to save the processed response as Textract JSON")
	flag.StringVar(&opts.textPath, "text", "", "Path to save the text in reading order")
	flag.StringVar(&opts.hocrPath, "hocr", "", "Path to save hOCR output")
	flag.StringVar(&opts.fieldsPath, "fields", "", "Path to save key/value fields JSON")
	flag.StringVar(&opts.queriesPath, "queries", "", "Path to save query answers JSON")
	flag.StringVar(&opts.pdfPath, "pdf", "", "Path to save the block overlay PDF")

	// Overlay flags
	flag.StringVar(&opts.basePDFPath, "pdf-base", "", "Existing PDF to draw the overlay on")
	flag.BoolVar(&opts.force, "force", false, "Draw over a PDF that already has an overlay layer")

	flag.Parse()

	// Create a map of provided flags to validate
	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	if opts.input == "" {
		usage("-input flag is required")
	}

	// Validate that provided output flags have values
	hasError := false
	validateFlag := func(name string, value string) {
		if providedFlags[name] && value == "" {
			fmt.Fprintf(os.Stderr, "Error: -%s flag requires a value\n", name)
			hasError = true
		}
	}
	validateFlag("json", opts.jsonPath)
	validateFlag("text", opts.textPath)
	validateFlag("hocr", opts.hocrPath)
	validateFlag("fields", opts.fieldsPath)
	validateFlag("queries", opts.queriesPath)
	validateFlag("pdf", opts.pdfPath)
	validateFlag("pdf-base", opts.basePDFPath)
	if hasError {
		usage("")
	}

	if !opts.hasOutput() {
		usage("At least one output flag must be provided (-json, -text, -hocr, -fields, -queries or -pdf)")
	}
	if opts.basePDFPath != "" && opts.pdfPath == "" {
		usage("-pdf-base requires -pdf")
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %v", err)
		}
		logger.SetLevel(level)
	}

	if err := run(opts, cfg, logger); err != nil {
		logger.Fatal(err)
	}
}

func usage(msg string) {
	if msg != "" {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	}
	fmt.Fprintln(os.Stderr, "Usage:")
	flag.PrintDefaults()
	os.Exit(1)
}
