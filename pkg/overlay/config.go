package overlay

import (
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// Config holds user options for rendering an overlay
type Config struct {
	BlockTypes    []trp.BlockType    // Block types outlined in the block layer
	Text          bool               // Write WORD text into the text layer
	Debug         bool               // Show the text layer in red instead of hiding it
	LayerName     string             // Base name of the block layer (page number will be appended)
	TextLayerName string             // Base name of the text layer (page number will be appended)
	PageWidth     float64            // Page width in points for pages without a recorded size
	PageHeight    float64            // Page height in points for pages without a recorded size
	LineWidth     float64            // Outline width in points
	Images        [][]byte           // Optional page images (PNG, JPEG or GIF), one per page
	BasePDF       []byte             // Optional PDF whose pages are drawn under the overlay
	Force         bool               // Draw over a BasePDF that already has an overlay layer
	Font          FontConfig         // Font of the text layer
	Logger        logrus.FieldLogger `yaml:"-"` // Defaults to logrus.StandardLogger()
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BlockTypes: []trp.BlockType{
			trp.BlockTypeLine,
			trp.BlockTypeWord,
			trp.BlockTypeTable,
			trp.BlockTypeCell,
			trp.BlockTypeKeyValueSet,
			trp.BlockTypeSelectionElement,
		},
		Text:          true,
		LayerName:     "Blocks",
		TextLayerName: "OCR Text",
		PageWidth:     595.28, // A4
		PageHeight:    841.89,
		LineWidth:     0.5,
		Font:          DefaultFont,
	}
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// FontConfig contains font settings for OCR text rendering
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont sets the default font to Helvetica which is tried and tested for the OCR layer
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}

// Color is an RGB outline colour.
type Color struct{ R, G, B int }

// blockColors maps block types to outline colours. Types not listed are drawn grey.
var blockColors = map[trp.BlockType]Color{
	trp.BlockTypeLine:             {0, 102, 204},
	trp.BlockTypeWord:             {0, 170, 0},
	trp.BlockTypeTable:            {204, 0, 0},
	trp.BlockTypeCell:             {255, 128, 0},
	trp.BlockTypeMergedCell:       {255, 0, 255},
	trp.BlockTypeKeyValueSet:      {128, 0, 204},
	trp.BlockTypeSelectionElement: {0, 153, 153},
}

// ColorFor returns the outline colour of a block type.
func ColorFor(t trp.BlockType) Color {
	if c, ok := blockColors[t]; ok {
		return c
	}
	return Color{128, 128, 128}
}
