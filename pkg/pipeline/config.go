package pipeline

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config selects the passes applied by Run.
type Config struct {
	OrderByGeo          bool             `yaml:"order_by_geo"`          // Sort blocks into reading order
	PageOrientation     bool             `yaml:"page_orientation"`      // Estimate page orientation from words
	RotateToOrientation bool             `yaml:"rotate_to_orientation"` // Rotate pages back to upright
	KVOCRConfidence     bool             `yaml:"kv_ocr_confidence"`     // Summarize word confidence of keys and values
	MergeTables         MergeOptions     `yaml:"merge_tables"`          // none, merge or link
	HeaderFooter        HeaderFooterType `yaml:"header_footer"`         // none, narrow, normal or wide
	AccuracyPercentage  float64          `yaml:"accuracy_percentage"`   // Required dimension similarity of merged tables

	Logger logrus.FieldLogger `yaml:"-"` // nil = logrus.StandardLogger()
}

// DefaultConfig returns a config that orders blocks and merges tables split by page
// breaks with a normal header and footer.
func DefaultConfig() Config {
	return Config{
		OrderByGeo:         true,
		MergeTables:        MergeNone,
		HeaderFooter:       HeaderFooterNormal,
		AccuracyPercentage: 98,
	}
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

// MergeOptions tells MergeTables what to do with reconciled tables.
type MergeOptions int

const (
	MergeNone MergeOptions = iota // Leave tables alone
	Merge                         // Move cells into the first table of a group
	Link                          // Cross-reference tables through custom attributes
)

var mergeOptionNames = map[MergeOptions]string{
	MergeNone: "none",
	Merge:     "merge",
	Link:      "link",
}

func (m MergeOptions) String() string {
	if name, ok := mergeOptionNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MergeOptions(%d)", int(m))
}

// ParseMergeOptions parses none, merge or link, ignoring case.
func ParseMergeOptions(s string) (MergeOptions, error) {
	for m, name := range mergeOptionNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return m, nil
		}
	}
	return MergeNone, fmt.Errorf("unknown merge option %q", s)
}

// UnmarshalYAML decodes a merge option from its name.
func (m *MergeOptions) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMergeOptions(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalYAML encodes a merge option by name.
func (m MergeOptions) MarshalYAML() (any, error) {
	return m.String(), nil
}

// HeaderFooterType is the height of the header and footer bands of a page in
// elevenths of the page height.
type HeaderFooterType float64

const (
	HeaderFooterNone   HeaderFooterType = 0
	HeaderFooterNarrow HeaderFooterType = 0.5
	HeaderFooterNormal HeaderFooterType = 1
	HeaderFooterWide   HeaderFooterType = 2.5
)

var headerFooterNames = map[HeaderFooterType]string{
	HeaderFooterNone:   "none",
	HeaderFooterNarrow: "narrow",
	HeaderFooterNormal: "normal",
	HeaderFooterWide:   "wide",
}

// Height returns the band height as a fraction of the page height.
func (h HeaderFooterType) Height() float64 {
	return float64(h) / 11
}

func (h HeaderFooterType) String() string {
	if name, ok := headerFooterNames[h]; ok {
		return name
	}
	return fmt.Sprintf("HeaderFooterType(%g)", float64(h))
}

// ParseHeaderFooterType parses none, narrow, normal or wide, ignoring case.
func ParseHeaderFooterType(s string) (HeaderFooterType, error) {
	for h, name := range headerFooterNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return h, nil
		}
	}
	return HeaderFooterNone, fmt.Errorf("unknown header/footer type %q", s)
}

// UnmarshalYAML decodes a header/footer type from its name.
func (h *HeaderFooterType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHeaderFooterType(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// MarshalYAML encodes a header/footer type by name.
func (h HeaderFooterType) MarshalYAML() (any, error) {
	return h.String(), nil
}
