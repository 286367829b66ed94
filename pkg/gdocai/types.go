package gdocai

import (
	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// CustomValueType holds the Document AI value type of a form field on its VALUE
// block, e.g. "filled_checkbox".
const CustomValueType = "ValueType"

// span is a half-open range of the document text.
type span struct {
	start, end int64
}

func (s span) contains(o span) bool {
	return o.start >= s.start && o.end <= s.end
}

// word is a WORD block together with the text range of its token.
type word struct {
	block *trp.Block
	span  span
}

// pageConverter builds the blocks of one Document AI page.
type pageConverter struct {
	text      []rune
	page      *documentaipb.Document_Page
	number    int
	block     *trp.Block
	words     []word
	blocks    []*trp.Block
	dimension *documentaipb.Document_Page_Dimension
}
