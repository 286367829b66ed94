package gdocai

import (
	"strings"
	"unicode"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromAnchor extracts the text of an anchor's segments. Indexes are clamped to
// the document text.
func textFromAnchor(anchor *documentaipb.Document_TextAnchor, runes []rune) string {
	if anchor == nil {
		return ""
	}
	totalRunes := len(runes)
	result := strings.Builder{}

	for _, seg := range anchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > totalRunes {
			end = totalRunes
		}
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}

// textFromLayout extracts the text of a layout's anchor.
func textFromLayout(layout *documentaipb.Document_Page_Layout, runes []rune) string {
	if layout == nil {
		return ""
	}
	return textFromAnchor(layout.TextAnchor, runes)
}

// tokenText returns the text of a token without the break Document AI appends to it.
func tokenText(token *documentaipb.Document_Page_Token, runes []rune) string {
	txt := textFromLayout(token.Layout, runes)
	if token.DetectedBreak != nil &&
		token.DetectedBreak.Type != documentaipb.Document_Page_Token_DetectedBreak_TYPE_UNSPECIFIED {
		txt = strings.TrimRightFunc(txt, unicode.IsSpace)
	}
	return txt
}

// spansOf returns the text segments of a layout.
func spansOf(layout *documentaipb.Document_Page_Layout) []span {
	if layout == nil {
		return nil
	}
	return spansOfAnchor(layout.TextAnchor)
}

func spansOfAnchor(anchor *documentaipb.Document_TextAnchor) []span {
	if anchor == nil {
		return nil
	}
	out := make([]span, 0, len(anchor.TextSegments))
	for _, seg := range anchor.TextSegments {
		out = append(out, span{start: seg.StartIndex, end: seg.EndIndex})
	}
	return out
}
