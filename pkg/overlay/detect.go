package overlay

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ocgName matches the name of an optional content group, honouring escaped
// parentheses inside the PDF string.
var ocgName = regexp.MustCompile(`(?s)/Type\s*/OCG\s*/Name\s*\(((?:\\.|[^\\)])*)\)`)

// Layers lists the names of the optional content groups found in raw PDF data, in
// order of appearance and without duplicates.
func Layers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}

	var layers []string
	seen := make(map[string]bool)
	for _, m := range ocgName.FindAllSubmatch(pdfData, -1) {
		name := unescapePDFString(string(m[1]))
		// UTF-16BE text strings start with a byte order mark
		if strings.HasPrefix(name, "\xfe\xff") {
			decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().String(name)
			if err == nil {
				name = decoded
			}
		}
		if !seen[name] {
			seen[name] = true
			layers = append(layers, name)
		}
	}
	return layers, nil
}

// HasOverlay reports whether pdfData carries a layer named layerName, either as is
// or with a page suffix as written by Render.
func HasOverlay(pdfData []byte, layerName string) (bool, error) {
	layers, err := Layers(pdfData)
	if err != nil {
		return false, fmt.Errorf("cannot analyze layers: %w", err)
	}
	pageLayer := regexp.MustCompile(fmt.Sprintf(`^%s\s*\(Page\s*\d+`, regexp.QuoteMeta(layerName)))
	for _, l := range layers {
		if l == layerName || pageLayer.MatchString(l) {
			return true, nil
		}
	}
	return false, nil
}

func unescapePDFString(s string) string {
	return strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\r`, "\r", `\n`, "\n").Replace(s)
}

func layerName(base string, page int) string {
	return fmt.Sprintf("%s (Page %d)", base, page)
}
