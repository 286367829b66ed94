package hocr

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

var charsetPattern = regexp.MustCompile(`(?i)charset=["']?([\w-]+)`)

// Tesseract writes headers, captions and floating text as line-level elements.
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

// ParseHOCR converts raw hOCR data into a structured HOCR object.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decode(data)
	if err != nil {
		return result, err
	}
	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	extractDocumentMeta(&result, doc)

	for _, n := range descendants(doc, "ocr_page") {
		result.Pages = append(result.Pages, parsePage(n))
	}
	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// decode converts data to UTF-8 according to its declared charset. Documents
// without a declaration are taken as UTF-8, other declarations as Latin-1.
func decode(data []byte) ([]byte, error) {
	m := charsetPattern.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(m[1]))
	var dec *charmap.Charmap
	switch label {
	case "utf-8", "utf8":
		return data, nil
	case "windows-1252", "cp1252":
		dec = charmap.Windows1252
	default:
		dec = charmap.ISO8859_1
	}
	out, err := dec.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", label, err)
	}
	return out, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	return bboxFromProps(ParseTitle(title))
}

func bboxFromProps(props map[string][]string) *BoundingBox {
	bbox, ok := props["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// extractDocumentMeta extracts the language of the html element and the title and
// ocr-* meta entries of the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "html" {
			continue
		}
		if lang := getAttrVal(c, "lang"); lang != "" {
			result.Language = lang
		} else if lang := getAttrVal(c, "xml:lang"); lang != "" {
			result.Language = lang
		}
	}

	head := findElement(doc, "head")
	if head == nil {
		return
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			result.Title = extractTextContent(c)
		case "meta":
			name, content := getAttrVal(c, "name"), getAttrVal(c, "content")
			if strings.HasPrefix(name, "ocr-") && content != "" {
				result.Metadata[name] = content
			}
		}
	}
}

// parsePage extracts page properties and the areas, paragraphs and lines under it
func parsePage(n *html.Node) Page {
	page := Page{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
	}
	props := ParseTitle(getAttrVal(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		page.BBox = *bbox
	}
	if image := props["image"]; len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"'`)
	}
	if ppageno := props["ppageno"]; len(ppageno) > 0 {
		if num, err := strconv.Atoi(ppageno[0]); err == nil {
			page.PageNumber = num + 1
		}
	}

	for _, c := range descendants(n, append([]string{"ocr_carea", "ocr_par"}, lineClasses...)...) {
		switch {
		case hasClass(c, "ocr_carea"):
			page.Areas = append(page.Areas, parseArea(c))
		case hasClass(c, "ocr_par"):
			page.Paragraphs = append(page.Paragraphs, parseParagraph(c))
		default:
			page.Lines = append(page.Lines, parseLine(c))
		}
	}
	return page
}

// parseArea extracts an area and its paragraphs and lines
func parseArea(n *html.Node) Area {
	area := Area{ID: getAttrVal(n, "id")}
	if bbox := ParseBoundingBoxFromTitle(getAttrVal(n, "title")); bbox != nil {
		area.BBox = *bbox
	}
	for _, c := range descendants(n, append([]string{"ocr_par"}, lineClasses...)...) {
		if hasClass(c, "ocr_par") {
			area.Paragraphs = append(area.Paragraphs, parseParagraph(c))
		} else {
			area.Lines = append(area.Lines, parseLine(c))
		}
	}
	return area
}

// parseParagraph extracts a paragraph and its lines
func parseParagraph(n *html.Node) Paragraph {
	par := Paragraph{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
	}
	if bbox := ParseBoundingBoxFromTitle(getAttrVal(n, "title")); bbox != nil {
		par.BBox = *bbox
	}
	for _, c := range descendants(n, lineClasses...) {
		par.Lines = append(par.Lines, parseLine(c))
	}
	return par
}

// parseLine extracts a line and its words
func parseLine(n *html.Node) Line {
	line := Line{ID: getAttrVal(n, "id")}
	props := ParseTitle(getAttrVal(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		line.BBox = *bbox
	}
	if baseline := props["baseline"]; len(baseline) > 0 {
		line.Baseline = strings.Join(baseline, " ")
	}
	for _, c := range descendants(n, "ocrx_word") {
		line.Words = append(line.Words, parseWord(c))
	}
	return line
}

// parseWord extracts a word's text and properties
func parseWord(n *html.Node) Word {
	word := Word{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
		Text: extractTextContent(n),
	}
	props := ParseTitle(getAttrVal(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		word.BBox = *bbox
	}
	if conf := props["x_wconf"]; len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	return word
}

// descendants returns the nearest descendants of n carrying one of classes, in
// document order. Elements below a match are not searched.
func descendants(n *html.Node, classes ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasClass(c, classes...) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// hasClass reports whether the class attribute of n lists one of classes.
func hasClass(n *html.Node, classes ...string) bool {
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		for _, want := range classes {
			if c == want {
				return true
			}
		}
	}
	return false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractTextContent(c))
	}
	return strings.TrimSpace(text.String())
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}
