// Package gdocai converts Google Document AI results into the trp block graph.
//
// Document AI describes a document as one text string with pages of layout elements
// that point into it through text anchors. This package turns those elements into
// blocks: tokens become WORD blocks and lines, table cells, form fields and
// extracted entities collect the words whose text falls inside their own anchor.
// The result can be processed with the same trp and pipeline code as a Textract
// response.
//
// Block mapping:
//
// - Page: PAGE block, with the page dimension and detected language as custom attributes
// - Token: WORD block
// - Line: LINE block with CHILD words
// - Table: TABLE block with CELL blocks; header row cells are tagged COLUMN_HEADER
// - FormField: KEY and VALUE KEY_VALUE_SET blocks
// - Entity: QUERY block named after the entity type with a QUERY_RESULT answer
//
// Main Functions:
//
// - LoadJSON: Reads a Document AI response saved as JSON
// - ResponseFromProto: Converts a Document AI document to a trp.Response
// - DocumentFromProto: Converts a Document AI document to an indexed trp.Document
// - ToJSON: Encodes a Document AI message or any other value as JSON
package gdocai

import (
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// DocumentFromProto converts a Document AI document into an indexed trp.Document.
func DocumentFromProto(doc *documentaipb.Document) (*trp.Document, error) {
	resp, err := ResponseFromProto(doc)
	if err != nil {
		return nil, err
	}
	d, err := trp.New(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to index converted document: %w", err)
	}
	return d, nil
}

// LoadDocument reads a Document AI response saved as JSON and converts it.
func LoadDocument(data []byte) (*trp.Document, error) {
	doc, err := LoadJSON(data)
	if err != nil {
		return nil, err
	}
	return DocumentFromProto(doc)
}
