package trp

import (
	"encoding/json"
	"fmt"
)

// DocumentMetadata holds document level information from the response.
type DocumentMetadata struct {
	Pages int `json:"Pages,omitempty"`
}

// Warning is a non-fatal problem reported by the service for some pages.
type Warning struct {
	ErrorCode string `json:"ErrorCode,omitempty"`
	Pages     []int  `json:"Pages,omitempty"`
}

// ResponseMetadata is the transport envelope some SDKs attach to a response.
type ResponseMetadata struct {
	RequestID      string            `json:"RequestId,omitempty"`
	HTTPStatusCode int               `json:"HTTPStatusCode,omitempty"`
	RetryAttempts  int               `json:"RetryAttempts,omitempty"`
	HTTPHeaders    map[string]string `json:"HTTPHeaders,omitempty"`
}

// Metadata is everything in a response apart from its blocks.
type Metadata struct {
	DocumentMetadata               *DocumentMetadata `json:"DocumentMetadata,omitempty"`
	AnalyzeDocumentModelVersion    string            `json:"AnalyzeDocumentModelVersion,omitempty"`
	DetectDocumentTextModelVersion string            `json:"DetectDocumentTextModelVersion,omitempty"`
	StatusMessage                  string            `json:"StatusMessage,omitempty"`
	Warnings                       []Warning         `json:"Warnings,omitempty"`
	JobStatus                      string            `json:"JobStatus,omitempty"`
	NextToken                      string            `json:"NextToken,omitempty"`
	ResponseMetadata               *ResponseMetadata `json:"ResponseMetadata,omitempty"`
	Custom                         map[string]any    `json:"Custom,omitempty"`
}

// Response is the wire shape of a document analysis result. Absent fields are
// omitted on encoding rather than written as null.
type Response struct {
	Metadata
	Blocks []*Block `json:"Blocks,omitempty"`
}

// Decode parses a JSON response and builds a Document from it.
func Decode(data []byte) (*Document, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return New(&resp)
}

// MarshalJSON encodes the document in the response wire format.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Response())
}

// Encode returns the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d.Response(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}
