package gdocai

import (
	"encoding/json"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// LoadJSON parses a Document AI document saved as JSON. Both a bare Document and a
// ProcessResponse wrapping one are accepted.
func LoadJSON(data []byte) (*documentaipb.Document, error) {
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}

	var resp documentaipb.ProcessResponse
	if err := opts.Unmarshal(data, &resp); err == nil && resp.GetDocument() != nil {
		return resp.GetDocument(), nil
	}

	var doc documentaipb.Document
	if err := opts.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse Document AI JSON: %w", err)
	}
	return &doc, nil
}

// ToJSON converts various types to a pretty-printed JSON string
// It handles both protocol buffer messages and regular Go structs
func ToJSON(data any) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		// For protocol buffer messages, use protojson
		jsonData, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(jsonData), nil

	default:
		// For regular Go structs, use standard json package
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(jsonData), nil
	}
}
