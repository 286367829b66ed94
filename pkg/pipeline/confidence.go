package pipeline

import (
	"github.com/gardar/ocrgraph/pkg/trp"
)

// CustomOCRConfidence is the custom attribute key written by AddKVOCRConfidence.
const CustomOCRConfidence = "OCRConfidence"

// OCRConfidence summarizes the confidence of the words of a key or value.
type OCRConfidence struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
}

// AddKVOCRConfidence stores the mean and minimum confidence of the CHILD words of
// every KEY_VALUE_SET block under CustomOCRConfidence. Blocks whose children carry
// no confidence are skipped.
func AddKVOCRConfidence(doc *trp.Document) (*trp.Document, error) {
	forms, err := doc.Forms(nil)
	if err != nil {
		return nil, err
	}
	for _, kv := range forms {
		children, err := doc.GetBlocksForRelationship(kv.RelationshipFor(trp.RelationshipChild))
		if err != nil {
			return nil, err
		}
		var sum, low float64
		n := 0
		for _, c := range children {
			if c.Confidence == nil {
				continue
			}
			if n == 0 || *c.Confidence < low {
				low = *c.Confidence
			}
			sum += *c.Confidence
			n++
		}
		if n == 0 {
			doc.Logger.WithField("id", kv.ID).Debug("no word confidence for key/value")
			continue
		}
		kv.SetCustom(CustomOCRConfidence, OCRConfidence{Mean: sum / float64(n), Min: low})
	}
	return doc, nil
}
