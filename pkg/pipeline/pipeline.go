// Package pipeline provides document-level passes over a trp.Document.
//
// The passes reorder blocks into reading order, estimate and correct page orientation,
// reconcile tables that continue across page breaks and summarize OCR confidence of
// key/value pairs. Each pass mutates the Document in place and returns it, so passes
// can be chained or driven from a Config with Run.
//
// Key Types:
//
// - Config: Selects the passes Run applies
// - HeaderFooterType: Height of the page bands ignored when looking for content between tables
// - MergeOptions: Whether reconciled tables are merged or linked
//
// Main Functions:
//
// - OrderBlocksByGeo: Sorts the blocks of each page by their top coordinate
// - AddPageOrientation: Estimates page orientation from word and line polygons
// - RotatePointsToPageOrientation: Rotates page content back to upright
// - ExecuteTableValidations: Finds tables that continue on the next page
// - MergeTables: Merges or links the tables found by ExecuteTableValidations
// - AddKVOCRConfidence: Records mean and minimum word confidence on keys and values
package pipeline

import (
	"fmt"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// Run applies the passes enabled in cfg in a fixed order: ordering, orientation,
// rotation, table reconciliation and key/value confidence.
func Run(doc *trp.Document, cfg Config) (*trp.Document, error) {
	log := cfg.logger()

	if cfg.OrderByGeo {
		log.Debug("ordering blocks by geometry")
		OrderBlocksByGeo(doc)
	}
	if cfg.PageOrientation {
		if _, err := AddPageOrientation(doc); err != nil {
			return nil, fmt.Errorf("failed to add page orientation: %w", err)
		}
	}
	if cfg.RotateToOrientation {
		if _, err := RotatePointsToPageOrientation(doc); err != nil {
			return nil, fmt.Errorf("failed to rotate pages: %w", err)
		}
	}
	if cfg.MergeTables != MergeNone {
		if _, err := MergeTables(doc, cfg.MergeTables, cfg.HeaderFooter, cfg.AccuracyPercentage); err != nil {
			return nil, fmt.Errorf("failed to reconcile tables: %w", err)
		}
	}
	if cfg.KVOCRConfidence {
		if _, err := AddKVOCRConfidence(doc); err != nil {
			return nil, fmt.Errorf("failed to add key/value confidence: %w", err)
		}
	}
	return doc, nil
}
