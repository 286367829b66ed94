package pipeline

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// ExecuteTableValidations compares the last table of every page with the first
// table of the next page and returns groups of table ids that form one logical
// table, in page order. A pair qualifies when no line sits between the two tables
// outside the header and footer bands, the first rows have the same number of
// cells or the same texts, and the widths and left offsets differ by less than
// 100-accuracyPercentage percent. Pairs sharing a table chain into one group.
//
// The document blocks are put in reading order with OrderBlocksByGeo first.
func ExecuteTableValidations(doc *trp.Document, headerFooter HeaderFooterType, accuracyPercentage float64) ([][]string, error) {
	OrderBlocksByGeo(doc)

	pages := doc.Pages()
	var groups [][]string
	for i := 0; i+1 < len(pages); i++ {
		page, next := pages[i], pages[i+1]

		tables, err := doc.Tables(page)
		if err != nil {
			return nil, err
		}
		nextTables, err := doc.Tables(next)
		if err != nil {
			return nil, err
		}
		if len(tables) == 0 || len(nextTables) == 0 {
			continue
		}
		first, second := tables[len(tables)-1], nextTables[0]
		log := doc.Logger.WithFields(logrus.Fields{"page": page.Page, "table": first.ID, "next_table": second.ID})

		if first.Geometry == nil || second.Geometry == nil {
			log.Debug("table without geometry, not compared")
			continue
		}

		isolated, err := nothingBetweenTables(doc, page, first, next, second, headerFooter)
		if err != nil {
			return nil, err
		}
		if !isolated {
			log.Debug("content between tables")
			continue
		}

		compatible, err := sameStructure(doc, first, second)
		if err != nil {
			return nil, err
		}
		if !compatible {
			log.Debug("table structure differs")
			continue
		}

		if !similarDimensions(first, second, accuracyPercentage) {
			log.Debug("table dimensions differ")
			continue
		}

		log.Debug("tables continue across page break")
		if n := len(groups); n > 0 && groups[n-1][len(groups[n-1])-1] == first.ID {
			groups[n-1] = append(groups[n-1], second.ID)
		} else {
			groups = append(groups, []string{first.ID, second.ID})
		}
	}
	return groups, nil
}

// nothingBetweenTables reports whether no line of page lies below table outside the
// footer band and no line of next lies above nextTable outside the header band.
func nothingBetweenTables(doc *trp.Document, page, table, next, nextTable *trp.Block, headerFooter HeaderFooterType) (bool, error) {
	band := headerFooter.Height()

	lines, err := doc.Lines(page)
	if err != nil {
		return false, err
	}
	tableBottom := table.Geometry.BoundingBox.Bottom()
	for _, l := range lines {
		if l.Geometry == nil {
			continue
		}
		if bottom := l.Geometry.BoundingBox.Bottom(); bottom > tableBottom && bottom < 1-band {
			return false, nil
		}
	}

	lines, err = doc.Lines(next)
	if err != nil {
		return false, err
	}
	tableTop := nextTable.Geometry.BoundingBox.Top
	for _, l := range lines {
		if l.Geometry == nil {
			continue
		}
		if top := l.Geometry.BoundingBox.Top; top < tableTop && top > band {
			return false, nil
		}
	}
	return true, nil
}

// sameStructure reports whether the first rows of both tables have the same number
// of cells or the same cell texts, compared over the shorter row. A table without
// cells never matches.
func sameStructure(doc *trp.Document, a, b *trp.Block) (bool, error) {
	ta, err := doc.Table(a)
	if err != nil {
		return false, err
	}
	tb, err := doc.Table(b)
	if err != nil {
		return false, err
	}
	ra, rb := ta.FirstRow().Texts(), tb.FirstRow().Texts()
	if len(ra) == 0 || len(rb) == 0 {
		return false, nil
	}
	if len(ra) == len(rb) {
		return true, nil
	}
	for i := range min(len(ra), len(rb)) {
		if ra[i] != rb[i] {
			return false, nil
		}
	}
	return true, nil
}

func similarDimensions(a, b *trp.Block, accuracyPercentage float64) bool {
	limit := 100 - accuracyPercentage
	boxA, boxB := a.Geometry.BoundingBox, b.Geometry.BoundingBox
	return percentageDifference(boxA.Width, boxB.Width) < limit &&
		percentageDifference(boxA.Left, boxB.Left) < limit
}

// percentageDifference returns |a-b| relative to the mean of a and b, in percent,
// rounded to 3 decimals. It is 0 when a+b is 0.
func percentageDifference(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	d := math.Abs(100 * (a - b) / ((a + b) / 2))
	return math.Round(d*1000) / 1000
}

// MergeTables finds tables continued across page breaks with ExecuteTableValidations
// and merges or links them according to opt.
func MergeTables(doc *trp.Document, opt MergeOptions, headerFooter HeaderFooterType, accuracyPercentage float64) (*trp.Document, error) {
	groups, err := ExecuteTableValidations(doc, headerFooter, accuracyPercentage)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return doc, nil
	}
	doc.Logger.WithFields(logrus.Fields{"groups": groups, "option": opt}).Info("reconciling tables")

	switch opt {
	case Merge:
		err = doc.MergeTables(groups)
	case Link:
		err = doc.LinkTables(groups)
	case MergeNone:
	default:
		return nil, fmt.Errorf("unknown merge option %v: %w", opt, trp.ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
