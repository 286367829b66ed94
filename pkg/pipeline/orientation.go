package pipeline

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// Custom attribute keys written by the orientation passes.
const (
	CustomOrientation     = "Orientation"
	CustomPageOrientation = "PageOrientationBasedOnWords"
	CustomRotation        = "Rotation"
)

// Rotation is recorded under CustomRotation on a rotated page.
type Rotation struct {
	Degrees        float64 `json:"Degrees"`
	RotationPointX float64 `json:"RotationPointX"`
	RotationPointY float64 `json:"RotationPointY"`
}

// degreesFromPolygon returns the angle of the polygon's first edge in degrees,
// in (-180, 180].
func degreesFromPolygon(poly []trp.Point) (float64, error) {
	if len(poly) < 2 {
		return 0, fmt.Errorf("polygon has %d points, need 2: %w", len(poly), trp.ErrInvalidArgument)
	}
	p0, p1 := poly[0], poly[1]
	return math.Atan2(p1.Y-p0.Y, p1.X-p0.X) * 180 / math.Pi, nil
}

// AddOrientationToBlocks stores the angle of each block's polygon under
// CustomOrientation. Blocks without a polygon are skipped.
func AddOrientationToBlocks(doc *trp.Document) (*trp.Document, error) {
	for _, b := range doc.Blocks() {
		if b.Geometry == nil || len(b.Geometry.Polygon) == 0 {
			continue
		}
		deg, err := degreesFromPolygon(b.Geometry.Polygon)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", b.ID, err)
		}
		b.SetCustom(CustomOrientation, deg)
	}
	return doc, nil
}

// AddPageOrientation estimates the orientation of every page as the most common
// rounded angle of its words and lines and stores it under CustomPageOrientation.
// A word or line without a usable polygon is an error. Pages without words are left
// untouched.
func AddPageOrientation(doc *trp.Document) (*trp.Document, error) {
	for _, page := range doc.Pages() {
		related, err := doc.GetBlocksByType("", page)
		if err != nil {
			return nil, err
		}
		var angles []float64
		for _, b := range related {
			if b.BlockType != trp.BlockTypeWord && b.BlockType != trp.BlockTypeLine {
				continue
			}
			var poly []trp.Point
			if b.Geometry != nil {
				poly = b.Geometry.Polygon
			}
			deg, err := degreesFromPolygon(poly)
			if err != nil {
				return nil, fmt.Errorf("page %d, block %s: %w", page.Page, b.ID, err)
			}
			angles = append(angles, roundDegrees(deg))
		}
		if len(angles) == 0 {
			doc.Logger.WithField("page", page.Page).Debug("no words to estimate page orientation")
			continue
		}
		orientation := mode(angles)
		doc.Logger.WithFields(logrus.Fields{"page": page.Page, "degrees": orientation}).Debug("page orientation")
		page.SetCustom(CustomPageOrientation, orientation)
	}
	return doc, nil
}

// roundDegrees rounds an angle to whole degrees in (-180, 180], so words just
// either side of upside down vote for the same value.
func roundDegrees(deg float64) float64 {
	r := math.Round(deg)
	if r == -180 {
		r = 180
	}
	return r
}

// mode returns the most common value, the first one seen on ties.
func mode(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	best, bestCount := values[0], 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

// RotatePointsToPageOrientation rotates the content of every page with a known
// orientation by the opposite angle around the page centre and records the applied
// rotation under CustomRotation. The orientation is read from CustomPageOrientation,
// falling back to CustomOrientation.
func RotatePointsToPageOrientation(doc *trp.Document) (*trp.Document, error) {
	centre := trp.Point{X: 0.5, Y: 0.5}
	for _, page := range doc.Pages() {
		orientation, ok := page.CustomFloat(CustomPageOrientation)
		if !ok {
			orientation, ok = page.CustomFloat(CustomOrientation)
		}
		if !ok {
			continue
		}
		rotation := -orientation
		if rotation != 0 {
			if err := doc.Rotate(page, rotation, centre); err != nil {
				return nil, fmt.Errorf("page %d: %w", page.Page, err)
			}
		}
		doc.Logger.WithFields(logrus.Fields{"page": page.Page, "degrees": rotation}).Debug("rotated page")
		page.SetCustom(CustomRotation, Rotation{Degrees: rotation, RotationPointX: centre.X, RotationPointY: centre.Y})
	}
	return doc, nil
}

// AddImageSize is meant to record the pixel size of each page image.
func AddImageSize(doc *trp.Document) (*trp.Document, error) {
	return nil, fmt.Errorf("add image size: %w", trp.ErrNotImplemented)
}
