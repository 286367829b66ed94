package trp

import (
	"math"
	"slices"
)

// Point is a position in normalized page space, where (0,0) is the top-left corner
// and (1,1) the bottom-right one.
type Point struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
}

// Scale converts normalized coordinates to absolute ones for a page of the given size.
func (p Point) Scale(docWidth, docHeight float64) Point {
	return Point{X: p.X * docWidth, Y: p.Y * docHeight}
}

// Ratio is the inverse of Scale.
func (p Point) Ratio(docWidth, docHeight float64) Point {
	return Point{X: p.X / docWidth, Y: p.Y / docHeight}
}

// Rotate turns the point around origin by degrees (clockwise in page space, since Y
// grows downward). With clamp set, both coordinates are limited to [0,1].
func (p Point) Rotate(origin Point, degrees float64, clamp bool) Point {
	angle := degrees * math.Pi / 180
	cos, sin := math.Cos(angle), math.Sin(angle)
	dx, dy := p.X-origin.X, p.Y-origin.Y

	x := origin.X + cos*dx - sin*dy
	y := origin.Y + sin*dx + cos*dy
	if clamp {
		x = clamp01(x)
		y = clamp01(y)
	}
	return Point{X: x, Y: y}
}

func clamp01(v float64) float64 {
	return math.Max(math.Min(v, 1), 0)
}

// BoundingBox is an axis-aligned rectangle.
type BoundingBox struct {
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
	Left   float64 `json:"Left"`
	Top    float64 `json:"Top"`
}

// Right returns the right edge X coordinate
func (b BoundingBox) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BoundingBox) Bottom() float64 {
	return b.Top + b.Height
}

// Centre returns the centre point
func (b BoundingBox) Centre() Point {
	return Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// Points returns the four corners: top-left, top-right, bottom-left, bottom-right.
func (b BoundingBox) Points() []Point {
	return []Point{
		{X: b.Left, Y: b.Top},
		{X: b.Right(), Y: b.Top},
		{X: b.Left, Y: b.Bottom()},
		{X: b.Right(), Y: b.Bottom()},
	}
}

// Scale converts the box to absolute coordinates.
func (b BoundingBox) Scale(docWidth, docHeight float64) BoundingBox {
	return BoundingBox{
		Width:  b.Width * docWidth,
		Height: b.Height * docHeight,
		Left:   b.Left * docWidth,
		Top:    b.Top * docHeight,
	}
}

// Ratio is the inverse of Scale.
func (b BoundingBox) Ratio(docWidth, docHeight float64) BoundingBox {
	return BoundingBox{
		Width:  b.Width / docWidth,
		Height: b.Height / docHeight,
		Left:   b.Left / docWidth,
		Top:    b.Top / docHeight,
	}
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	left := math.Min(b.Left, other.Left)
	top := math.Min(b.Top, other.Top)
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BoundingBox{
		Width:  right - left,
		Height: bottom - top,
		Left:   left,
		Top:    top,
	}
}

// Rotate rotates the four corners around origin and returns the axis-aligned
// envelope of the result. Corners are clamped to [0,1].
func (b BoundingBox) Rotate(origin Point, degrees float64) BoundingBox {
	return envelope(b.Points(), func(p Point) Point {
		return p.Rotate(origin, degrees, true)
	})
}

// envelope returns the axis-aligned box around points after applying fn to each.
func envelope(points []Point, fn func(Point) Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		if fn != nil {
			p = fn(p)
		}
		xmin = math.Min(xmin, p.X)
		ymin = math.Min(ymin, p.Y)
		xmax = math.Max(xmax, p.X)
		ymax = math.Max(ymax, p.Y)
	}
	return BoundingBox{
		Width:  xmax - xmin,
		Height: ymax - ymin,
		Left:   xmin,
		Top:    ymin,
	}
}

// Geometry is the location of a block: its bounding box and its polygon.
type Geometry struct {
	BoundingBox BoundingBox `json:"BoundingBox"`
	Polygon     []Point     `json:"Polygon,omitempty"`
}

// Scale applies BoundingBox.Scale and Point.Scale to every part of the geometry.
func (g Geometry) Scale(docWidth, docHeight float64) Geometry {
	return g.apply(
		func(b BoundingBox) BoundingBox { return b.Scale(docWidth, docHeight) },
		func(p Point) Point { return p.Scale(docWidth, docHeight) },
	)
}

// Ratio is the inverse of Scale.
func (g Geometry) Ratio(docWidth, docHeight float64) Geometry {
	return g.apply(
		func(b BoundingBox) BoundingBox { return b.Ratio(docWidth, docHeight) },
		func(p Point) Point { return p.Ratio(docWidth, docHeight) },
	)
}

// Rotate rotates the bounding box envelope and every polygon point around origin.
func (g Geometry) Rotate(origin Point, degrees float64) Geometry {
	return g.apply(
		func(b BoundingBox) BoundingBox { return b.Rotate(origin, degrees) },
		func(p Point) Point { return p.Rotate(origin, degrees, true) },
	)
}

func (g Geometry) apply(box func(BoundingBox) BoundingBox, point func(Point) Point) Geometry {
	out := Geometry{BoundingBox: box(g.BoundingBox)}
	if g.Polygon != nil {
		out.Polygon = make([]Point, len(g.Polygon))
		for i, p := range g.Polygon {
			out.Polygon[i] = point(p)
		}
	}
	return out
}

// GeometryFromBox builds a geometry whose polygon is the clockwise corner list of box.
func GeometryFromBox(box BoundingBox) Geometry {
	return Geometry{
		BoundingBox: box,
		Polygon: []Point{
			{X: box.Left, Y: box.Top},
			{X: box.Right(), Y: box.Top},
			{X: box.Right(), Y: box.Bottom()},
			{X: box.Left, Y: box.Bottom()},
		},
	}
}

// GeometryFromPolygon builds a geometry from a polygon, with the polygon's envelope
// as bounding box.
func GeometryFromPolygon(polygon []Point) Geometry {
	return Geometry{
		BoundingBox: envelope(polygon, nil),
		Polygon:     slices.Clone(polygon),
	}
}

// virtualGeometry is the degenerate geometry given to synthesized blocks.
func virtualGeometry() *Geometry {
	return &Geometry{Polygon: []Point{{}, {}}}
}
