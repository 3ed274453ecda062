package region

import "fmt"

// BoundingBox is an axis-aligned rectangle in pixel coordinates.
// Left < Right and Top < Bottom for any box produced by this package.
// Boxes are values: operations return new boxes instead of mutating.
type BoundingBox struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// NewBoundingBox creates a box from its edges, swapping them if needed so
// that Left <= Right and Top <= Bottom.
func NewBoundingBox(left, top, right, bottom int) BoundingBox {
	if left > right {
		left, right = right, left
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	return BoundingBox{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() int { return b.Right - b.Left }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() int { return b.Bottom - b.Top }

// Contains reports whether other lies inside b (edges inclusive).
func (b BoundingBox) Contains(other BoundingBox) bool {
	return other.Left >= b.Left && other.Right <= b.Right &&
		other.Top >= b.Top && other.Bottom <= b.Bottom
}

// OverlapsVertically reports whether the vertical extents strictly overlap.
func (b BoundingBox) OverlapsVertically(other BoundingBox) bool {
	return other.Top < b.Bottom && b.Top < other.Bottom
}

// OverlapsHorizontally reports whether the horizontal extents strictly overlap.
func (b BoundingBox) OverlapsHorizontally(other BoundingBox) bool {
	return other.Left < b.Right && b.Left < other.Right
}

// Union returns the smallest box enclosing b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		Left:   min(b.Left, other.Left),
		Top:    min(b.Top, other.Top),
		Right:  max(b.Right, other.Right),
		Bottom: max(b.Bottom, other.Bottom),
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("bbox %d %d %d %d", b.Left, b.Top, b.Right, b.Bottom)
}

// Aggregate returns the minimal box enclosing all boxes.
// ok is false when boxes is empty.
func Aggregate(boxes ...BoundingBox) (box BoundingBox, ok bool) {
	if len(boxes) == 0 {
		return BoundingBox{}, false
	}
	box = boxes[0]
	for _, b := range boxes[1:] {
		box = box.Union(b)
	}
	return box, true
}

// AggregateRegions returns the minimal box enclosing the given regions.
func AggregateRegions(regions []*Region) (BoundingBox, bool) {
	boxes := make([]BoundingBox, 0, len(regions))
	for _, r := range regions {
		boxes = append(boxes, r.Box())
	}
	return Aggregate(boxes...)
}

// rect converts the box into the rtree min/max representation.
func (b BoundingBox) rect() (lo, hi [2]float64) {
	return [2]float64{float64(b.Left), float64(b.Top)},
		[2]float64{float64(b.Right), float64(b.Bottom)}
}
