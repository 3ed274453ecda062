// Package region implements the geometric region tree that the layout engine
// works on.
//
// A Page owns a flat set of regions. Regions do not store parent or child
// links: the children of a region are the regions of a given type whose
// bounding box lies inside its box, answered by a spatial index on the page.
// That keeps containment a pure function of current geometry.
//
// Key Types:
//
// - BoundingBox: integer pixel rectangle
// - Region: typed box with an attribute bag of tagged values
// - Page: region set with R-tree backed containment queries
// - Batch: collects removals and creations and applies them in one step
package region

import (
	"maps"
	"slices"
)

// Type is the kind of a region.
type Type int

const (
	TypeColumn Type = iota + 1
	TypeBlock
	TypeParagraph
	TypeLine
	TypeWord
	TypeTable
)

func (t Type) String() string {
	switch t {
	case TypeColumn:
		return "column"
	case TypeBlock:
		return "block"
	case TypeParagraph:
		return "paragraph"
	case TypeLine:
		return "line"
	case TypeWord:
		return "word"
	case TypeTable:
		return "table"
	}
	return "unknown"
}

// Region is a typed rectangle on a page plus its attributes.
type Region struct {
	id       uint64
	page     *Page
	typ      Type
	box      BoundingBox
	attrs    map[Key]Value
	attached bool
}

// ID returns the page-unique identifier of the region.
func (r *Region) ID() uint64 { return r.id }

// Page returns the page that owns the region.
func (r *Region) Page() *Page { return r.page }

// Type returns the region type.
func (r *Region) Type() Type { return r.typ }

// Box returns the bounding box of the region.
func (r *Region) Box() BoundingBox { return r.box }

// Attached reports whether the region is currently part of its page.
func (r *Region) Attached() bool { return r.attached }

// Get returns the raw attribute value for key; the zero Value if absent.
func (r *Region) Get(key Key) Value { return r.attrs[key] }

// Set stores an attribute value. Setting the zero Value deletes the key.
func (r *Region) Set(key Key, v Value) {
	if v.IsZero() {
		delete(r.attrs, key)
		return
	}
	if r.attrs == nil {
		r.attrs = make(map[Key]Value)
	}
	r.attrs[key] = v
}

// Delete removes an attribute.
func (r *Region) Delete(key Key) { delete(r.attrs, key) }

// Has reports whether the attribute is present.
func (r *Region) Has(key Key) bool {
	_, ok := r.attrs[key]
	return ok
}

// Keys returns the attribute keys in sorted order.
func (r *Region) Keys() []Key {
	return slices.Sorted(maps.Keys(r.attrs))
}

// Attr returns the string form of an attribute, or "" when absent.
func (r *Region) Attr(key Key) string { return r.attrs[key].String() }

// SetAttr stores a raw string attribute.
func (r *Region) SetAttr(key Key, s string) { r.Set(key, StringValue(s)) }

// CopyAttributes copies every attribute of src onto r.
func (r *Region) CopyAttributes(src *Region) {
	for k, v := range src.attrs {
		r.Set(k, v)
	}
}

// Indentation returns the indentation class of the region.
func (r *Region) Indentation() (Indentation, bool) {
	return r.attrs[KeyIndentation].Indentation()
}

// SetIndentation sets the indentation class of the region.
func (r *Region) SetIndentation(i Indentation) { r.Set(KeyIndentation, IndentationValue(i)) }

// TextOrientation returns the text orientation class of the region.
func (r *Region) TextOrientation() (TextOrientation, bool) {
	return r.attrs[KeyTextOrientation].TextOrientation()
}

// SetTextOrientation sets the text orientation class of the region.
func (r *Region) SetTextOrientation(o TextOrientation) {
	r.Set(KeyTextOrientation, OrientationValue(o))
}

// FontSize returns the font size in points. Non-positive values read as absent.
func (r *Region) FontSize() (int, bool) { return r.positive(KeyFontSize) }

// SetFontSize sets the font size in points.
func (r *Region) SetFontSize(n int) { r.Set(KeyFontSize, IntValue(n)) }

// Baseline returns the pixel y-coordinate of the text baseline.
// Non-positive values read as absent.
func (r *Region) Baseline() (int, bool) { return r.positive(KeyBaseline) }

// SetBaseline sets the pixel y-coordinate of the text baseline.
func (r *Region) SetBaseline(n int) { r.Set(KeyBaseline, IntValue(n)) }

// LineHeight returns the mean line height in pixels.
func (r *Region) LineHeight() (int, bool) { return r.positive(KeyLineHeight) }

// SetLineHeight sets the mean line height in pixels.
func (r *Region) SetLineHeight(n int) { r.Set(KeyLineHeight, IntValue(n)) }

// LayoutExtrapolated reports whether the layout attributes were inferred
// from the surrounding column.
func (r *Region) LayoutExtrapolated() bool {
	b, _ := r.attrs[KeyLayoutExtrapolated].Bool()
	return b
}

// SetLayoutExtrapolated marks the region as extrapolated.
func (r *Region) SetLayoutExtrapolated(b bool) { r.Set(KeyLayoutExtrapolated, BoolValue(b)) }

func (r *Region) positive(key Key) (int, bool) {
	n, ok := r.attrs[key].Int()
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}
