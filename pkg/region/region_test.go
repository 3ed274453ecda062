package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoundingBox(t *testing.T) {
	b := NewBoundingBox(30, 40, 10, 20)
	assert.Equal(t, BoundingBox{Left: 10, Top: 20, Right: 30, Bottom: 40}, b)
	assert.Equal(t, 20, b.Width())
	assert.Equal(t, 20, b.Height())
	assert.Equal(t, "bbox 10 20 30 40", b.String())
}

func TestBoundingBoxRelations(t *testing.T) {
	outer := NewBoundingBox(0, 0, 100, 100)
	inner := NewBoundingBox(10, 10, 100, 50)
	other := NewBoundingBox(100, 40, 200, 60)

	assert.True(t, outer.Contains(inner))
	assert.True(t, outer.Contains(outer))
	assert.False(t, inner.Contains(outer))

	assert.True(t, inner.OverlapsVertically(other))
	assert.False(t, inner.OverlapsHorizontally(other), "touching edges do not overlap")
	assert.Equal(t, NewBoundingBox(10, 10, 200, 60), inner.Union(other))
}

func TestAggregate(t *testing.T) {
	_, ok := Aggregate()
	assert.False(t, ok)

	box, ok := Aggregate(NewBoundingBox(5, 5, 10, 10), NewBoundingBox(0, 7, 8, 20))
	require.True(t, ok)
	assert.Equal(t, NewBoundingBox(0, 5, 10, 20), box)
}

func TestValue(t *testing.T) {
	n, ok := StringValue(" 42 ").Int()
	require.True(t, ok)
	assert.Equal(t, 42, n)

	n, ok = StringValue("11.6").Int()
	require.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = StringValue("large").Int()
	assert.False(t, ok)

	_, ok = Value{}.Int()
	assert.False(t, ok)

	ind, ok := StringValue("Exdent").Indentation()
	require.True(t, ok)
	assert.Equal(t, IndentationExdent, ind)

	o, ok := StringValue("centered").TextOrientation()
	require.True(t, ok)
	assert.Equal(t, OrientationCentered, o)

	assert.Equal(t, "justified", OrientationValue(OrientationJustified).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.True(t, Value{}.IsZero())
}

func TestRegionAttributes(t *testing.T) {
	page := NewPage(NewBoundingBox(0, 0, 100, 100), 300)
	r := page.Create(TypeParagraph, NewBoundingBox(0, 0, 10, 10))

	_, ok := r.FontSize()
	assert.False(t, ok)

	r.SetFontSize(11)
	r.SetIndentation(IndentationIndent)
	r.SetAttr(KeyBaseline, "0")
	r.SetLayoutExtrapolated(true)

	fs, ok := r.FontSize()
	require.True(t, ok)
	assert.Equal(t, 11, fs)
	_, ok = r.Baseline()
	assert.False(t, ok, "non-positive baseline reads as absent")
	assert.True(t, r.LayoutExtrapolated())
	assert.Equal(t, "indent", r.Attr(KeyIndentation))
	assert.Equal(t, []Key{KeyBaseline, KeyFontSize, KeyIndentation, KeyLayoutExtrapolated}, r.Keys())

	r.Set(KeyFontSize, Value{})
	assert.False(t, r.Has(KeyFontSize))
	r.Delete(KeyBaseline)
	assert.False(t, r.Has(KeyBaseline))

	c := page.Create(TypeParagraph, NewBoundingBox(0, 20, 10, 30))
	c.CopyAttributes(r)
	assert.Equal(t, r.Keys(), c.Keys())
}

func TestPageQueries(t *testing.T) {
	page := NewPage(NewBoundingBox(0, 0, 1000, 1000), 300)
	block := page.Create(TypeBlock, NewBoundingBox(100, 100, 500, 300))
	second := page.Create(TypeLine, NewBoundingBox(100, 150, 500, 180))
	first := page.Create(TypeLine, NewBoundingBox(100, 100, 500, 130))
	page.Create(TypeLine, NewBoundingBox(100, 400, 500, 430))
	word := page.Create(TypeWord, NewBoundingBox(120, 100, 200, 130))

	assert.Equal(t, 5, page.Len())
	assert.Equal(t, []*Region{first, second}, page.Within(TypeLine, block.Box()))
	assert.Equal(t, []*Region{word}, page.Words(first.Box()))
	assert.Empty(t, page.Within(TypeTable, block.Box()))
	assert.Len(t, page.All(TypeLine), 3)

	outer := page.Create(TypeBlock, NewBoundingBox(0, 0, 1000, 1000))
	assert.Equal(t, []*Region{block, outer}, page.Enclosing(TypeBlock, word.Box()))

	assert.True(t, page.Remove(second))
	assert.False(t, page.Remove(second))
	assert.False(t, page.Contains(second))
	assert.Equal(t, []*Region{first}, page.Within(TypeLine, block.Box()))
}

func TestPageOwner(t *testing.T) {
	page := NewPage(NewBoundingBox(0, 0, 1000, 1000), 300)
	upper := page.Create(TypeParagraph, NewBoundingBox(100, 100, 500, 200))
	lower := page.Create(TypeParagraph, NewBoundingBox(100, 150, 500, 300))
	shared := NewBoundingBox(100, 160, 500, 190)

	owner, ok := page.Owner(TypeParagraph, shared)
	require.True(t, ok)
	assert.Equal(t, upper, owner)

	owner, ok = page.Owner(TypeParagraph, NewBoundingBox(100, 250, 500, 280))
	require.True(t, ok)
	assert.Equal(t, lower, owner)

	_, ok = page.Owner(TypeParagraph, NewBoundingBox(100, 400, 500, 430))
	assert.False(t, ok)
}

func TestBatch(t *testing.T) {
	page := NewPage(NewBoundingBox(0, 0, 1000, 1000), 300)
	old := page.Create(TypeParagraph, NewBoundingBox(0, 0, 500, 500))
	old.SetIndentation(IndentationExdent)

	batch := page.Batch()
	assert.True(t, batch.Empty())
	created := batch.Create(TypeParagraph, NewBoundingBox(0, 600, 500, 700))
	replaced := batch.Replace(old, NewBoundingBox(10, 10, 490, 490))

	assert.False(t, batch.Empty())
	assert.False(t, created.Attached())
	assert.True(t, page.Contains(old))
	assert.Len(t, page.All(TypeParagraph), 1)

	batch.Commit()

	assert.True(t, batch.Empty())
	assert.False(t, page.Contains(old))
	assert.True(t, page.Contains(created))
	assert.True(t, replaced.Attached())
	ind, ok := replaced.Indentation()
	require.True(t, ok)
	assert.Equal(t, IndentationExdent, ind)
	assert.Equal(t, []*Region{replaced, created}, page.All(TypeParagraph))
}
