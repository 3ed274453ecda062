package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/hocrlayout/pkg/region"
)

// columnPar is a single-line paragraph at row i of a test column.
type columnPar struct {
	inset       int
	indentation region.Indentation
	orientation region.TextOrientation
}

// buildColumn creates a column at x=0 with one single-line paragraph per
// entry, 100 pixels apart.
func buildColumn(t *testing.T, pars []columnPar) (*region.Page, *region.Region, []*region.Region) {
	t.Helper()
	page := region.NewPage(region.NewBoundingBox(0, 0, 2000, 3000), testDPI)
	column := page.Create(region.TypeColumn, region.NewBoundingBox(0, 0, 1000, 100*len(pars)+100))
	var out []*region.Region
	for i, cp := range pars {
		box := region.NewBoundingBox(cp.inset, 100+i*100, 900, 130+i*100)
		page.Create(region.TypeLine, box)
		p := page.Create(region.TypeParagraph, box)
		if cp.indentation != 0 {
			p.SetIndentation(cp.indentation)
		}
		if cp.orientation != 0 {
			p.SetTextOrientation(cp.orientation)
		}
		out = append(out, p)
	}
	return page, column, out
}

func requireLayout(t *testing.T, p *region.Region, ind region.Indentation, o region.TextOrientation) {
	t.Helper()
	got, ok := p.Indentation()
	require.True(t, ok, "indentation unset")
	assert.Equal(t, ind, got)
	gotO, ok := p.TextOrientation()
	require.True(t, ok, "orientation unset")
	assert.Equal(t, o, gotO)
}

func TestComputeColumnLayout_NeighboursAgree(t *testing.T) {
	page, column, pars := buildColumn(t, []columnPar{
		{inset: 50, indentation: region.IndentationIndent, orientation: region.OrientationLeft},
		{inset: 50},
		{inset: 50, indentation: region.IndentationIndent, orientation: region.OrientationLeft},
	})
	a := NewDefault()

	a.ComputeColumnLayout(column, testDPI)

	requireLayout(t, pars[1], region.IndentationIndent, region.OrientationLeft)
	assert.True(t, pars[1].LayoutExtrapolated())
	assert.False(t, pars[0].LayoutExtrapolated())
	assert.False(t, pars[2].LayoutExtrapolated())

	// a fully classified column is left alone
	before := snapshot(page)
	a.ComputeColumnLayout(column, testDPI)
	assert.Equal(t, before, snapshot(page))
}

func TestComputeColumnLayout_SameBlockWins(t *testing.T) {
	page, column, pars := buildColumn(t, []columnPar{
		{inset: 0, indentation: region.IndentationNone, orientation: region.OrientationLeft},
		{inset: 0},
		{inset: 0, indentation: region.IndentationExdent, orientation: region.OrientationJustified},
	})
	page.Create(region.TypeBlock, region.NewBoundingBox(0, 90, 1000, 240))
	page.Create(region.TypeBlock, region.NewBoundingBox(0, 290, 1000, 340))

	NewDefault().ComputeColumnLayout(column, testDPI)

	requireLayout(t, pars[1], region.IndentationNone, region.OrientationLeft)
	assert.True(t, pars[1].LayoutExtrapolated())
}

func TestComputeColumnLayout_NoSharedBlock(t *testing.T) {
	_, column, pars := buildColumn(t, []columnPar{
		{inset: 0, indentation: region.IndentationNone, orientation: region.OrientationJustified},
		{inset: 0, indentation: region.IndentationNone, orientation: region.OrientationJustified},
		{inset: 0},
		{inset: 0, indentation: region.IndentationExdent, orientation: region.OrientationLeft},
	})

	NewDefault().ComputeColumnLayout(column, testDPI)

	// exdent is rarer than none; justified is predominant
	requireLayout(t, pars[2], region.IndentationExdent, region.OrientationJustified)
}

func TestComputeColumnLayout_OneNeighbour(t *testing.T) {
	_, column, pars := buildColumn(t, []columnPar{
		{inset: 0},
		{inset: 0, indentation: region.IndentationNone, orientation: region.OrientationRight},
	})

	NewDefault().ComputeColumnLayout(column, testDPI)

	requireLayout(t, pars[0], region.IndentationNone, region.OrientationRight)
}

func TestComputeColumnLayout_FallsBackToCentered(t *testing.T) {
	_, column, pars := buildColumn(t, []columnPar{
		{inset: 0, indentation: region.IndentationNone, orientation: region.OrientationLeft},
		{inset: 300},
		{inset: 0, indentation: region.IndentationNone, orientation: region.OrientationLeft},
	})

	NewDefault().ComputeColumnLayout(column, testDPI)

	requireLayout(t, pars[1], region.IndentationNone, region.OrientationCentered)
	assert.True(t, pars[1].LayoutExtrapolated())
}

func TestComputeColumnLayout_KeepsExistingAttributes(t *testing.T) {
	_, column, pars := buildColumn(t, []columnPar{
		{inset: 50, indentation: region.IndentationIndent, orientation: region.OrientationJustified},
		{inset: 50, indentation: region.IndentationExdent},
		{inset: 50, indentation: region.IndentationIndent, orientation: region.OrientationJustified},
	})

	NewDefault().ComputeColumnLayout(column, testDPI)

	requireLayout(t, pars[1], region.IndentationExdent, region.OrientationJustified)
	assert.True(t, pars[1].LayoutExtrapolated())
}

func TestComputeColumnLayout_SkipsEmptyParagraphs(t *testing.T) {
	page := region.NewPage(region.NewBoundingBox(0, 0, 2000, 3000), testDPI)
	column := page.Create(region.TypeColumn, region.NewBoundingBox(0, 0, 1000, 1000))
	empty := page.Create(region.TypeParagraph, region.NewBoundingBox(0, 100, 900, 130))

	NewDefault().ComputeColumnsLayout([]*region.Region{column}, testDPI)

	assert.Empty(t, empty.Keys())
}
