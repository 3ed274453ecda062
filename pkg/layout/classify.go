package layout

import (
	"math"

	"github.com/gardar/hocrlayout/pkg/region"
)

// WrapParagraphs shrinks or grows every paragraph of block to the tight
// envelope of its lines. Paragraphs that change are replaced by a new region
// carrying the same attributes.
func (a *Analyzer) WrapParagraphs(block *region.Region) {
	page := block.Page()
	batch := page.Batch()
	for _, p := range page.Within(region.TypeParagraph, block.Box()) {
		box, ok := region.AggregateRegions(linesOf(p))
		if !ok || box == p.Box() {
			continue
		}
		batch.Replace(p, box)
	}
	batch.Commit()
}

// ClassifyBlock classifies every paragraph of block and aggregates the result
// onto the block.
func (a *Analyzer) ClassifyBlock(block *region.Region, dpi int) {
	for _, p := range block.Page().Within(region.TypeParagraph, block.Box()) {
		a.ClassifyParagraph(p, dpi)
	}
	a.AggregateBlockIndentation(block)
}

// ClassifyParagraph computes lineHeight, indentation and textOrientation of a
// paragraph from the starts and ends of its lines. Attributes it cannot
// decide are left untouched.
func (a *Analyzer) ClassifyParagraph(par *region.Region, dpi int) {
	lines := linesOf(par)
	n := len(lines)
	if n == 0 {
		return
	}

	heights := 0
	for _, l := range lines {
		heights += l.Box().Height()
	}
	par.SetLineHeight(heights / n)
	if n < 2 {
		return
	}

	theta := a.config.Threshold(dpi)
	box := par.Box()
	starts := make([]int, n)
	ends := make([]int, n)
	for i, l := range lines {
		starts[i] = l.Box().Left - box.Left
		ends[i] = box.Right - l.Box().Right
	}
	minStart, maxStart := spread(starts)
	minEnd, maxEnd := spread(ends)
	avgNonFirstStart := average(starts[1:])
	avgNonFirstEnd := average(ends[1:])

	if starts[0] != maxStart &&
		maxStart-minStart > theta && maxEnd-minEnd > theta &&
		abs(minStart-minEnd) < theta && abs(maxStart-maxEnd) < theta {
		par.SetIndentation(region.IndentationNone)
		par.SetTextOrientation(region.OrientationCentered)
		return
	}

	normLeft := 0
	switch {
	case maxStart-minStart < theta:
		par.SetIndentation(region.IndentationNone)
	case float64(starts[0]) < avgNonFirstStart:
		par.SetIndentation(region.IndentationExdent)
		normLeft = maxStart
	default:
		par.SetIndentation(region.IndentationIndent)
		normLeft = minStart
	}

	left := avgNonFirstStart-float64(normLeft) < float64(theta)
	right := avgNonFirstEnd < float64(theta)
	switch {
	case left && right:
		par.SetTextOrientation(region.OrientationJustified)
	case left:
		par.SetTextOrientation(region.OrientationLeft)
	case right:
		par.SetTextOrientation(region.OrientationRight)
	}
}

// AggregateBlockIndentation rolls the paragraph indentation of block up to
// the block. The first paragraph may continue a previous block and is only
// used when it is the only one.
func (a *Analyzer) AggregateBlockIndentation(block *region.Region) {
	pars := block.Page().Within(region.TypeParagraph, block.Box())
	switch len(pars) {
	case 0:
		return
	case 1:
		block.Delete(region.KeyIndentation)
		if ind, ok := pars[0].Indentation(); ok && ind != region.IndentationNone {
			block.SetIndentation(ind)
		}
		return
	}

	var values []region.Indentation
	for _, p := range pars[1:] {
		ind, ok := p.Indentation()
		if !ok {
			continue
		}
		found := false
		for _, v := range values {
			found = found || v == ind
		}
		if !found {
			values = append(values, ind)
		}
	}

	switch len(values) {
	case 0:
		block.Delete(region.KeyIndentation)
	case 1:
		block.SetIndentation(values[0])
		for _, p := range pars[1:] {
			if !p.Has(region.KeyIndentation) {
				p.SetIndentation(values[0])
			}
		}
	default:
		block.SetIndentation(region.IndentationMixed)
	}
}

// AggregateFontSizes sets the font size of every paragraph of block to the
// rounded mean of its lines' font sizes and back-fills lines without one.
func (a *Analyzer) AggregateFontSizes(block *region.Region) {
	for _, p := range block.Page().Within(region.TypeParagraph, block.Box()) {
		a.AggregateFontSize(p)
	}
}

// AggregateFontSize sets the font size of par from its lines. Paragraphs
// whose lines carry no font size are left alone.
func (a *Analyzer) AggregateFontSize(par *region.Region) {
	lines := linesOf(par)
	sum, count := 0, 0
	for _, l := range lines {
		if fs, ok := l.FontSize(); ok {
			sum += fs
			count++
		}
	}
	if count == 0 {
		return
	}
	size := (sum + count/2) / count
	par.SetFontSize(size)
	for _, l := range lines {
		if _, ok := l.FontSize(); !ok {
			l.SetFontSize(size)
		}
	}
}

func spread(values []int) (lo, hi int) {
	lo, hi = math.MaxInt, math.MinInt
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
