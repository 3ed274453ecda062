package layout

import (
	"math"

	"github.com/gardar/hocrlayout/pkg/region"
)

// columnStats summarizes the classified paragraphs of one column.
type columnStats struct {
	avgPlainDist  float64
	avgIndentDist float64
	exdents       int
	nones         int
	predominant   region.TextOrientation // zero when neither left nor justified dominates
}

// columnParagraph is a paragraph of a column with the state the
// extrapolation reads from before anything is written back.
type columnParagraph struct {
	par         *region.Region
	block       *region.Region
	inset       int
	hasLines    bool
	indentation region.Indentation
	orientation region.TextOrientation
}

func (p columnParagraph) resolved() bool {
	return p.indentation != 0 && p.orientation != 0
}

// extrapolation is the layout decided for one paragraph.
type extrapolation struct {
	par         *region.Region
	indentation region.Indentation
	orientation region.TextOrientation
}

// ComputeColumnLayout fills in indentation and textOrientation of paragraphs
// in column that could not be classified from their own lines, using the
// statistics of the whole column and the paragraphs immediately above and
// below. Every paragraph it touches is flagged layoutExtrapolated. It must
// run after all blocks of the column have been split.
func (a *Analyzer) ComputeColumnLayout(column *region.Region, dpi int) {
	pars := a.columnParagraphs(column)
	if len(pars) == 0 {
		return
	}
	stats := columnStatistics(pars)
	theta := float64(a.config.Threshold(dpi))

	var decisions []extrapolation
	for i, p := range pars {
		if p.resolved() || !p.hasLines {
			continue
		}
		d := extrapolation{par: p.par}
		inset := float64(p.inset)
		switch {
		case math.Abs(inset-stats.avgPlainDist) < theta:
			d.indentation = resolveIndentation(pars, i, stats)
			d.orientation = resolveOrientation(pars, i, stats)
		case math.Abs(inset-stats.avgIndentDist) < theta:
			d.indentation = region.IndentationIndent
			d.orientation = stats.predominant
		default:
			d.indentation = region.IndentationNone
			d.orientation = region.OrientationCentered
		}
		decisions = append(decisions, d)
	}

	for _, d := range decisions {
		if _, ok := d.par.Indentation(); !ok && d.indentation != 0 {
			d.par.SetIndentation(d.indentation)
		}
		if _, ok := d.par.TextOrientation(); !ok && d.orientation != 0 {
			d.par.SetTextOrientation(d.orientation)
		}
		d.par.SetLayoutExtrapolated(true)
	}
	if len(decisions) > 0 {
		a.reportf("%s %d: extrapolated layout of %d/%d paragraphs",
			column.Type(), column.ID(), len(decisions), len(pars))
	}
}

// columnParagraphs snapshots the paragraphs of column in reading order.
func (a *Analyzer) columnParagraphs(column *region.Region) []columnParagraph {
	page := column.Page()
	regions := page.Within(region.TypeParagraph, column.Box())
	pars := make([]columnParagraph, 0, len(regions))
	for _, r := range regions {
		p := columnParagraph{par: r}
		if lines := linesOf(r); len(lines) > 0 {
			p.hasLines = true
			p.inset = lines[0].Box().Left - column.Box().Left
		}
		if blocks := page.Enclosing(region.TypeBlock, r.Box()); len(blocks) > 0 {
			p.block = blocks[0]
		}
		p.indentation, _ = r.Indentation()
		p.orientation, _ = r.TextOrientation()
		pars = append(pars, p)
	}
	return pars
}

func columnStatistics(pars []columnParagraph) columnStats {
	var stats columnStats
	plainSum, plainCount, indentSum, indentCount := 0, 0, 0, 0
	lefts, justified, classified := 0, 0, 0
	for _, p := range pars {
		switch p.indentation {
		case region.IndentationExdent:
			stats.exdents++
		case region.IndentationNone:
			stats.nones++
		}
		if p.hasLines {
			switch {
			case p.indentation == region.IndentationIndent:
				indentSum += p.inset
				indentCount++
			case p.indentation == region.IndentationExdent,
				p.indentation == region.IndentationNone && p.orientation != region.OrientationCentered:
				plainSum += p.inset
				plainCount++
			}
		}
		switch p.orientation {
		case 0:
			continue
		case region.OrientationLeft:
			lefts++
		case region.OrientationJustified:
			justified++
		}
		classified++
	}

	stats.avgPlainDist = bucketAverage(plainSum, plainCount)
	stats.avgIndentDist = bucketAverage(indentSum, indentCount)
	switch {
	case 2*lefts > classified:
		stats.predominant = region.OrientationLeft
	case 2*justified > classified:
		stats.predominant = region.OrientationJustified
	}
	return stats
}

// bucketAverage returns math.MaxFloat64 for an empty bucket so no inset can
// come within the threshold of it.
func bucketAverage(sum, count int) float64 {
	if count == 0 {
		return math.MaxFloat64
	}
	return float64(sum) / float64(count)
}

// neighbours returns the paragraphs directly before and after index i.
func neighbours(pars []columnParagraph, i int) (prev, next *columnParagraph) {
	if i > 0 {
		prev = &pars[i-1]
	}
	if i+1 < len(pars) {
		next = &pars[i+1]
	}
	return prev, next
}

// pickNeighbour resolves a value from the neighbours of pars[i]. The bool
// result is false when both neighbours carry different values and neither
// shares the block of pars[i].
func pickNeighbour[T comparable](pars []columnParagraph, i int, value func(columnParagraph) T) (T, bool) {
	var zero T
	prev, next := neighbours(pars, i)
	var before, after T
	if prev != nil {
		before = value(*prev)
	}
	if next != nil {
		after = value(*next)
	}
	switch {
	case before == after:
		return before, true
	case after == zero:
		return before, true
	case before == zero:
		return after, true
	}

	block := pars[i].block
	switch {
	case block == nil:
	case prev.block == block:
		return before, true
	case next.block == block:
		return after, true
	}
	return zero, false
}

func resolveIndentation(pars []columnParagraph, i int, stats columnStats) region.Indentation {
	ind, ok := pickNeighbour(pars, i, func(p columnParagraph) region.Indentation { return p.indentation })
	switch {
	case !ok && stats.exdents < stats.nones:
		return region.IndentationExdent
	case !ok:
		return region.IndentationNone
	case ind == 0:
		return region.IndentationNone
	}
	return ind
}

func resolveOrientation(pars []columnParagraph, i int, stats columnStats) region.TextOrientation {
	o, ok := pickNeighbour(pars, i, func(p columnParagraph) region.TextOrientation { return p.orientation })
	if !ok || o == 0 {
		return stats.predominant
	}
	return o
}
