package layout

import (
	"math"

	"github.com/gardar/hocrlayout/pkg/region"
)

// paragraphLines is one paragraph of a block with the normalized lines it
// contains.
type paragraphLines struct {
	par   *region.Region
	lines []*region.Region
}

// groupByParagraph assigns each line to the paragraph of block that owns it.
// Paragraphs come out top to bottom.
func groupByParagraph(block *region.Region, lines []*region.Region) []paragraphLines {
	pars := block.Page().Within(region.TypeParagraph, block.Box())
	index := make(map[*region.Region]int, len(pars))
	groups := make([]paragraphLines, len(pars))
	for i, p := range pars {
		index[p] = i
		groups[i].par = p
	}
	for _, l := range lines {
		owner, ok := owningParagraph(l)
		if !ok {
			continue
		}
		if i, ok := index[owner]; ok {
			groups[i].lines = append(groups[i].lines, l)
		}
	}
	return groups
}

// owningParagraph returns the first paragraph in reading order containing l.
func owningParagraph(l *region.Region) (*region.Region, bool) {
	return l.Page().Owner(region.TypeParagraph, l.Box())
}

// linesOf returns the lines par owns, top to bottom.
func linesOf(par *region.Region) []*region.Region {
	var lines []*region.Region
	for _, l := range par.Page().Within(region.TypeLine, par.Box()) {
		if owner, ok := owningParagraph(l); ok && owner == par {
			lines = append(lines, l)
		}
	}
	return lines
}

// segment cuts lines into contiguous runs, starting a new run before every
// index i >= 1 for which cutBefore returns true.
func segment(lines []*region.Region, cutBefore func(i int) bool) [][]*region.Region {
	if len(lines) == 0 {
		return nil
	}
	var segments [][]*region.Region
	start := 0
	for i := 1; i < len(lines); i++ {
		if cutBefore(i) {
			segments = append(segments, lines[start:i])
			start = i
		}
	}
	return append(segments, lines[start:])
}

// createParagraphs schedules one paragraph per segment.
func createParagraphs(batch *region.Batch, segments [][]*region.Region) {
	for _, seg := range segments {
		if box, ok := region.AggregateRegions(seg); ok {
			batch.Create(region.TypeParagraph, box)
		}
	}
}

// subdivide schedules the replacement of par by one paragraph per segment.
// It reports whether par was split.
func subdivide(batch *region.Batch, par *region.Region, segments [][]*region.Region) bool {
	if len(segments) < 2 {
		return false
	}
	batch.Remove(par)
	createParagraphs(batch, segments)
	return true
}

// splitShortLine replaces the paragraphs of block by a partition of lines
// that ends a paragraph after every line falling clearly short of the
// average right edge.
func (a *Analyzer) splitShortLine(block *region.Region, lines []*region.Region, dpi int) {
	page := block.Page()
	batch := page.Batch()
	for _, p := range page.Within(region.TypeParagraph, block.Box()) {
		batch.Remove(p)
	}
	defer batch.Commit()

	switch len(lines) {
	case 0:
		return
	case 1:
		createParagraphs(batch, [][]*region.Region{lines})
		return
	}

	theta := a.config.Threshold(dpi)
	left := block.Box().Left
	minEnd, maxEnd, sum := math.MaxInt, math.MinInt, 0
	for _, l := range lines {
		end := l.Box().Right - left
		minEnd = min(minEnd, end)
		maxEnd = max(maxEnd, end)
		sum += end
	}
	if maxEnd-minEnd < theta {
		createParagraphs(batch, [][]*region.Region{lines})
		return
	}

	avgEnd := float64(sum) / float64(len(lines))
	mean := meanHeight(lines)
	segments := segment(lines, func(i int) bool {
		prev := lines[i-1]
		if a.undersized(prev, mean) || len(page.Words(prev.Box())) == 0 {
			return false
		}
		return avgEnd-float64(prev.Box().Right-left) > float64(theta)
	})
	createParagraphs(batch, segments)
	if len(segments) > 1 {
		a.reportf("%s %d: short-line split into %d paragraphs", block.Type(), block.ID(), len(segments))
	}
}

// splitLineStart subdivides paragraphs whose lines start at two distinct
// positions, cutting before lines that look like paragraph starts.
func (a *Analyzer) splitLineStart(block *region.Region, lines []*region.Region, dpi int) {
	groups := groupByParagraph(block, lines)
	if len(groups) == 0 {
		return
	}
	theta := float64(a.config.Threshold(dpi))
	left := block.Box().Left
	mean := meanHeight(lines)
	noise := a.config.NoiseIndentRatio * float64(block.Box().Width())

	start := func(l *region.Region) int { return l.Box().Left - left }
	qualifies := func(l *region.Region) bool {
		return !a.undersized(l, mean) && float64(start(l)) <= noise
	}

	minStart, maxStart := math.MaxInt, math.MinInt
	sum, count, firstSum, firstCount := 0, 0, 0, 0
	for _, g := range groups {
		for i, l := range g.lines {
			if !qualifies(l) {
				continue
			}
			s := start(l)
			minStart = min(minStart, s)
			maxStart = max(maxStart, s)
			sum += s
			count++
			if i == 0 {
				firstSum += s
				firstCount++
			}
		}
	}
	if count == 0 || float64(maxStart-minStart) < theta {
		return
	}
	avgLineStart := float64(sum) / float64(count)
	avgFirstLineStart := 0.0
	if firstCount > 0 {
		avgFirstLineStart = float64(firstSum) / float64(firstCount)
	}
	lefter := func(l *region.Region) bool {
		s := start(l)
		return s-minStart <= maxStart-s
	}

	byAverage := len(groups) >= a.config.LineStartAverageParagraphs
	// averages closer than theta carry no indent signal
	trustAverages := firstCount > 0 && math.Abs(avgFirstLineStart-avgLineStart) >= theta

	batch := block.Page().Batch()
	split := 0
	for _, g := range groups {
		n, lefters := 0, 0
		for _, l := range g.lines {
			if qualifies(l) {
				n++
				if lefter(l) {
					lefters++
				}
			}
		}
		if n < a.config.LineStartMinLines {
			continue
		}
		cutBeforeRighter, cutBeforeLefter := a.lineStartFlags(n, lefters, n-lefters)

		segments := segment(g.lines, func(i int) bool {
			l := g.lines[i]
			if !qualifies(l) {
				return false
			}
			if !byAverage {
				if lefter(l) {
					return cutBeforeLefter
				}
				return cutBeforeRighter
			}
			if !trustAverages {
				return false
			}
			s := float64(start(l))
			return math.Abs(s-avgFirstLineStart) < math.Abs(s-avgLineStart)
		})
		if subdivide(batch, g.par, segments) {
			split++
		}
	}
	batch.Commit()
	if split > 0 {
		a.reportf("%s %d: line-start split %d paragraphs", block.Type(), block.ID(), split)
	}
}

// lineStartFlags decides from the sizes of the lefter and righter line groups
// of a paragraph which kind of line may start a new paragraph. A clear lefter
// majority means indented first lines, so righter lines start paragraphs; a
// clear righter majority means exdented first lines.
func (a *Analyzer) lineStartFlags(n, lefters, righters int) (cutBeforeRighter, cutBeforeLefter bool) {
	if n < a.config.LineStartMinLines {
		return false, false
	}
	ratio := a.config.LineStartSmallRatio
	if n >= a.config.LineStartLargeLines {
		ratio = a.config.LineStartLargeRatio
	}
	cutBeforeRighter = float64(lefters) >= ratio*float64(righters)
	cutBeforeLefter = float64(righters) >= ratio*float64(lefters)
	return cutBeforeRighter, cutBeforeLefter
}

// splitLineMargin subdivides paragraphs at vertical gaps that look like the
// gaps between paragraphs rather than between lines.
func (a *Analyzer) splitLineMargin(block *region.Region, lines []*region.Region, dpi int) {
	groups := groupByParagraph(block, lines)
	if len(groups) < a.config.LineMarginMinParagraphs {
		return
	}

	lineSum, lineCount, parSum, parCount := 0, 0, 0, 0
	var prevLast *region.Region
	for _, g := range groups {
		if len(g.lines) == 0 {
			continue
		}
		if prevLast != nil {
			parSum += g.lines[0].Box().Top - prevLast.Box().Bottom
			parCount++
		}
		for i := 1; i < len(g.lines); i++ {
			lineSum += g.lines[i].Box().Top - g.lines[i-1].Box().Bottom
			lineCount++
		}
		prevLast = g.lines[len(g.lines)-1]
	}
	if lineCount == 0 || parCount == 0 {
		return
	}
	avgLine := float64(lineSum) / float64(lineCount)
	avgPar := float64(parSum) / float64(parCount)
	minGap := max(float64(a.config.Threshold(dpi)), a.config.LineMarginRatio*avgLine)

	batch := block.Page().Batch()
	split := 0
	for _, g := range groups {
		segments := segment(g.lines, func(i int) bool {
			gap := float64(g.lines[i].Box().Top - g.lines[i-1].Box().Bottom)
			return gap >= minGap && math.Abs(gap-avgPar) < math.Abs(gap-avgLine)
		})
		if subdivide(batch, g.par, segments) {
			split++
		}
	}
	batch.Commit()
	if split > 0 {
		a.reportf("%s %d: line-margin split %d paragraphs", block.Type(), block.ID(), split)
	}
}

// splitLineDistance subdivides paragraphs before lines whose baseline is
// unusually far below the previous one.
func (a *Analyzer) splitLineDistance(block *region.Region, lines []*region.Region, dpi int) {
	groups := groupByParagraph(block, lines)

	batch := block.Page().Batch()
	split := 0
	for _, g := range groups {
		if len(g.lines) < a.config.LineDistanceMinLines {
			continue
		}
		baselines := make([]int, len(g.lines))
		complete := true
		for i, l := range g.lines {
			b, ok := l.Baseline()
			if !ok {
				complete = false
				break
			}
			baselines[i] = b
		}
		if !complete {
			continue
		}

		sum := 0
		for i := 1; i < len(baselines); i++ {
			sum += baselines[i] - baselines[i-1]
		}
		if sum <= 0 {
			continue
		}
		count := len(baselines) - 1
		segments := segment(g.lines, func(i int) bool {
			d := baselines[i] - baselines[i-1]
			// d >= ratio * sum/count without dividing
			return float64(d*count) >= a.config.LineDistanceRatio*float64(sum)
		})
		if subdivide(batch, g.par, segments) {
			split++
		}
	}
	batch.Commit()
	if split > 0 {
		a.reportf("%s %d: line-distance split %d paragraphs", block.Type(), block.ID(), split)
	}
}
