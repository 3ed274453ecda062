package layout

import (
	"github.com/gardar/hocrlayout/pkg/region"
)

// normalizeLines returns the lines inside container after merging
// side-by-side fragments and dropping undersized noise lines. Merged and
// dropped lines are applied to the page.
func (a *Analyzer) normalizeLines(container *region.Region) []*region.Region {
	page := container.Page()
	lines := page.Within(region.TypeLine, container.Box())
	if len(lines) == 0 {
		return nil
	}

	batch := page.Batch()
	merged := make([]*region.Region, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if i+1 < len(lines) && sideBySide(lines[i], lines[i+1]) {
			merged = append(merged, mergeLines(batch, lines[i], lines[i+1]))
			i++
			continue
		}
		merged = append(merged, lines[i])
	}
	merges := len(lines) - len(merged)
	batch.Commit()

	mean := meanHeight(merged)
	kept := make([]*region.Region, 0, len(merged))
	for i, l := range merged {
		// the first line is never treated as noise
		if i > 0 && a.undersized(l, mean) {
			batch.Remove(l)
			continue
		}
		kept = append(kept, l)
	}
	batch.Commit()

	if merges > 0 || len(kept) < len(merged) {
		a.reportf("%s %d: merged %d line fragments, dropped %d undersized lines",
			container.Type(), container.ID(), merges, len(merged)-len(kept))
	}
	return kept
}

// sideBySide reports whether b continues the text row of a to its right
// without touching it.
func sideBySide(a, b *region.Region) bool {
	ab, bb := a.Box(), b.Box()
	if !ab.OverlapsVertically(bb) {
		return false
	}
	return ab.Right < bb.Left
}

// mergeLines schedules the replacement of two line fragments by one line.
func mergeLines(batch *region.Batch, a, b *region.Region) *region.Region {
	batch.Remove(a)
	batch.Remove(b)
	merged := batch.Create(region.TypeLine, a.Box().Union(b.Box()))
	if x, ok := a.Baseline(); ok {
		if y, ok := b.Baseline(); ok {
			merged.SetBaseline((x + y) / 2)
		}
	}
	if x, ok := a.FontSize(); ok {
		if y, ok := b.FontSize(); ok {
			merged.SetFontSize((x + y) / 2)
		}
	}
	return merged
}

// undersized reports whether line is shorter than the configured fraction of
// the mean line height.
func (a *Analyzer) undersized(line *region.Region, mean float64) bool {
	return float64(line.Box().Height()) < a.config.MinLineHeightRatio*mean
}

func meanHeight(lines []*region.Region) float64 {
	if len(lines) == 0 {
		return 0
	}
	sum := 0
	for _, l := range lines {
		sum += l.Box().Height()
	}
	return float64(sum) / float64(len(lines))
}
