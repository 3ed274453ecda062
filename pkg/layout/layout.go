// Package layout infers logical text structure from the physical layout of a
// segmented page.
//
// Input is a region.Page whose columns, blocks, lines and words were produced
// by an upstream segmentation. The Analyzer partitions each block's lines into
// new paragraph regions and classifies them:
//
// - indentation: none, indent, exdent (and mixed at block level)
// - textOrientation: left, right, justified, centered
// - fontSize and lineHeight aggregated from the lines
//
// Paragraph splitting runs three strategies in sequence (short line, line
// start, line distance); a fourth (line margin) is available on its own or
// through Config.EnableLineMargin. After all blocks of a column are split,
// ComputeColumnLayout fills in what single-line paragraphs could not decide
// locally from their neighbours in the column.
//
// All distance thresholds scale with the resolution passed to each call.
// Nothing in this package fails: a heuristic without enough evidence leaves
// the page unchanged.
package layout

import (
	"github.com/gardar/hocrlayout/pkg/region"
)

// Analyzer runs the paragraph segmentation and layout classification.
// An Analyzer holds no per-page state and may be reused across pages.
type Analyzer struct {
	config   Config
	reporter Reporter
}

// New creates an Analyzer. A nil reporter discards progress messages.
func New(config Config, reporter Reporter) *Analyzer {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Analyzer{config: config, reporter: reporter}
}

// NewDefault creates an Analyzer with DefaultConfig and no progress output.
func NewDefault() *Analyzer {
	return New(DefaultConfig(), nil)
}

// Config returns the configuration of the analyzer.
func (a *Analyzer) Config() Config { return a.config }

// SplitIntoParagraphs replaces the paragraphs of block with a fresh partition
// of its lines and classifies them.
func (a *Analyzer) SplitIntoParagraphs(block *region.Region, dpi int) {
	lines := a.normalizeLines(block)
	a.splitShortLine(block, lines, dpi)
	a.splitLineStart(block, lines, dpi)
	if a.config.EnableLineMargin {
		a.splitLineMargin(block, lines, dpi)
	}
	a.splitLineDistance(block, lines, dpi)

	a.WrapParagraphs(block)
	a.ClassifyBlock(block, dpi)
	a.AggregateFontSizes(block)

	a.reportf("%s %d: %d lines in %d paragraphs", block.Type(), block.ID(),
		len(lines), len(block.Page().Within(region.TypeParagraph, block.Box())))
}

// SplitBlocksIntoParagraphs runs SplitIntoParagraphs on every block in order.
func (a *Analyzer) SplitBlocksIntoParagraphs(blocks []*region.Region, dpi int) {
	for _, b := range blocks {
		a.SplitIntoParagraphs(b, dpi)
	}
}

// SplitIntoParagraphsShortLine partitions the block's lines at short lines.
// Existing paragraphs of the block are replaced.
func (a *Analyzer) SplitIntoParagraphsShortLine(block *region.Region, dpi int) {
	a.splitShortLine(block, a.normalizeLines(block), dpi)
}

// SplitIntoParagraphsLineStart subdivides the block's paragraphs where line
// starts indicate an indented or exdented first line.
func (a *Analyzer) SplitIntoParagraphsLineStart(block *region.Region, dpi int) {
	a.splitLineStart(block, a.normalizeLines(block), dpi)
}

// SplitIntoParagraphsLineMargin subdivides the block's paragraphs at large
// vertical gaps between lines.
func (a *Analyzer) SplitIntoParagraphsLineMargin(block *region.Region, dpi int) {
	a.splitLineMargin(block, a.normalizeLines(block), dpi)
}

// SplitIntoParagraphsLineDistance subdivides the block's paragraphs where the
// baseline distance jumps.
func (a *Analyzer) SplitIntoParagraphsLineDistance(block *region.Region, dpi int) {
	a.splitLineDistance(block, a.normalizeLines(block), dpi)
}

// ComputeColumnsLayout runs ComputeColumnLayout on every column in order.
func (a *Analyzer) ComputeColumnsLayout(columns []*region.Region, dpi int) {
	for _, c := range columns {
		a.ComputeColumnLayout(c, dpi)
	}
}

// AnalyzePage splits every block of the page and extrapolates layout within
// each column. Blocks outside any column are split but not extrapolated;
// blocks inside a table are skipped.
func (a *Analyzer) AnalyzePage(page *region.Page, dpi int) {
	tables := page.All(region.TypeTable)
	inTable := func(b *region.Region) bool {
		for _, t := range tables {
			if t.Box().Contains(b.Box()) {
				return true
			}
		}
		return false
	}

	done := make(map[uint64]bool)
	columns := page.All(region.TypeColumn)
	for i, col := range columns {
		var blocks []*region.Region
		for _, b := range page.Within(region.TypeBlock, col.Box()) {
			if done[b.ID()] || inTable(b) {
				continue
			}
			done[b.ID()] = true
			blocks = append(blocks, b)
		}
		a.reportf("column %d/%d: %d blocks", i+1, len(columns), len(blocks))
		a.SplitBlocksIntoParagraphs(blocks, dpi)
		a.ComputeColumnLayout(col, dpi)
	}

	for _, b := range page.All(region.TypeBlock) {
		if done[b.ID()] || inTable(b) {
			continue
		}
		a.SplitIntoParagraphs(b, dpi)
	}
}
