package hocr

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gardar/hocrlayout/pkg/region"
)

// DefaultDPI is assumed for pages that declare no scan resolution.
const DefaultDPI = 300

// Conversion is a region.Page built from one hOCR page, together with the
// source elements needed to write the analysed page back as hOCR.
type Conversion struct {
	Page *region.Page
	DPI  int

	source    Page
	blocks    []sourceBlock
	lines     map[*region.Region]Line
	lineWords map[*region.Region][]*region.Region
	words     map[*region.Region]Word
	wordLine  map[*region.Region]string
}

// sourceBlock is an area of the source page and the block or table region
// created for it.
type sourceBlock struct {
	area   Area
	region *region.Region
}

// ToRegionPage builds a region.Page from an hOCR page. Areas become blocks,
// tables become table regions, and lines and words keep their geometry.
// Paragraphs of the input only contribute their lines. Blocks whose
// horizontal extents overlap are grouped into columns.
//
// dpi overrides the scan resolution of the page; 0 uses the page's scan_res
// and falls back to DefaultDPI.
func ToRegionPage(p Page, dpi int) *Conversion {
	if dpi <= 0 {
		dpi = p.ScanRes
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := &Conversion{
		Page:      region.NewPage(toRegionBox(p.BBox), dpi),
		DPI:       dpi,
		source:    p,
		lines:     make(map[*region.Region]Line),
		lineWords: make(map[*region.Region][]*region.Region),
		words:     make(map[*region.Region]Word),
		wordLine:  make(map[*region.Region]string),
	}

	areas := slices.Clone(p.Areas)
	for _, para := range p.Paragraphs {
		areas = append(areas, Area{BBox: para.BBox, Lang: para.Lang, Paragraphs: []Paragraph{para}})
	}
	if len(p.Lines) > 0 {
		areas = append(areas, Area{Lines: p.Lines})
	}

	var blocks []*region.Region
	for _, area := range areas {
		b := c.addArea(area)
		if b != nil && b.Type() == region.TypeBlock {
			blocks = append(blocks, b)
		}
	}
	groupColumns(c.Page, blocks)
	return c
}

// addArea creates the regions of one area and returns its block or table.
// Areas without any geometry are skipped.
func (c *Conversion) addArea(area Area) *region.Region {
	var lines []Line
	var loose []Word
	for _, para := range area.Paragraphs {
		lines = append(lines, para.Lines...)
		loose = append(loose, para.Words...)
	}
	lines = append(lines, area.Lines...)
	loose = append(loose, area.Words...)

	box, ok := areaBox(area, lines, loose)
	if !ok {
		return nil
	}
	if area.Table {
		t := c.Page.Create(region.TypeTable, box)
		c.blocks = append(c.blocks, sourceBlock{area: area, region: t})
		return t
	}

	for _, l := range lines {
		c.addLine(l)
	}
	for _, w := range loose {
		c.addWord(w)
	}
	b := c.Page.Create(region.TypeBlock, box)
	c.blocks = append(c.blocks, sourceBlock{area: area, region: b})
	return b
}

func areaBox(area Area, lines []Line, loose []Word) (region.BoundingBox, bool) {
	var boxes []region.BoundingBox
	if area.BBox != (BoundingBox{}) {
		boxes = append(boxes, toRegionBox(area.BBox))
	}
	for _, l := range lines {
		boxes = append(boxes, toRegionBox(l.BBox))
	}
	for _, w := range loose {
		boxes = append(boxes, toRegionBox(w.BBox))
	}
	return region.Aggregate(boxes...)
}

func (c *Conversion) addLine(l Line) {
	r := c.Page.Create(region.TypeLine, toRegionBox(l.BBox))
	if y, ok := baselineY(l); ok {
		r.SetBaseline(y)
	}
	if fs, ok := lineFontSize(l, c.DPI); ok {
		r.SetFontSize(fs)
	}
	c.lines[r] = l
	for _, w := range l.Words {
		wr := c.addWord(w)
		c.lineWords[r] = append(c.lineWords[r], wr)
		c.wordLine[wr] = l.ID
	}
}

func (c *Conversion) addWord(w Word) *region.Region {
	r := c.Page.Create(region.TypeWord, toRegionBox(w.BBox))
	c.words[r] = w
	return r
}

// groupColumns creates one column per run of blocks whose horizontal extents
// overlap, directly or through other blocks.
func groupColumns(page *region.Page, blocks []*region.Region) {
	blocks = slices.Clone(blocks)
	slices.SortFunc(blocks, func(a, b *region.Region) int {
		return cmp.Compare(a.Box().Left, b.Box().Left)
	})

	var group []*region.Region
	right := math.MinInt
	flush := func() {
		if box, ok := region.AggregateRegions(group); ok {
			page.Create(region.TypeColumn, box)
		}
		group = group[:0]
	}
	for _, b := range blocks {
		if len(group) > 0 && b.Box().Left >= right {
			flush()
		}
		group = append(group, b)
		right = max(right, b.Box().Right)
	}
	flush()
}

// HOCRPage writes the current state of the region page back as an hOCR page.
// Each block carries the paragraphs found by the analysis with their layout
// properties. Lines merged by the analysis are emitted as one line; words
// that ended up outside every line are kept directly under their area.
// Tables are copied from the source unchanged.
func (c *Conversion) HOCRPage() Page {
	out := c.source
	out.Areas, out.Paragraphs, out.Lines = nil, nil, nil
	if out.ScanRes == 0 {
		out.ScanRes = c.DPI
	}

	w := &pageWriter{
		Conversion: c,
		tag:        pageTag(c.source),
		usedPars:   make(map[*region.Region]bool),
		usedLines:  make(map[*region.Region]bool),
		usedWords:  make(map[*region.Region]bool),
	}
	for _, b := range c.blocks {
		if b.region.Type() == region.TypeTable {
			out.Areas = append(out.Areas, b.area)
			continue
		}
		out.Areas = append(out.Areas, w.area(b))
	}
	return out
}

type pageWriter struct {
	*Conversion
	tag       string
	pars      int
	areas     int
	merged    int
	usedPars  map[*region.Region]bool
	usedLines map[*region.Region]bool
	usedWords map[*region.Region]bool
}

func (w *pageWriter) area(b sourceBlock) Area {
	w.areas++
	block := b.region
	area := Area{
		ID:       b.area.ID,
		Lang:     b.area.Lang,
		BBox:     fromRegionBox(block.Box()),
		Metadata: maps.Clone(b.area.Metadata),
	}
	if area.ID == "" {
		area.ID = fmt.Sprintf("block_%s_%d", w.tag, w.areas)
	}
	if area.Metadata == nil {
		area.Metadata = make(map[string]string)
	}
	setProp(area.Metadata, PropIndentation, block.Attr(region.KeyIndentation))

	lang := b.area.Lang
	if lang == "" && len(b.area.Paragraphs) > 0 {
		lang = b.area.Paragraphs[0].Lang
	}

	page := w.Page
	for _, par := range page.Within(region.TypeParagraph, block.Box()) {
		if w.usedPars[par] {
			continue
		}
		w.usedPars[par] = true
		w.pars++
		p := Paragraph{
			ID:       fmt.Sprintf("par_%s_%d", w.tag, w.pars),
			Lang:     lang,
			BBox:     fromRegionBox(par.Box()),
			Metadata: paragraphProps(par),
		}
		for _, l := range page.Within(region.TypeLine, par.Box()) {
			if !w.usedLines[l] {
				p.Lines = append(p.Lines, w.line(l))
			}
		}
		area.Paragraphs = append(area.Paragraphs, p)
	}
	for _, l := range page.Within(region.TypeLine, block.Box()) {
		if !w.usedLines[l] {
			area.Lines = append(area.Lines, w.line(l))
		}
	}
	for _, r := range page.Words(block.Box()) {
		if !w.usedWords[r] {
			w.usedWords[r] = true
			area.Words = append(area.Words, w.words[r])
		}
	}
	return area
}

// line renders a line region, reusing the source line when it survived the
// analysis.
func (w *pageWriter) line(r *region.Region) Line {
	w.usedLines[r] = true
	if src, ok := w.lines[r]; ok {
		out := src
		out.Metadata = maps.Clone(src.Metadata)
		if out.Metadata == nil {
			out.Metadata = make(map[string]string)
		}
		if _, ok := out.Metadata[PropFontSize]; !ok {
			setProp(out.Metadata, PropFontSize, r.Attr(region.KeyFontSize))
		}
		out.Words = nil
		for _, wr := range w.lineWords[r] {
			w.usedWords[wr] = true
			out.Words = append(out.Words, w.words[wr])
		}
		return out
	}

	out := Line{
		BBox:     fromRegionBox(r.Box()),
		Metadata: make(map[string]string),
	}
	if y, ok := r.Baseline(); ok {
		out.Baseline = "0 " + strconv.Itoa(y-r.Box().Bottom)
	}
	setProp(out.Metadata, PropFontSize, r.Attr(region.KeyFontSize))

	var words []*region.Region
	for _, wr := range w.Page.Words(r.Box()) {
		if !w.usedWords[wr] {
			words = append(words, wr)
		}
	}
	slices.SortStableFunc(words, func(a, b *region.Region) int {
		return cmp.Compare(a.Box().Left, b.Box().Left)
	})
	for _, wr := range words {
		w.usedWords[wr] = true
		out.Words = append(out.Words, w.words[wr])
		if out.ID == "" {
			out.ID = w.wordLine[wr]
		}
	}
	if out.ID == "" {
		w.merged++
		out.ID = fmt.Sprintf("line_%s_m%d", w.tag, w.merged)
	}
	return out
}

// paragraphProps converts the layout attributes of a paragraph to title
// properties.
func paragraphProps(par *region.Region) map[string]string {
	m := make(map[string]string)
	setProp(m, PropIndentation, par.Attr(region.KeyIndentation))
	setProp(m, PropTextOrientation, par.Attr(region.KeyTextOrientation))
	setProp(m, PropFontSize, par.Attr(region.KeyFontSize))
	setProp(m, PropLineHeight, par.Attr(region.KeyLineHeight))
	if par.LayoutExtrapolated() {
		m[PropLayoutExtrapolated] = "1"
	}
	return m
}

// setProp stores v under key, or deletes key when v is empty.
func setProp(m map[string]string, key, v string) {
	if v == "" {
		delete(m, key)
		return
	}
	m[key] = v
}

// pageTag returns the page part of generated element ids.
func pageTag(p Page) string {
	if id := strings.TrimPrefix(p.ID, "page_"); id != "" && id != p.ID {
		return id
	}
	if p.PageNumber > 0 {
		return strconv.Itoa(p.PageNumber)
	}
	return "1"
}

// baselineY returns the pixel row of the baseline at the middle of the line.
// hOCR gives the baseline as slope and offset from the bottom-left corner.
func baselineY(l Line) (int, bool) {
	f := strings.Fields(l.Baseline)
	if len(f) < 2 {
		return 0, false
	}
	slope, err1 := strconv.ParseFloat(f[0], 64)
	offset, err2 := strconv.ParseFloat(f[1], 64)
	if err1 != nil || err2 != nil {
		return 0, false
	}
	y := l.BBox.Y2 + offset + slope*l.BBox.Width()/2
	if y <= 0 {
		return 0, false
	}
	return int(math.Round(y)), true
}

// lineFontSize returns the font size of a line in points: x_fsize of the
// line, else the mean x_fsize of its words, else x_size converted from pixels.
func lineFontSize(l Line, dpi int) (int, bool) {
	if fs, ok := parsePositive(l.Metadata[PropFontSize]); ok {
		return int(math.Round(fs)), true
	}
	sum, n := 0.0, 0
	for _, w := range l.Words {
		if fs, ok := parsePositive(w.Metadata[PropFontSize]); ok {
			sum += fs
			n++
		}
	}
	if n > 0 {
		return int(math.Round(sum / float64(n))), true
	}
	if px, ok := parsePositive(l.Metadata["x_size"]); ok && dpi > 0 {
		return int(math.Round(px * 72 / float64(dpi))), true
	}
	return 0, false
}

func parsePositive(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func toRegionBox(b BoundingBox) region.BoundingBox {
	return region.NewBoundingBox(
		int(math.Round(b.X1)), int(math.Round(b.Y1)),
		int(math.Round(b.X2)), int(math.Round(b.Y2)),
	)
}

func fromRegionBox(b region.BoundingBox) BoundingBox {
	return NewBoundingBox(float64(b.Left), float64(b.Top), float64(b.Right), float64(b.Bottom))
}
