package layoutpdf

import (
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/hocrlayout/pkg/hocr"
)

type rgb struct{ r, g, b int }

var (
	blockColor     = rgb{0, 90, 200}
	tableColor     = rgb{230, 120, 0}
	paragraphColor = rgb{0, 150, 60}
	extrapColor    = rgb{200, 0, 160}
	lineColor      = rgb{150, 150, 150}
	textColor      = rgb{220, 0, 0}
)

// pageRenderer draws the overlay of one hOCR page. scale converts hOCR
// pixels to PDF points.
type pageRenderer struct {
	pdf    *fpdf.Fpdf
	cfg    Config
	page   hocr.Page
	num    int
	scale  float64
	encErr int
	words  int
}

// draw adds one layer per element kind so each can be toggled in a viewer.
func (r *pageRenderer) draw() {
	r.pdf.SetLineWidth(r.cfg.LineWidth)

	r.layer("Blocks", func() {
		for _, area := range r.page.Areas {
			c := blockColor
			if area.Table {
				c = tableColor
			}
			r.rect(area.BBox, c)
			if r.cfg.Labels {
				r.label(area.BBox, c, blockLabel(area))
			}
		}
	})

	r.layer("Paragraphs", func() {
		for _, para := range r.paragraphs() {
			c := paragraphColor
			if para.Metadata[hocr.PropLayoutExtrapolated] == "1" {
				c = extrapColor
			}
			r.rect(para.BBox, c)
			if r.cfg.Labels {
				r.label(para.BBox, c, paragraphLabel(para))
			}
		}
	})

	r.layer("Lines", func() {
		r.eachLine(func(l hocr.Line) {
			r.rect(l.BBox, lineColor)
			r.baseline(l)
		})
	})

	if r.cfg.Text {
		r.layer("Text", func() {
			r.pdf.SetTextColor(textColor.r, textColor.g, textColor.b)
			r.eachLine(func(l hocr.Line) {
				for _, w := range l.Words {
					r.word(w)
				}
			})
			for _, area := range r.page.Areas {
				for _, w := range area.Words {
					r.word(w)
				}
			}
			r.pdf.SetTextColor(0, 0, 0)
		})
	}
}

func (r *pageRenderer) layer(name string, fn func()) {
	id := r.pdf.AddLayer(name+" (Page "+strconv.Itoa(r.num)+")", true)
	r.pdf.BeginLayer(id)
	fn()
	r.pdf.EndLayer()
}

// paragraphs returns every paragraph of the page, nested or not.
func (r *pageRenderer) paragraphs() []hocr.Paragraph {
	var out []hocr.Paragraph
	for _, area := range r.page.Areas {
		out = append(out, area.Paragraphs...)
	}
	return append(out, r.page.Paragraphs...)
}

func (r *pageRenderer) eachLine(fn func(hocr.Line)) {
	for _, area := range r.page.Areas {
		for _, para := range area.Paragraphs {
			for _, l := range para.Lines {
				fn(l)
			}
		}
		for _, l := range area.Lines {
			fn(l)
		}
	}
	for _, para := range r.page.Paragraphs {
		for _, l := range para.Lines {
			fn(l)
		}
	}
	for _, l := range r.page.Lines {
		fn(l)
	}
}

func (r *pageRenderer) rect(b hocr.BoundingBox, c rgb) {
	if b.Width() <= 0 || b.Height() <= 0 {
		return
	}
	r.pdf.SetDrawColor(c.r, c.g, c.b)
	r.pdf.Rect(b.X1*r.scale, b.Y1*r.scale, b.Width()*r.scale, b.Height()*r.scale, "D")
}

// baseline draws the hOCR baseline of a line: slope and offset relative to
// the bottom-left corner of its box.
func (r *pageRenderer) baseline(l hocr.Line) {
	f := strings.Fields(l.Baseline)
	if len(f) < 2 {
		return
	}
	slope, err1 := strconv.ParseFloat(f[0], 64)
	offset, err2 := strconv.ParseFloat(f[1], 64)
	if err1 != nil || err2 != nil {
		return
	}
	y1 := l.BBox.Y2 + offset
	y2 := y1 + slope*l.BBox.Width()
	r.pdf.SetDrawColor(lineColor.r, lineColor.g, lineColor.b)
	r.pdf.SetDashPattern([]float64{2, 2}, 0)
	r.pdf.Line(l.BBox.X1*r.scale, y1*r.scale, l.BBox.X2*r.scale, y2*r.scale)
	r.pdf.SetDashPattern([]float64{}, 0)
}

// label prints text just above the top-left corner of a box.
func (r *pageRenderer) label(b hocr.BoundingBox, c rgb, text string) {
	if text == "" {
		return
	}
	font := r.cfg.Font
	r.pdf.SetFont(font.Name, font.Style, font.LabelSize)
	r.pdf.SetTextColor(c.r, c.g, c.b)
	r.pdf.Text(b.X1*r.scale, b.Y1*r.scale-1, r.latin1(text))
	r.pdf.SetTextColor(0, 0, 0)
}

// word renders a word stretched to the width of its box.
func (r *pageRenderer) word(w hocr.Word) {
	if w.Text == "" || w.BBox.Width() <= 0 {
		return
	}
	r.words++
	font := r.cfg.Font
	r.pdf.SetFont(font.Name, font.Style, font.Size)

	text := r.latin1(w.Text)
	width := w.BBox.Width() * r.scale
	if strWidth := r.pdf.GetStringWidth(text); strWidth > 0 {
		r.pdf.SetFontSize(font.Size * width / strWidth)
	}
	fontSize, _ := r.pdf.GetFontSize()
	r.pdf.Text(w.BBox.X1*r.scale, w.BBox.Y1*r.scale+fontSize*font.AscentRatio, text)
	r.pdf.SetFontSize(font.Size)
}

// latin1 converts text to ISO-8859-1 for the core fonts, replacing what it
// cannot represent.
func (r *pageRenderer) latin1(s string) string {
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err == nil {
		return out
	}
	r.encErr++
	out, err = encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(s)
	if err != nil {
		return ""
	}
	return out
}

func blockLabel(area hocr.Area) string {
	if area.Table {
		return "table"
	}
	if ind := area.Metadata[hocr.PropIndentation]; ind != "" {
		return "block " + ind
	}
	return ""
}

// paragraphLabel summarizes the layout properties of a paragraph, e.g.
// "indent justified 10pt". Extrapolated layouts are marked with a star.
func paragraphLabel(para hocr.Paragraph) string {
	var parts []string
	for _, key := range []string{hocr.PropIndentation, hocr.PropTextOrientation} {
		if v := para.Metadata[key]; v != "" {
			parts = append(parts, v)
		}
	}
	if fs := para.Metadata[hocr.PropFontSize]; fs != "" {
		parts = append(parts, fs+"pt")
	}
	label := strings.Join(parts, " ")
	if para.Metadata[hocr.PropLayoutExtrapolated] == "1" {
		label += "*"
	}
	return label
}
