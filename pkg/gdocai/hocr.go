package gdocai

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/gardar/hocrlayout/pkg/hocr"
	"github.com/pkg/errors"
)

// CreateHOCRStruct converts a Document AI proto directly to the HOCR struct
func CreateHOCRStruct(docProto *documentaipb.Document) (*hocr.HOCR, error) {
	if docProto == nil {
		return nil, errors.New("no Document AI document provided")
	}
	var hocrPages []hocr.Page
	for i, page := range docProto.Pages {
		pageNumber := int(page.PageNumber)
		if pageNumber == 0 {
			pageNumber = i + 1
		}
		ocrPage, err := CreateHOCRPage(page, docProto.Text, pageNumber)
		if err != nil {
			return nil, errors.Wrapf(err, "page %d", pageNumber)
		}
		hocrPages = append(hocrPages, ocrPage)
	}
	return CreateHOCRDocument(docProto, hocrPages...), nil
}

// CreateHOCRDocument creates an HOCR document structure, optionally with pages
// If docProto is nil, default values will be used for document properties
func CreateHOCRDocument(docProto *documentaipb.Document, pages ...hocr.Page) *hocr.HOCR {
	docLang := "unknown"
	pageCount := len(pages)
	if docProto != nil {
		if lang := getDocumentLanguage(docProto); lang != "" {
			docLang = lang
		}
		if pageCount == 0 {
			pageCount = len(docProto.Pages)
		}
	}

	result := &hocr.HOCR{
		Title:    "Document OCR",
		Language: docLang,
		Metadata: map[string]string{
			"ocr-system":          "Document AI OCR",
			"ocr-number-of-pages": strconv.Itoa(pageCount),
			"ocr-capabilities":    "ocrp_lang ocr_page ocr_carea ocr_table ocr_par ocr_line ocrx_word",
			"ocr-langs":           docLang,
		},
		Pages: pages,
	}
	if langs := documentLanguages(result); len(langs) > 0 {
		result.Metadata["ocr-langs"] = strings.Join(langs, ", ")
	}
	return result
}

// pageBuilder converts the elements of one Document AI page, keeping track of
// the lines already placed.
type pageBuilder struct {
	page     *documentaipb.Document_Page
	text     string
	number   int
	assigned map[string]bool
}

// CreateHOCRPage converts a single Document AI page to an HOCR page.
// Blocks become content areas and tables become 'ocr_table' areas; lines
// that belong to neither stay directly on the page.
func CreateHOCRPage(page *documentaipb.Document_Page, fullText string, pageNumber int) (hocr.Page, error) {
	if page == nil {
		return hocr.Page{}, errors.New("nil page")
	}
	if page.Dimension == nil || page.Dimension.Width <= 0 || page.Dimension.Height <= 0 {
		return hocr.Page{}, errors.New("page has no dimension")
	}

	b := &pageBuilder{page: page, text: fullText, number: pageNumber, assigned: make(map[string]bool)}
	ocrPage := hocr.Page{
		ID:         fmt.Sprintf("page_%d", pageNumber),
		PageNumber: pageNumber,
		BBox:       hocr.NewBoundingBox(0, 0, float64(page.Dimension.Width), float64(page.Dimension.Height)),
		Metadata:   make(map[string]string),
	}
	if len(page.DetectedLanguages) > 0 {
		ocrPage.Lang = page.DetectedLanguages[0].LanguageCode
	}

	// Tables first so their lines are not claimed by an overlapping block.
	for tidx, table := range page.Tables {
		area := hocr.Area{
			ID:       fmt.Sprintf("table_%d_%d", pageNumber, tidx),
			Table:    true,
			Metadata: make(map[string]string),
		}
		area.BBox, _ = b.bbox(table.Layout)
		area.Lines = b.lines(table.Layout, fmt.Sprintf("%d_t%d", pageNumber, tidx))
		ocrPage.Areas = append(ocrPage.Areas, area)
	}

	for aidx, block := range page.Blocks {
		area := hocr.Area{
			ID:       fmt.Sprintf("carea_%d_%d", pageNumber, aidx),
			Metadata: make(map[string]string),
		}
		area.BBox, _ = b.bbox(block.Layout)
		for pidx, para := range page.Paragraphs {
			if !isElementInParent(para.Layout, block.Layout) {
				continue
			}
			if p, ok := b.paragraph(para, fmt.Sprintf("%d_%d_%d", pageNumber, aidx, pidx)); ok {
				area.Paragraphs = append(area.Paragraphs, p)
			}
		}
		area.Lines = b.lines(block.Layout, fmt.Sprintf("%d_%d", pageNumber, aidx))
		if len(area.Paragraphs) > 0 || len(area.Lines) > 0 {
			ocrPage.Areas = append(ocrPage.Areas, area)
		}
	}

	for pidx, para := range page.Paragraphs {
		if p, ok := b.paragraph(para, fmt.Sprintf("%d_direct_%d", pageNumber, pidx)); ok {
			ocrPage.Paragraphs = append(ocrPage.Paragraphs, p)
		}
	}
	ocrPage.Lines = b.lines(nil, fmt.Sprintf("%d_loose", pageNumber))

	return ocrPage, nil
}

// paragraph converts a paragraph with its unassigned lines. It reports false
// when all its lines were already placed elsewhere.
func (b *pageBuilder) paragraph(para *documentaipb.Document_Page_Paragraph, tag string) (hocr.Paragraph, bool) {
	lines := b.lines(para.Layout, tag)
	if len(lines) == 0 {
		return hocr.Paragraph{}, false
	}
	p := hocr.Paragraph{
		ID:       "par_" + tag,
		Lines:    lines,
		Metadata: make(map[string]string),
	}
	p.BBox, _ = b.bbox(para.Layout)
	if len(para.DetectedLanguages) > 0 {
		p.Lang = para.DetectedLanguages[0].LanguageCode
	}
	return p, true
}

// lines converts the unassigned lines inside parent, or all remaining lines
// when parent is nil, and marks them assigned.
func (b *pageBuilder) lines(parent *documentaipb.Document_Page_Layout, tag string) []hocr.Line {
	var out []hocr.Line
	for lidx, line := range b.page.Lines {
		key := getLayoutKey(line.Layout)
		if b.assigned[key] {
			continue
		}
		if parent != nil && !isElementInParent(line.Layout, parent) {
			continue
		}
		b.assigned[key] = true
		out = append(out, b.line(line, fmt.Sprintf("%s_%d", tag, lidx)))
	}
	return out
}

// line converts a proto line and the tokens anchored inside it.
func (b *pageBuilder) line(line *documentaipb.Document_Page_Line, tag string) hocr.Line {
	ocrLine := hocr.Line{
		ID:       "line_" + tag,
		Metadata: make(map[string]string),
	}
	ocrLine.BBox, _ = b.bbox(line.Layout)
	if len(line.DetectedLanguages) > 0 {
		ocrLine.Lang = line.DetectedLanguages[0].LanguageCode
	}

	for tidx, token := range b.page.Tokens {
		if !isElementInParent(token.Layout, line.Layout) {
			continue
		}
		text := tokenText(token, b.text)
		if text == "" {
			continue
		}
		word := hocr.Word{
			ID:       fmt.Sprintf("word_%s_%d", tag, tidx),
			Text:     text,
			Metadata: make(map[string]string),
		}
		word.BBox, _ = b.bbox(token.Layout)
		if token.Layout != nil {
			word.Confidence = float64(token.Layout.Confidence * 100)
		}
		if len(token.DetectedLanguages) > 0 {
			word.Lang = token.DetectedLanguages[0].LanguageCode
		}
		if fs := token.GetStyleInfo().GetFontSize(); fs > 0 {
			word.Metadata[hocr.PropFontSize] = strconv.Itoa(int(fs))
		}
		ocrLine.Words = append(ocrLine.Words, word)
	}
	return ocrLine
}

// bbox converts the normalized bounding polygon of a layout to pixel
// coordinates of the page. Pixel vertices are used when no normalized ones
// are present.
func (b *pageBuilder) bbox(layout *documentaipb.Document_Page_Layout) (hocr.BoundingBox, bool) {
	poly := layout.GetBoundingPoly()
	w, h := float64(b.page.Dimension.Width), float64(b.page.Dimension.Height)

	var xs, ys []float64
	if nv := poly.GetNormalizedVertices(); len(nv) > 0 {
		for _, v := range nv {
			xs = append(xs, float64(v.X)*w)
			ys = append(ys, float64(v.Y)*h)
		}
	} else {
		for _, v := range poly.GetVertices() {
			xs = append(xs, float64(v.X))
			ys = append(ys, float64(v.Y))
		}
	}
	if len(xs) == 0 {
		return hocr.BoundingBox{}, false
	}
	round := func(f float64) float64 { return float64(int(f + 0.5)) }
	return hocr.NewBoundingBox(round(slices.Min(xs)), round(slices.Min(ys)),
		round(slices.Max(xs)), round(slices.Max(ys))), true
}

// documentLanguages returns the sorted languages used anywhere in the document.
func documentLanguages(result *hocr.HOCR) []string {
	seen := make(map[string]bool)
	add := func(lang string) {
		if lang != "" && lang != "unknown" {
			seen[lang] = true
		}
	}
	addLines := func(lines []hocr.Line) {
		for _, line := range lines {
			add(line.Lang)
			for _, w := range line.Words {
				add(w.Lang)
			}
		}
	}
	addParagraphs := func(paras []hocr.Paragraph) {
		for _, p := range paras {
			add(p.Lang)
			addLines(p.Lines)
		}
	}

	add(result.Language)
	for _, page := range result.Pages {
		add(page.Lang)
		for _, area := range page.Areas {
			add(area.Lang)
			addParagraphs(area.Paragraphs)
			addLines(area.Lines)
		}
		addParagraphs(page.Paragraphs)
		addLines(page.Lines)
	}

	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// getDocumentLanguage finds the most common language in the document
// by counting language occurrences across pages and tokens
func getDocumentLanguage(doc *documentaipb.Document) string {
	langCount := make(map[string]int)
	for _, page := range doc.Pages {
		for _, lang := range page.DetectedLanguages {
			langCount[lang.LanguageCode]++
		}
		for _, token := range page.Tokens {
			for _, lang := range token.DetectedLanguages {
				langCount[lang.LanguageCode]++
			}
		}
	}

	var mostCommonLang string
	var highestCount int
	for lang, count := range langCount {
		if count > highestCount || (count == highestCount && lang < mostCommonLang) {
			highestCount = count
			mostCommonLang = lang
		}
	}
	return mostCommonLang
}

// isElementInParent reports whether the first text segment of an element lies
// within the first text segment of its parent.
func isElementInParent(elementLayout, parentLayout *documentaipb.Document_Page_Layout) bool {
	elem := elementLayout.GetTextAnchor().GetTextSegments()
	parent := parentLayout.GetTextAnchor().GetTextSegments()
	if len(elem) == 0 || len(parent) == 0 {
		return false
	}
	return elem[0].StartIndex >= parent[0].StartIndex && elem[0].EndIndex <= parent[0].EndIndex
}

// getLayoutKey generates a unique key for a layout from its text anchor.
func getLayoutKey(layout *documentaipb.Document_Page_Layout) string {
	segs := layout.GetTextAnchor().GetTextSegments()
	if len(segs) == 0 {
		return fmt.Sprintf("%p", layout)
	}
	return fmt.Sprintf("%d-%d", segs[0].StartIndex, segs[0].EndIndex)
}
