package hocr

import (
	"strings"
)

// ExtractHOCRText extracts all text from an HOCR document.
// Lines of a paragraph are separated by newlines, paragraphs by a blank line
// and pages by a form feed. Lines and words outside any paragraph form one
// paragraph per area.
func ExtractHOCRText(hocrDoc *HOCR) string {
	pages := make([]string, 0, len(hocrDoc.Pages))
	for _, page := range hocrDoc.Pages {
		pages = append(pages, strings.Join(pageParagraphs(page), "\n\n"))
	}
	text := strings.Join(pages, "\n\f\n")
	if text == "" {
		return ""
	}
	return text + "\n"
}

// ParagraphText returns the text of a paragraph, one line per text line.
func ParagraphText(para Paragraph) string {
	return linesText(para.Lines, para.Words)
}

// pageParagraphs returns the non-empty paragraph texts of a page in document
// order.
func pageParagraphs(page Page) []string {
	var out []string
	add := func(s string) {
		if s != "" {
			out = append(out, s)
		}
	}
	for _, area := range page.Areas {
		for _, para := range area.Paragraphs {
			add(ParagraphText(para))
		}
		add(linesText(area.Lines, area.Words))
	}
	for _, para := range page.Paragraphs {
		add(ParagraphText(para))
	}
	add(linesText(page.Lines, nil))
	return out
}

// linesText renders lines followed by a final line of loose words.
func linesText(lines []Line, loose []Word) string {
	rows := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		if s := wordsText(line.Words); s != "" {
			rows = append(rows, s)
		}
	}
	if s := wordsText(loose); s != "" {
		rows = append(rows, s)
	}
	return strings.Join(rows, "\n")
}

func wordsText(words []Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if w.Text != "" {
			parts = append(parts, w.Text)
		}
	}
	return strings.Join(parts, " ")
}
