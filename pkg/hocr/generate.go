package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/net/html"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"esc":       html.EscapeString,
	"title":     formatTitle,
	"pageTitle": pageTitle,
	"lineTitle": lineTitle,
	"wordTitle": wordTitle,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// GenerateHOCRDocument creates an hOCR HTML document from the HOCR struct
// Uses the embedded template to generate a complete HTML document
func GenerateHOCRDocument(doc *HOCR) (string, error) {
	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

// formatTitle builds a title attribute from a box and further properties.
// Properties are sorted by name so output is stable.
func formatTitle(bbox BoundingBox, props map[string]string, leading ...string) string {
	parts := []string{bbox.String()}
	parts = append(parts, leading...)
	for _, k := range slices.Sorted(maps.Keys(props)) {
		parts = append(parts, k+" "+props[k])
	}
	return html.EscapeString(strings.Join(parts, "; "))
}

func pageTitle(p Page) string {
	var leading []string
	if p.ImageName != "" {
		leading = append(leading, "image "+strconv.Quote(p.ImageName))
	}
	if p.PageNumber > 0 {
		leading = append(leading, "ppageno "+strconv.Itoa(p.PageNumber))
	}
	if p.ScanRes > 0 {
		res := strconv.Itoa(p.ScanRes)
		leading = append(leading, "scan_res "+res+" "+res)
	}
	return formatTitle(p.BBox, p.Metadata, leading...)
}

func lineTitle(l Line) string {
	var leading []string
	if l.Baseline != "" {
		leading = append(leading, "baseline "+l.Baseline)
	}
	return formatTitle(l.BBox, l.Metadata, leading...)
}

func wordTitle(w Word) string {
	var leading []string
	if w.Confidence > 0 {
		leading = append(leading, "x_wconf "+formatNumber(w.Confidence))
	}
	return formatTitle(w.BBox, w.Metadata, leading...)
}
