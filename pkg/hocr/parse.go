package hocr

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
)

// Classes treated as text lines.
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

var (
	pageChildren      = append([]string{"ocr_carea", "ocr_table", "ocr_par"}, lineClasses...)
	areaChildren      = append([]string{"ocr_par", "ocrx_word"}, lineClasses...)
	paragraphChildren = append([]string{"ocrx_word"}, lineClasses...)
)

// ParseHOCR converts raw hOCR data into a structured HOCR object.
func ParseHOCR(data []byte) (HOCR, error) {
	var result HOCR
	result.Metadata = make(map[string]string)

	decoded, err := decodeCharset(data)
	if err != nil {
		return result, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	// Extract document metadata from the head section
	extractDocumentMeta(&result, doc)

	for _, n := range collect(doc, "ocr_page") {
		result.Pages = append(result.Pages, processPage(n))
	}

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in HOCR data")
	}
	return result, nil
}

// decodeCharset converts data to UTF-8 according to the charset declared in
// its meta tags. Undeclared input is assumed to be UTF-8 already.
func decodeCharset(data []byte) ([]byte, error) {
	name := declaredCharset(data)
	if name == "" {
		return data, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return data, nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return decoded, nil
}

// declaredCharset returns the first charset= value found in data.
func declaredCharset(data []byte) string {
	const marker = "charset="
	i := bytes.Index(bytes.ToLower(data), []byte(marker))
	if i < 0 {
		return ""
	}
	rest := data[i+len(marker):]
	end := bytes.IndexAny(rest, "\"';> \t\r\n/")
	if end < 0 {
		end = len(rest)
	}
	return strings.ToLower(string(rest[:end]))
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns a structured BoundingBox object or nil if extraction fails
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// extractDocumentMeta extracts document-level metadata from the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "html" {
			continue
		}
		if lang := getAttrVal(c, "lang"); lang != "" {
			result.Language = lang
		} else if lang := getAttrVal(c, "xml:lang"); lang != "" {
			result.Language = lang
		}
	}

	head := findElement(doc, "head")
	if head == nil {
		return
	}

	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			if c.FirstChild != nil {
				result.Title = c.FirstChild.Data
			}
		case "meta":
			name, content := getAttrVal(c, "name"), getAttrVal(c, "content")
			if name == "" || content == "" {
				continue
			}
			switch {
			case strings.HasPrefix(name, "ocr-"):
				result.Metadata[name] = content
			case name == "description":
				result.Description = content
			case name == "dc.language":
				result.Language = content
			}
		}
	}
}

// element holds the attributes every hOCR element shares.
type element struct {
	id    string
	lang  string
	title string
	bbox  BoundingBox
	props map[string][]string
}

func readElement(n *html.Node) element {
	e := element{
		id:    getAttrVal(n, "id"),
		lang:  getAttrVal(n, "lang"),
		title: getAttrVal(n, "title"),
	}
	e.props = ParseTitle(e.title)
	if bbox := ParseBoundingBoxFromTitle(e.title); bbox != nil {
		e.bbox = *bbox
	}
	return e
}

// metadata returns the title properties except the ones listed.
func (e element) metadata(except ...string) map[string]string {
	m := make(map[string]string)
	for k, v := range e.props {
		if k == "bbox" || slices.Contains(except, k) {
			continue
		}
		m[k] = strings.Join(v, " ")
	}
	return m
}

// first returns the first value of a title property.
func (e element) first(key string) string {
	if v := e.props[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// processPage extracts page information and its children (areas, lines, words)
func processPage(n *html.Node) Page {
	e := readElement(n)
	page := Page{
		ID:        e.id,
		Lang:      e.lang,
		Title:     e.title,
		BBox:      e.bbox,
		ImageName: strings.Trim(strings.Join(e.props["image"], " "), `"`),
		Metadata:  e.metadata("image", "ppageno", "scan_res"),
	}
	page.PageNumber, _ = strconv.Atoi(e.first("ppageno"))
	if res, err := strconv.ParseFloat(e.first("scan_res"), 64); err == nil {
		page.ScanRes = int(res + 0.5)
	}

	for _, c := range collect(n, pageChildren...) {
		switch class := hocrClass(c); class {
		case "ocr_carea", "ocr_table":
			page.Areas = append(page.Areas, processArea(c, class == "ocr_table"))
		case "ocr_par":
			page.Paragraphs = append(page.Paragraphs, processParagraph(c))
		default:
			page.Lines = append(page.Lines, processLine(c, class))
		}
	}
	return page
}

// processArea extracts area information and its children (paragraphs, lines, words)
func processArea(n *html.Node, table bool) Area {
	e := readElement(n)
	area := Area{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		Table:    table,
		Metadata: e.metadata(),
	}
	for _, c := range collect(n, areaChildren...) {
		switch class := hocrClass(c); class {
		case "ocr_par":
			area.Paragraphs = append(area.Paragraphs, processParagraph(c))
		case "ocrx_word":
			area.Words = append(area.Words, processWord(c))
		default:
			area.Lines = append(area.Lines, processLine(c, class))
		}
	}
	return area
}

// processParagraph extracts paragraph information and its children (lines, words)
func processParagraph(n *html.Node) Paragraph {
	e := readElement(n)
	paragraph := Paragraph{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		Metadata: e.metadata(),
	}
	for _, c := range collect(n, paragraphChildren...) {
		if class := hocrClass(c); class == "ocrx_word" {
			paragraph.Words = append(paragraph.Words, processWord(c))
		} else {
			paragraph.Lines = append(paragraph.Lines, processLine(c, class))
		}
	}
	return paragraph
}

// processLine extracts line information and its words
func processLine(n *html.Node, class string) Line {
	e := readElement(n)
	line := Line{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		Baseline: strings.Join(e.props["baseline"], " "),
		Metadata: e.metadata("baseline"),
	}
	if class != "ocr_line" {
		line.Kind = class
	}
	for _, c := range collect(n, "ocrx_word") {
		line.Words = append(line.Words, processWord(c))
	}
	return line
}

// Process a word element and extract its text and properties
func processWord(n *html.Node) Word {
	e := readElement(n)
	word := Word{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		Text:     extractTextContent(n),
		Metadata: e.metadata("x_wconf", "lang"),
	}
	word.Confidence, _ = strconv.ParseFloat(e.first("x_wconf"), 64)
	if lang := e.first("lang"); lang != "" {
		word.Lang = lang
	}
	return word
}

// collect returns the outermost descendants of n carrying one of the given
// hOCR classes, in document order. It does not descend into a match.
func collect(n *html.Node, classes ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && slices.Contains(classes, hocrClass(c)) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// hocrClass returns the first ocr_ or ocrx_ class of an element.
func hocrClass(n *html.Node) string {
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if strings.HasPrefix(c, "ocr_") || strings.HasPrefix(c, "ocrx_") {
			return c
		}
	}
	return ""
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractTextContent(c))
	}
	return strings.TrimSpace(text.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}
