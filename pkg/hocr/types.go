package hocr

import "strconv"

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title       string            // Document title
	Description string            // Document description
	Language    string            // Document language
	Metadata    map[string]string // ocr-system, ocr-capabilities and similar meta tags
	Pages       []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string            // Unique identifier
	Title      string            // Original title attribute
	PageNumber int               // Page number in document
	ImageName  string            // Source image filename
	Lang       string            // Language code for this page
	BBox       BoundingBox       // Page coordinates
	ScanRes    int               // Scan resolution in DPI, 0 when unknown
	Areas      []Area            // Content areas and tables
	Paragraphs []Paragraph       // Paragraphs directly under page
	Lines      []Line            // Lines directly under page (no parent)
	Metadata   map[string]string // Other page properties
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Area represents a content area, or a table when Table is set.
// Corresponds to hOCR elements with class 'ocr_carea' or 'ocr_table'
type Area struct {
	ID         string            // Unique identifier
	Lang       string            // Language code
	BBox       BoundingBox       // Area coordinates
	Table      bool              // ocr_table instead of ocr_carea
	Paragraphs []Paragraph       // Paragraphs in this area
	Lines      []Line            // Text lines directly under area
	Words      []Word            // Words directly under area (no line parent)
	Metadata   map[string]string // Other area properties
}

// Class returns 'ocr_table' for tables and 'ocr_carea' otherwise.
func (a Area) Class() string {
	if a.Table {
		return "ocr_table"
	}
	return "ocr_carea"
}

// Paragraph represents a paragraph within an area.
// Layout attributes computed by the analyzer are kept in Metadata under the
// Prop* keys.
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID       string            // Unique identifier
	Lang     string            // Language code
	BBox     BoundingBox       // Paragraph coordinates
	Lines    []Line            // Text lines in this paragraph
	Words    []Word            // Words directly under paragraph (no line parent)
	Metadata map[string]string // Other paragraph properties
}

// Class assign 'ocr_par' to 'Paragraph' struct
func (Paragraph) Class() string { return "ocr_par" }

// Line represents a line of text
// Corresponds to hOCR element with class 'ocr_line' or one of the line-like
// classes 'ocr_header', 'ocr_caption' and 'ocr_textfloat'
type Line struct {
	ID       string            // Unique identifier
	Kind     string            // hOCR class, empty means 'ocr_line'
	Lang     string            // Language code
	BBox     BoundingBox       // Line coordinates
	Baseline string            // Baseline information: "slope offset"
	Words    []Word            // Words in this line
	Metadata map[string]string // Other line properties
}

// Class returns the hOCR class of the line.
func (l Line) Class() string {
	if l.Kind != "" {
		return l.Kind
	}
	return "ocr_line"
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string            // Unique identifier
	Text       string            // The actual text content
	BBox       BoundingBox       // Word coordinates
	Confidence float64           // Recognition confidence (0-100)
	Lang       string            // Language code
	Metadata   map[string]string // Other word properties
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// Title properties written by the layout analysis.
const (
	PropIndentation        = "x_indentation"
	PropTextOrientation    = "x_textorientation"
	PropFontSize           = "x_fsize"
	PropLineHeight         = "x_lineheight"
	PropLayoutExtrapolated = "x_layout_extrapolated"
)

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 values of an
// hOCR 'bbox' property (top-left and bottom-right corners).
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// String formats the box as an hOCR 'bbox' property.
func (b BoundingBox) String() string {
	return "bbox " + formatNumber(b.X1) + " " + formatNumber(b.Y1) + " " +
		formatNumber(b.X2) + " " + formatNumber(b.Y2)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
