// Package hocr implements parsing and generation of hOCR data, the HTML-based
// format for OCR results, and its conversion to and from the region tree the
// layout analysis works on.
//
// The package implements the hierarchical structure defined in the hOCR format:
// Document → Pages → Areas → Paragraphs → Lines → Words, with metadata at each level.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Area: A content area ('ocr_carea') or table ('ocr_table')
// - Paragraph: Represents a paragraph with class 'ocr_par'
// - Line: A line of text ('ocr_line', 'ocr_header', 'ocr_caption', 'ocr_textfloat')
// - Word: Represents a single word with class 'ocrx_word'
// - Conversion: A region.Page built from a Page, convertible back to hOCR
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - GenerateHOCRDocument: Generates hOCR HTML from the object model
// - ExtractHOCRText: Plain text with one blank line between paragraphs
// - ToRegionPage: Builds the region tree of one page
package hocr
