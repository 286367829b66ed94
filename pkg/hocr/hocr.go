// Package hocr implements parsing and generation of hOCR, the HTML-based format for
// OCR results, and converts between hOCR and the trp block graph.
//
// The object model follows the hOCR hierarchy:
// Document → Pages → Areas → Paragraphs → Lines → Words.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: A page with class 'ocr_page'
// - Area: A content area with class 'ocr_carea'
// - Paragraph: A paragraph with class 'ocr_par'
// - Line: A line of text with class 'ocr_line'
// - Word: A single word with class 'ocrx_word'
// - BoundingBox: A rectangle in page pixels
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR HTML into the object model
// - GenerateHOCRDocument: Renders the object model as hOCR HTML
// - FromDocument: Builds hOCR pages from the LINE and WORD blocks of a trp.Document
// - ToResponse: Builds PAGE, LINE and WORD blocks from parsed hOCR
package hocr
