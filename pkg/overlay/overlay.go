// Package overlay renders the block geometry of a trp.Document as a PDF for visual
// inspection of OCR results.
//
// Each page of the document becomes a PDF page carrying two optional content
// layers that can be toggled in compatible PDF readers:
//
// - a block layer outlining the polygons of the configured block types, one
// colour per type
// - a text layer placing the text of WORD blocks over their bounding boxes,
// invisible unless Debug is set, which keeps the result searchable
//
// Pages can be drawn over the page images the OCR ran on, or over the pages of
// an existing PDF.
//
// Main Functions:
//
// - Render: Draws the overlay for every page of a document
// - Layers: Lists the optional content layers of a PDF
// - HasOverlay: Reports whether a PDF already carries an overlay layer
package overlay
