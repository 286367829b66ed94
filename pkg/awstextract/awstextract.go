// Package awstextract converts between the Amazon Textract output types of the AWS
// SDK for Go and the trp block graph.
//
// Responses fetched with the SDK, or saved from it, can be turned into a
// trp.Document, processed and converted back. Paginated asynchronous results are
// joined into one Document.
//
// Main Functions:
//
// - FromAnalyzeDocumentOutput: Document from a synchronous AnalyzeDocument call
// - FromGetDocumentAnalysisOutput: Document from the pages of an asynchronous analysis
// - FromDetectDocumentTextOutput: Document from a text detection call
// - ToAnalyzeDocumentOutput: SDK output from a Document
// - FromBlocks / ToBlocks: block level conversion
package awstextract
