// Package trp implements an in-memory document object model over a Textract-style
// document analysis response.
//
// A response is a flat list of typed blocks (pages, lines, words, tables, cells,
// key-value sets, queries) that reference each other by id. This package keeps that
// flat shape: a Document owns the block slice, indexes it by id and by block type,
// and resolves relationships through the index instead of embedding pointers, so the
// collection can always be encoded back to the wire format unchanged.
//
// Key Types:
//
// - Document: owns the blocks, the id index and the relationship traversal cache
// - Block: a single node of the graph with geometry, text and typed relationships
// - Geometry, BoundingBox, Point: normalized coordinates with scale, ratio, rotate and union
// - Table, Row, Cell: a row/column view over a TABLE block
//
// Main Functions:
//
// - New / Decode: build a Document from a decoded response or from JSON
// - Document.RelationshipsRecursive: memoized transitive closure of a block
// - Document.Tables, Lines, Forms, Keys, Queries: typed accessors, optionally page scoped
// - Document.AddBlock, DeleteBlocks, MergeTables, LinkTables, AddKeyValues, Rotate: mutations
//
// A Document is not safe for concurrent use. Every mutator clears the traversal
// cache before returning, so reads after a mutation always see the new graph.
package trp
