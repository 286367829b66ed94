package awstextract

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/textract"

	"github.com/gardar/ocrgraph/pkg/trp"
)

// FromBlocks converts SDK blocks to trp blocks. Nil blocks are dropped.
func FromBlocks(blocks []*textract.Block) []*trp.Block {
	out := make([]*trp.Block, 0, len(blocks))
	for _, b := range blocks {
		if b == nil {
			continue
		}
		out = append(out, fromBlock(b))
	}
	return out
}

func fromBlock(b *textract.Block) *trp.Block {
	block := &trp.Block{
		ID:              aws.StringValue(b.Id),
		BlockType:       trp.BlockType(aws.StringValue(b.BlockType)),
		Text:            aws.StringValue(b.Text),
		TextType:        aws.StringValue(b.TextType),
		Page:            int(aws.Int64Value(b.Page)),
		RowIndex:        int(aws.Int64Value(b.RowIndex)),
		ColumnIndex:     int(aws.Int64Value(b.ColumnIndex)),
		RowSpan:         int(aws.Int64Value(b.RowSpan)),
		ColumnSpan:      int(aws.Int64Value(b.ColumnSpan)),
		SelectionStatus: aws.StringValue(b.SelectionStatus),
	}
	if b.Confidence != nil {
		block.Confidence = trp.Float(*b.Confidence)
	}
	for _, et := range aws.StringValueSlice(b.EntityTypes) {
		block.EntityTypes = append(block.EntityTypes, trp.EntityType(et))
	}
	if b.Geometry != nil {
		block.Geometry = fromGeometry(b.Geometry)
	}
	for _, r := range b.Relationships {
		if r == nil {
			continue
		}
		block.Relationships = append(block.Relationships, trp.Relationship{
			Type: trp.RelationshipType(aws.StringValue(r.Type)),
			IDs:  aws.StringValueSlice(r.Ids),
		})
	}
	if b.Query != nil {
		block.Query = &trp.Query{
			Text:  aws.StringValue(b.Query.Text),
			Alias: aws.StringValue(b.Query.Alias),
			Pages: aws.StringValueSlice(b.Query.Pages),
		}
	}
	return block
}

func fromGeometry(g *textract.Geometry) *trp.Geometry {
	geo := &trp.Geometry{}
	if bb := g.BoundingBox; bb != nil {
		geo.BoundingBox = trp.BoundingBox{
			Width:  aws.Float64Value(bb.Width),
			Height: aws.Float64Value(bb.Height),
			Left:   aws.Float64Value(bb.Left),
			Top:    aws.Float64Value(bb.Top),
		}
	}
	for _, p := range g.Polygon {
		if p == nil {
			continue
		}
		geo.Polygon = append(geo.Polygon, trp.Point{X: aws.Float64Value(p.X), Y: aws.Float64Value(p.Y)})
	}
	return geo
}

// ToBlocks converts trp blocks to SDK blocks. Custom annotations have no place in
// the SDK types and are not carried over.
func ToBlocks(blocks []*trp.Block) []*textract.Block {
	out := make([]*textract.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toBlock(b))
	}
	return out
}

func toBlock(b *trp.Block) *textract.Block {
	block := &textract.Block{
		Id:              aws.String(b.ID),
		BlockType:       optString(string(b.BlockType)),
		Text:            optString(b.Text),
		TextType:        optString(b.TextType),
		Page:            optInt(b.Page),
		RowIndex:        optInt(b.RowIndex),
		ColumnIndex:     optInt(b.ColumnIndex),
		RowSpan:         optInt(b.RowSpan),
		ColumnSpan:      optInt(b.ColumnSpan),
		SelectionStatus: optString(b.SelectionStatus),
	}
	if b.Confidence != nil {
		block.Confidence = aws.Float64(*b.Confidence)
	}
	for _, et := range b.EntityTypes {
		block.EntityTypes = append(block.EntityTypes, aws.String(string(et)))
	}
	if b.Geometry != nil {
		block.Geometry = toGeometry(b.Geometry)
	}
	for _, r := range b.Relationships {
		block.Relationships = append(block.Relationships, &textract.Relationship{
			Type: aws.String(string(r.Type)),
			Ids:  aws.StringSlice(r.IDs),
		})
	}
	if b.Query != nil {
		block.Query = &textract.Query{
			Text:  aws.String(b.Query.Text),
			Alias: optString(b.Query.Alias),
		}
		if len(b.Query.Pages) > 0 {
			block.Query.Pages = aws.StringSlice(b.Query.Pages)
		}
	}
	return block
}

func toGeometry(g *trp.Geometry) *textract.Geometry {
	geo := &textract.Geometry{
		BoundingBox: &textract.BoundingBox{
			Width:  aws.Float64(g.BoundingBox.Width),
			Height: aws.Float64(g.BoundingBox.Height),
			Left:   aws.Float64(g.BoundingBox.Left),
			Top:    aws.Float64(g.BoundingBox.Top),
		},
	}
	for _, p := range g.Polygon {
		geo.Polygon = append(geo.Polygon, &textract.Point{X: aws.Float64(p.X), Y: aws.Float64(p.Y)})
	}
	return geo
}

// optString returns nil for the empty string so absent fields stay absent.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

func optInt(n int) *int64 {
	if n == 0 {
		return nil
	}
	return aws.Int64(int64(n))
}

func fromDocumentMetadata(m *textract.DocumentMetadata) *trp.DocumentMetadata {
	if m == nil {
		return nil
	}
	return &trp.DocumentMetadata{Pages: int(aws.Int64Value(m.Pages))}
}

func fromWarnings(warnings []*textract.Warning) []trp.Warning {
	var out []trp.Warning
	for _, w := range warnings {
		if w == nil {
			continue
		}
		tw := trp.Warning{ErrorCode: aws.StringValue(w.ErrorCode)}
		for _, p := range aws.Int64ValueSlice(w.Pages) {
			tw.Pages = append(tw.Pages, int(p))
		}
		out = append(out, tw)
	}
	return out
}

// FromAnalyzeDocumentOutput builds a Document from a synchronous analysis result.
func FromAnalyzeDocumentOutput(out *textract.AnalyzeDocumentOutput) (*trp.Document, error) {
	if out == nil {
		return nil, fmt.Errorf("analyze document output is nil: %w", trp.ErrInvalidArgument)
	}
	return trp.New(&trp.Response{
		Metadata: trp.Metadata{
			DocumentMetadata:            fromDocumentMetadata(out.DocumentMetadata),
			AnalyzeDocumentModelVersion: aws.StringValue(out.AnalyzeDocumentModelVersion),
		},
		Blocks: FromBlocks(out.Blocks),
	})
}

// FromGetDocumentAnalysisOutput builds one Document from the result pages of an
// asynchronous analysis job, in the order given. Metadata comes from the first
// page except NextToken, which comes from the last.
func FromGetDocumentAnalysisOutput(pages ...*textract.GetDocumentAnalysisOutput) (*trp.Document, error) {
	if len(pages) == 0 || pages[0] == nil {
		return nil, fmt.Errorf("no document analysis output: %w", trp.ErrInvalidArgument)
	}
	first, last := pages[0], pages[len(pages)-1]
	resp := &trp.Response{
		Metadata: trp.Metadata{
			DocumentMetadata:            fromDocumentMetadata(first.DocumentMetadata),
			AnalyzeDocumentModelVersion: aws.StringValue(first.AnalyzeDocumentModelVersion),
			JobStatus:                   aws.StringValue(first.JobStatus),
			StatusMessage:               aws.StringValue(first.StatusMessage),
			NextToken:                   aws.StringValue(last.NextToken),
		},
	}
	for i, p := range pages {
		if p == nil {
			return nil, fmt.Errorf("document analysis output %d is nil: %w", i, trp.ErrInvalidArgument)
		}
		resp.Warnings = append(resp.Warnings, fromWarnings(p.Warnings)...)
		resp.Blocks = append(resp.Blocks, FromBlocks(p.Blocks)...)
	}
	return trp.New(resp)
}

// FromDetectDocumentTextOutput builds a Document from a text detection result.
func FromDetectDocumentTextOutput(out *textract.DetectDocumentTextOutput) (*trp.Document, error) {
	if out == nil {
		return nil, fmt.Errorf("detect document text output is nil: %w", trp.ErrInvalidArgument)
	}
	return trp.New(&trp.Response{
		Metadata: trp.Metadata{
			DocumentMetadata:               fromDocumentMetadata(out.DocumentMetadata),
			DetectDocumentTextModelVersion: aws.StringValue(out.DetectDocumentTextModelVersion),
		},
		Blocks: FromBlocks(out.Blocks),
	})
}

// ToAnalyzeDocumentOutput converts a Document back to the synchronous analysis
// output type.
func ToAnalyzeDocumentOutput(doc *trp.Document) *textract.AnalyzeDocumentOutput {
	out := &textract.AnalyzeDocumentOutput{
		AnalyzeDocumentModelVersion: optString(doc.AnalyzeDocumentModelVersion),
		Blocks:                      ToBlocks(doc.Blocks()),
	}
	if doc.DocumentMetadata != nil {
		out.DocumentMetadata = &textract.DocumentMetadata{Pages: aws.Int64(int64(doc.DocumentMetadata.Pages))}
	}
	return out
}
