package awstextract

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/textract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrgraph/pkg/trp"
)

func sdkGeometry(left, top, width, height float64) *textract.Geometry {
	return &textract.Geometry{
		BoundingBox: &textract.BoundingBox{
			Left: aws.Float64(left), Top: aws.Float64(top), Width: aws.Float64(width), Height: aws.Float64(height),
		},
		Polygon: []*textract.Point{
			{X: aws.Float64(left), Y: aws.Float64(top)},
			{X: aws.Float64(left + width), Y: aws.Float64(top)},
			{X: aws.Float64(left + width), Y: aws.Float64(top + height)},
			{X: aws.Float64(left), Y: aws.Float64(top + height)},
		},
	}
}

func sdkOutput() *textract.AnalyzeDocumentOutput {
	return &textract.AnalyzeDocumentOutput{
		AnalyzeDocumentModelVersion: aws.String("1.0"),
		DocumentMetadata:            &textract.DocumentMetadata{Pages: aws.Int64(1)},
		Blocks: []*textract.Block{
			{
				Id: aws.String("p"), BlockType: aws.String("PAGE"), Page: aws.Int64(1),
				Geometry: sdkGeometry(0, 0, 1, 1),
				Relationships: []*textract.Relationship{
					{Type: aws.String("CHILD"), Ids: aws.StringSlice([]string{"l", "k", "q"})},
				},
			},
			{
				Id: aws.String("l"), BlockType: aws.String("LINE"), Page: aws.Int64(1), Text: aws.String("Total 3"),
				Confidence: aws.Float64(99.1), Geometry: sdkGeometry(0.1, 0.2, 0.3, 0.02),
				Relationships: []*textract.Relationship{
					{Type: aws.String("CHILD"), Ids: aws.StringSlice([]string{"w1", "w2"})},
				},
			},
			{
				Id: aws.String("w1"), BlockType: aws.String("WORD"), Page: aws.Int64(1), Text: aws.String("Total"),
				TextType: aws.String("PRINTED"), Confidence: aws.Float64(99.5), Geometry: sdkGeometry(0.1, 0.2, 0.1, 0.02),
			},
			{
				Id: aws.String("w2"), BlockType: aws.String("WORD"), Page: aws.Int64(1), Text: aws.String("3"),
				TextType: aws.String("PRINTED"), Confidence: aws.Float64(98), Geometry: sdkGeometry(0.3, 0.2, 0.1, 0.02),
			},
			{
				Id: aws.String("k"), BlockType: aws.String("KEY_VALUE_SET"), Page: aws.Int64(1),
				EntityTypes: aws.StringSlice([]string{"KEY"}), Confidence: aws.Float64(90),
				Geometry: sdkGeometry(0.1, 0.2, 0.1, 0.02),
				Relationships: []*textract.Relationship{
					{Type: aws.String("VALUE"), Ids: aws.StringSlice([]string{"v"})},
					{Type: aws.String("CHILD"), Ids: aws.StringSlice([]string{"w1"})},
				},
			},
			{
				Id: aws.String("v"), BlockType: aws.String("KEY_VALUE_SET"), Page: aws.Int64(1),
				EntityTypes: aws.StringSlice([]string{"VALUE"}), Confidence: aws.Float64(90),
				Geometry: sdkGeometry(0.3, 0.2, 0.1, 0.02),
				Relationships: []*textract.Relationship{
					{Type: aws.String("CHILD"), Ids: aws.StringSlice([]string{"w2"})},
				},
			},
			{
				Id: aws.String("q"), BlockType: aws.String("QUERY"), Page: aws.Int64(1),
				Query: &textract.Query{Text: aws.String("What is the total?"), Alias: aws.String("TOTAL")},
				Relationships: []*textract.Relationship{
					{Type: aws.String("ANSWER"), Ids: aws.StringSlice([]string{"a"})},
				},
			},
			{
				Id: aws.String("a"), BlockType: aws.String("QUERY_RESULT"), Page: aws.Int64(1), Text: aws.String("3"),
				Confidence: aws.Float64(97),
			},
		},
	}
}

func TestFromAnalyzeDocumentOutput(t *testing.T) {
	doc, err := FromAnalyzeDocumentOutput(sdkOutput())
	require.NoError(t, err)

	assert.Equal(t, "1.0", doc.AnalyzeDocumentModelVersion)
	assert.Equal(t, 1, doc.DocumentMetadata.Pages)
	require.Len(t, doc.Blocks(), 8)

	w := doc.FindBlockByID("w1")
	assert.Equal(t, trp.BlockTypeWord, w.BlockType)
	assert.Equal(t, "PRINTED", w.TextType)
	assert.InDelta(t, 99.5, *w.Confidence, 1e-9)
	assert.InDelta(t, 0.2, w.Geometry.BoundingBox.Right(), 1e-9)
	assert.Len(t, w.Geometry.Polygon, 4)
	assert.Nil(t, doc.FindBlockByID("a").Geometry)

	fields, err := doc.Fields(nil)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Total", fields[0].Name)
	assert.Equal(t, "3", fields[0].Value)

	answers, err := doc.GetQueryAnswers(nil)
	require.NoError(t, err)
	assert.Equal(t, []trp.QueryAnswer{{Query: "What is the total?", Alias: "TOTAL", Answer: "3"}}, answers)
}

func TestAnalyzeDocumentOutputRoundTrip(t *testing.T) {
	in := sdkOutput()
	doc, err := FromAnalyzeDocumentOutput(in)
	require.NoError(t, err)

	assert.Equal(t, in, ToAnalyzeDocumentOutput(doc))
}

func TestSDKJSONDecodesAsResponse(t *testing.T) {
	data, err := json.Marshal(sdkOutput())
	require.NoError(t, err)

	decoded, err := trp.Decode(data)
	require.NoError(t, err)
	converted, err := FromAnalyzeDocumentOutput(sdkOutput())
	require.NoError(t, err)

	assert.Equal(t, converted.Blocks(), decoded.Blocks())
}

func TestFromGetDocumentAnalysisOutput(t *testing.T) {
	all := sdkOutput().Blocks
	pages := []*textract.GetDocumentAnalysisOutput{
		{
			JobStatus:        aws.String("SUCCEEDED"),
			DocumentMetadata: &textract.DocumentMetadata{Pages: aws.Int64(1)},
			NextToken:        aws.String("token-1"),
			Blocks:           all[:4],
			Warnings: []*textract.Warning{
				{ErrorCode: aws.String("SOME_WARNING"), Pages: aws.Int64Slice([]int64{1})},
			},
		},
		{
			JobStatus: aws.String("SUCCEEDED"),
			Blocks:    all[4:],
		},
	}

	doc, err := FromGetDocumentAnalysisOutput(pages...)
	require.NoError(t, err)

	assert.Len(t, doc.Blocks(), 8)
	assert.Equal(t, "SUCCEEDED", doc.JobStatus)
	assert.Empty(t, doc.NextToken)
	assert.Equal(t, []trp.Warning{{ErrorCode: "SOME_WARNING", Pages: []int{1}}}, doc.Warnings)

	closure, err := doc.RelationshipsRecursive(doc.Pages()[0])
	require.NoError(t, err)
	assert.Len(t, closure, 7)

	_, err = FromGetDocumentAnalysisOutput()
	assert.ErrorIs(t, err, trp.ErrInvalidArgument)
	_, err = FromGetDocumentAnalysisOutput(pages[0], nil)
	assert.ErrorIs(t, err, trp.ErrInvalidArgument)
}

func TestFromDetectDocumentTextOutput(t *testing.T) {
	blocks := sdkOutput().Blocks[:4]
	blocks[0].Relationships[0].Ids = aws.StringSlice([]string{"l"})

	doc, err := FromDetectDocumentTextOutput(&textract.DetectDocumentTextOutput{
		DetectDocumentTextModelVersion: aws.String("1.0"),
		Blocks:                         blocks,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.DetectDocumentTextModelVersion)

	text, err := doc.TextInReadingOrder(doc.Pages()[0])
	require.NoError(t, err)
	assert.Equal(t, "Total 3\n", text)

	_, err = FromDetectDocumentTextOutput(nil)
	assert.ErrorIs(t, err, trp.ErrInvalidArgument)
}

func TestFromBlocksDuplicateID(t *testing.T) {
	out := sdkOutput()
	out.Blocks = append(out.Blocks, &textract.Block{Id: aws.String("w1"), BlockType: aws.String("WORD")})

	_, err := FromAnalyzeDocumentOutput(out)
	assert.ErrorIs(t, err, trp.ErrInvalidArgument)
}
