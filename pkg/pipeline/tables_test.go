package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrgraph/pkg/trp"
)

func TestPercentageDifference(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0.8, 0.8, 0},
		{0, 0, 0},
		{1, 3, 100},
		{3, 1, 100},
		{0.1, 0.12, 18.182},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, percentageDifference(tt.a, tt.b), 1e-9, "%v vs %v", tt.a, tt.b)
	}
}

func TestExecuteTableValidations(t *testing.T) {
	tests := []struct {
		name         string
		pages        func() []*pageBuilder
		headerFooter HeaderFooterType
		want         [][]string
	}{
		{
			name: "continued table",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5),
					newPage(2).table("t2", 0.1, 0.05, 0.8, header, 2),
				}
			},
			headerFooter: HeaderFooterNormal,
			want:         [][]string{{"t1", "t2"}},
		},
		{
			name: "footer line ignored inside the band",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5).line("footer", "Page 1", 0.93),
					newPage(2).table("t2", 0.1, 0.12, 0.8, header, 2).line("hdr", "ACME", 0.02),
				}
			},
			headerFooter: HeaderFooterNormal,
			want:         [][]string{{"t1", "t2"}},
		},
		{
			name: "footer line counts without a band",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5).line("footer", "Page 1", 0.93),
					newPage(2).table("t2", 0.1, 0.05, 0.8, header, 2),
				}
			},
			headerFooter: HeaderFooterNone,
		},
		{
			name: "paragraph above the second table",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5),
					newPage(2).line("intro", "Other table", 0.2).table("t2", 0.1, 0.3, 0.8, header, 2),
				}
			},
			headerFooter: HeaderFooterNormal,
		},
		{
			name: "different columns",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5),
					newPage(2).table("t2", 0.1, 0.05, 0.8, []string{"Name", "Phone"}, 2),
				}
			},
			headerFooter: HeaderFooterNormal,
		},
		{
			name: "same header text with an extra column",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5),
					newPage(2).table("t2", 0.1, 0.05, 0.8, append(append([]string{}, header...), "Balance"), 2),
				}
			},
			headerFooter: HeaderFooterNormal,
			want:         [][]string{{"t1", "t2"}},
		},
		{
			name: "second table without cells",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5),
					newPage(2).table("t2", 0.1, 0.05, 0.8, nil, 2),
				}
			},
			headerFooter: HeaderFooterNormal,
		},
		{
			name: "both tables without cells",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, nil, 5),
					newPage(2).table("t2", 0.1, 0.05, 0.8, nil, 2),
				}
			},
			headerFooter: HeaderFooterNormal,
		},
		{
			name: "different width",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5),
					newPage(2).table("t2", 0.1, 0.05, 0.6, header, 2),
				}
			},
			headerFooter: HeaderFooterNormal,
		},
		{
			name: "chained over three pages",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5),
					newPage(2).table("t2", 0.1, 0.05, 0.8, header, 25),
					newPage(3).table("t3", 0.1, 0.05, 0.8, header, 2),
				}
			},
			headerFooter: HeaderFooterNormal,
			want:         [][]string{{"t1", "t2", "t3"}},
		},
		{
			name: "page without table breaks the chain",
			pages: func() []*pageBuilder {
				return []*pageBuilder{
					newPage(1).table("t1", 0.1, 0.6, 0.8, header, 5),
					newPage(2).table("t2", 0.1, 0.05, 0.8, header, 2),
					newPage(3).line("blank", "Intentionally blank", 0.5),
					newPage(4).table("t4", 0.1, 0.6, 0.8, header, 5),
					newPage(5).table("t5", 0.1, 0.05, 0.8, header, 2),
				}
			},
			headerFooter: HeaderFooterNormal,
			want:         [][]string{{"t1", "t2"}, {"t4", "t5"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDocument(t, tt.pages()...)
			got, err := ExecuteTableValidations(doc, tt.headerFooter, 98)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeTablesEndToEnd(t *testing.T) {
	doc := splitTableDocument(t)

	_, err := MergeTables(doc, Merge, HeaderFooterNormal, 98)
	require.NoError(t, err)

	assert.Nil(t, doc.FindBlockByID("t2"))
	tables, err := doc.Tables(nil)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	table, err := doc.Table(tables[0])
	require.NoError(t, err)
	// header and five rows from page 1, the former header and two rows from page 2
	require.Len(t, table.Rows, 9)
	assert.Len(t, table.Header(), 1)
	assert.Equal(t, []string{"t2-2-1", "t2-2-2", "t2-2-3"}, table.Rows[7].Texts())
	assert.Len(t, tables[0].RelatedIDs(trp.RelationshipChild), 27)

	page2, err := doc.Tables(doc.PageByNumber(2))
	require.NoError(t, err)
	assert.Empty(t, page2)
	assert.Equal(t, []string{"after"}, doc.PageByNumber(2).RelatedIDs(trp.RelationshipChild))
}

func TestMergeTablesLink(t *testing.T) {
	doc := splitTableDocument(t)

	_, err := MergeTables(doc, Link, HeaderFooterNormal, 98)
	require.NoError(t, err)

	t1, t2 := doc.FindBlockByID("t1"), doc.FindBlockByID("t2")
	require.NotNil(t, t2)
	assert.Equal(t, "t2", t1.Custom[trp.CustomNextTable])
	assert.Equal(t, "t1", t2.Custom[trp.CustomPreviousTable])
	assert.Len(t, t1.RelatedIDs(trp.RelationshipChild), 18)
}

func TestMergeTablesNone(t *testing.T) {
	doc := splitTableDocument(t)

	_, err := MergeTables(doc, MergeNone, HeaderFooterNormal, 98)
	require.NoError(t, err)
	assert.NotNil(t, doc.FindBlockByID("t2"))

	_, err = MergeTables(doc, MergeOptions(42), HeaderFooterNormal, 98)
	assert.ErrorIs(t, err, trp.ErrInvalidArgument)
}
