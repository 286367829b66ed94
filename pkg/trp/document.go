package trp

import (
	"fmt"
	"maps"
	"sort"

	"github.com/sirupsen/logrus"
)

// Document owns a block collection together with its id index and the
// relationship traversal cache.
type Document struct {
	Metadata

	// Logger receives advisory messages. It defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger

	blocks []*Block
	index  *blockIndex
	cache  map[string][]*Block
}

// New builds a Document from a decoded response and indexes its blocks. Block ids
// must be present and unique.
func New(resp *Response) (*Document, error) {
	if resp == nil {
		resp = &Response{}
	}
	seen := make(map[string]struct{}, len(resp.Blocks))
	blocks := make([]*Block, 0, len(resp.Blocks))
	for i, b := range resp.Blocks {
		if b == nil {
			continue
		}
		if b.ID == "" {
			return nil, fmt.Errorf("block %d has no id: %w", i, ErrInvalidArgument)
		}
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("duplicate block id %q: %w", b.ID, ErrInvalidArgument)
		}
		seen[b.ID] = struct{}{}
		blocks = append(blocks, b)
	}

	return &Document{
		Metadata: resp.Metadata,
		Logger:   logrus.StandardLogger(),
		blocks:   blocks,
		index:    newBlockIndex(blocks),
		cache:    make(map[string][]*Block),
	}, nil
}

// Blocks returns the block collection in document order. The slice is owned by the
// Document; use the mutators to change its structure.
func (d *Document) Blocks() []*Block {
	return d.blocks
}

// SetBlocks replaces the block collection, rebuilds the index and clears the
// traversal cache.
func (d *Document) SetBlocks(blocks []*Block) {
	d.blocks = blocks
	d.reindex()
}

// Reindex rebuilds the index and clears the traversal cache. Call it after editing
// relationships of blocks directly.
func (d *Document) Reindex() {
	d.reindex()
}

func (d *Document) reindex() {
	d.index.build(d.blocks)
	d.invalidate()
}

// invalidate drops every memoized traversal result.
func (d *Document) invalidate() {
	clear(d.cache)
}

// Response returns the wire representation of the document.
func (d *Document) Response() *Response {
	return &Response{Metadata: d.Metadata, Blocks: d.blocks}
}

// IndexOf returns the position of the block with the given id.
func (d *Document) IndexOf(id string) (int, bool) {
	return d.index.position(id)
}

// BlockIDMap returns a copy of the id→position map for blockType, or for all
// blocks when blockType is empty.
func (d *Document) BlockIDMap(blockType BlockType) map[string]int {
	m := d.index.ids(blockType)
	if m == nil {
		return map[string]int{}
	}
	return maps.Clone(m)
}

// BlockMap returns an id→block map for blockType, or for all blocks when
// blockType is empty.
func (d *Document) BlockMap(blockType BlockType) map[string]*Block {
	ids := d.index.ids(blockType)
	out := make(map[string]*Block, len(ids))
	for id, pos := range ids {
		out[id] = d.blocks[pos]
	}
	return out
}

// FindBlockByID returns the block with the given id, or nil.
func (d *Document) FindBlockByID(id string) *Block {
	pos, ok := d.index.position(id)
	if !ok {
		return nil
	}
	return d.blocks[pos]
}

// GetBlockByID returns the block with the given id or an error wrapping
// ErrBlockNotFound.
func (d *Document) GetBlockByID(id string) (*Block, error) {
	b := d.FindBlockByID(id)
	if b == nil {
		return nil, fmt.Errorf("no block for id %q: %w", id, ErrBlockNotFound)
	}
	return b, nil
}

// GetBlocksForRelationship resolves every id of rel.
func (d *Document) GetBlocksForRelationship(rel *Relationship) ([]*Block, error) {
	if rel == nil {
		return nil, nil
	}
	return d.resolve(rel.IDs)
}

func (d *Document) resolve(ids []string) ([]*Block, error) {
	out := make([]*Block, 0, len(ids))
	for _, id := range ids {
		b, err := d.GetBlockByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Pages returns the PAGE blocks sorted by page number.
func (d *Document) Pages() []*Block {
	pages := d.filter(d.blocks, BlockTypePage)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Page < pages[j].Page
	})
	return pages
}

// PageByNumber returns the PAGE block with the given 1-based page number, or nil.
func (d *Document) PageByNumber(n int) *Block {
	for _, p := range d.Pages() {
		if p.Page == n {
			return p
		}
	}
	return nil
}

// firstPage returns the page new blocks are attached to by default.
func (d *Document) firstPage() (*Block, error) {
	pages := d.Pages()
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return pages[0], nil
}

// GetBlocksByType returns the blocks of blockType reachable from page, in document
// order. Without a page, the whole block list is filtered. An empty blockType
// matches every block.
func (d *Document) GetBlocksByType(blockType BlockType, page *Block) ([]*Block, error) {
	if page == nil {
		return d.filter(d.blocks, blockType), nil
	}
	related, err := d.RelationshipsRecursive(page)
	if err != nil {
		return nil, err
	}
	d.sortByPosition(related)
	return d.filter(related, blockType), nil
}

func (d *Document) filter(blocks []*Block, blockType BlockType) []*Block {
	out := make([]*Block, 0)
	for _, b := range blocks {
		if blockType == "" || b.BlockType == blockType {
			out = append(out, b)
		}
	}
	return out
}

func (d *Document) sortByPosition(blocks []*Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		pi, _ := d.index.position(blocks[i].ID)
		pj, _ := d.index.position(blocks[j].ID)
		return pi < pj
	})
}

// Tables returns the TABLE blocks of page, or of the whole document when page is nil.
func (d *Document) Tables(page *Block) ([]*Block, error) {
	return d.GetBlocksByType(BlockTypeTable, page)
}

// Lines returns the LINE blocks of page.
func (d *Document) Lines(page *Block) ([]*Block, error) {
	return d.GetBlocksByType(BlockTypeLine, page)
}

// Forms returns the KEY_VALUE_SET blocks of page.
func (d *Document) Forms(page *Block) ([]*Block, error) {
	return d.GetBlocksByType(BlockTypeKeyValueSet, page)
}

// Queries returns the QUERY blocks of page.
func (d *Document) Queries(page *Block) ([]*Block, error) {
	return d.GetBlocksByType(BlockTypeQuery, page)
}

// Keys returns the KEY_VALUE_SET blocks of page tagged KEY.
func (d *Document) Keys(page *Block) ([]*Block, error) {
	forms, err := d.Forms(page)
	if err != nil {
		return nil, err
	}
	keys := make([]*Block, 0, len(forms)/2)
	for _, f := range forms {
		if f.HasEntityType(EntityTypeKey) {
			keys = append(keys, f)
		}
	}
	return keys, nil
}

// ValueForKey resolves key → VALUE blocks → their CHILD blocks. A block not tagged
// KEY has no value.
func (d *Document) ValueForKey(key *Block) ([]*Block, error) {
	if !key.HasEntityType(EntityTypeKey) {
		return nil, nil
	}
	values, err := d.resolve(key.RelatedIDs(RelationshipValue))
	if err != nil {
		return nil, err
	}
	var out []*Block
	for _, v := range values {
		children, err := d.resolve(v.RelatedIDs(RelationshipChild))
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return out, nil
}

// GetAnswersForQuery resolves the ANSWER relationship of a QUERY block.
func (d *Document) GetAnswersForQuery(query *Block) ([]*Block, error) {
	return d.resolve(query.RelatedIDs(RelationshipAnswer))
}

// QueryAnswer is one answer to a query. Answer is empty when the query has none.
type QueryAnswer struct {
	Query  string
	Alias  string
	Answer string
}

// GetQueryAnswers lists every query of page with each of its answers.
func (d *Document) GetQueryAnswers(page *Block) ([]QueryAnswer, error) {
	queries, err := d.Queries(page)
	if err != nil {
		return nil, err
	}
	var out []QueryAnswer
	for _, q := range queries {
		var text, alias string
		if q.Query != nil {
			text, alias = q.Query.Text, q.Query.Alias
		}
		answers, err := d.GetAnswersForQuery(q)
		if err != nil {
			return nil, err
		}
		if len(answers) == 0 {
			out = append(out, QueryAnswer{Query: text, Alias: alias})
			continue
		}
		for _, a := range answers {
			out = append(out, QueryAnswer{Query: text, Alias: alias, Answer: a.Text})
		}
	}
	return out, nil
}

// KeyText returns the text of a key's CHILD blocks.
func (d *Document) KeyText(key *Block) (string, error) {
	children, err := d.resolve(key.RelatedIDs(RelationshipChild))
	if err != nil {
		return "", err
	}
	return TextForBlocks(children), nil
}

// GetKeyByName returns every key whose text equals name.
func (d *Document) GetKeyByName(name string) ([]*Block, error) {
	keys, err := d.Keys(nil)
	if err != nil {
		return nil, err
	}
	var out []*Block
	for _, k := range keys {
		if k.RelationshipFor(RelationshipChild) == nil {
			continue
		}
		text, err := d.KeyText(k)
		if err != nil {
			return nil, err
		}
		if text == name {
			out = append(out, k)
		}
	}
	return out, nil
}
