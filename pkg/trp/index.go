package trp

// blockIndex maps block ids to their position in the document's block slice,
// globally and per block type. Positions are raw slice offsets, so any removal
// invalidates the whole index and it has to be rebuilt.
type blockIndex struct {
	all    map[string]int
	byType map[BlockType]map[string]int
}

func newBlockIndex(blocks []*Block) *blockIndex {
	idx := &blockIndex{}
	idx.build(blocks)
	return idx
}

// build resets the index from blocks.
func (idx *blockIndex) build(blocks []*Block) {
	idx.all = make(map[string]int, len(blocks))
	idx.byType = make(map[BlockType]map[string]int)
	for i, b := range blocks {
		idx.add(b, i)
	}
}

// add records block at position. Blocks without a type are only indexed globally.
func (idx *blockIndex) add(b *Block, position int) {
	idx.all[b.ID] = position
	if b.BlockType == "" {
		return
	}
	m, ok := idx.byType[b.BlockType]
	if !ok {
		m = make(map[string]int)
		idx.byType[b.BlockType] = m
	}
	m[b.ID] = position
}

// remove erases id from the global map and from the per-type map holding it.
// Positions of later blocks are not adjusted; callers rebuild after removing.
func (idx *blockIndex) remove(id string) {
	delete(idx.all, id)
	for _, m := range idx.byType {
		delete(m, id)
	}
}

func (idx *blockIndex) position(id string) (int, bool) {
	pos, ok := idx.all[id]
	return pos, ok
}

// ids returns the id→position map for blockType, or the global map when
// blockType is empty.
func (idx *blockIndex) ids(blockType BlockType) map[string]int {
	if blockType == "" {
		return idx.all
	}
	return idx.byType[blockType]
}
