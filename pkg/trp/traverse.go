package trp

import "slices"

// RelationshipsRecursive returns every block reachable from b through
// relationships of any type, without duplicates, in depth-first discovery order.
// Results are memoized per block id until the next mutation. An id that does not
// resolve fails the whole walk with ErrBlockNotFound.
func (d *Document) RelationshipsRecursive(b *Block) ([]*Block, error) {
	if b == nil {
		return nil, nil
	}
	if cached, ok := d.cache[b.ID]; ok {
		return slices.Clone(cached), nil
	}

	visited := map[string]struct{}{b.ID: {}}
	out := make([]*Block, 0)
	if err := d.walk(b, visited, &out); err != nil {
		return nil, err
	}
	d.cache[b.ID] = out
	return slices.Clone(out), nil
}

// walk appends the unvisited relatives of b to out, depth first. visited guards
// against cycles as well as blocks reachable through several paths.
func (d *Document) walk(b *Block, visited map[string]struct{}, out *[]*Block) error {
	for _, rel := range b.Relationships {
		for _, id := range rel.IDs {
			if id == "" {
				continue
			}
			if _, seen := visited[id]; seen {
				continue
			}
			child, err := d.GetBlockByID(id)
			if err != nil {
				return err
			}
			visited[id] = struct{}{}
			*out = append(*out, child)
			if err := d.walk(child, visited, out); err != nil {
				return err
			}
		}
	}
	return nil
}
