package sbar

// BlockCache is the process-wide id → block map (§4.D). It holds only weak
// handles: presence in the map never counts toward a block's refcount, so
// a block disappears from the cache exactly when its last strong holder
// (a surface or composite parent) releases it.
type BlockCache struct {
	byID map[int]*Block
	ctx  *BuildContext
}

// NewBlockCache returns an empty cache that builds blocks with ctx.
func NewBlockCache(ctx *BuildContext) *BlockCache {
	return &BlockCache{byID: make(map[int]*Block), ctx: ctx}
}

// Get implements block_get(jsonNode, id): a cache hit on a positive id
// retains and returns the existing block; otherwise it builds a fresh one,
// registers it under id (if positive), and returns it with refcount 1.
func (c *BlockCache) Get(w *WireBlock) (*Block, error) {
	if w.ID > 0 {
		if b, ok := c.byID[w.ID]; ok {
			b.Retain()
			return b, nil
		}
	}
	b, err := BuildBlock(w, c.ctx)
	if err != nil {
		return nil, err
	}
	if w.ID > 0 {
		b.cache = c
		c.byID[w.ID] = b
	}
	return b, nil
}

// Lookup returns the cached block for id without affecting its refcount.
// The reconciler does not use it: its §4.G step 4 reuse check is
// Block.SameIdentity.
func (c *BlockCache) Lookup(id int) (*Block, bool) {
	if id <= 0 {
		return nil, false
	}
	b, ok := c.byID[id]
	return b, ok
}

// forget removes id from the index; called by Block.Release when the last
// strong reference drops, never directly by reconciler code.
func (c *BlockCache) forget(id int) {
	delete(c.byID, id)
}

// Len reports the number of distinct ids currently registered, for tests.
func (c *BlockCache) Len() int { return len(c.byID) }
