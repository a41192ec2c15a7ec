package gcheap

// Arena is a bump allocator with checkpoint/restore semantics, distinct
// from Collector's moving GC heap (§4.1: "the SSM stack lives in an arena
// allocator... separate from the GC heap used for runtime values").
//
// The reader pushes a checkpoint before starting a nested sub-parser (e.g.
// entering a ParenSsm) and restores to it when that sub-parser pops, in one
// call reclaiming everything the nested parse allocated. Arena holds plain
// Go values (interface{}), not GC Objects — its entries never move and are
// never scanned by Collector.
type Arena struct {
	slots []any
}

// NewArena creates an empty arena.
func NewArena() *Arena { return &Arena{} }

// Mark is an opaque checkpoint returned by Checkpoint and consumed by
// Restore.
type Mark int

// Checkpoint returns a mark for the arena's current high-water point.
func (a *Arena) Checkpoint() Mark { return Mark(len(a.slots)) }

// Restore discards every value allocated since mark was taken. Restoring to
// a mark newer than the arena's current length (already-restored-past) is a
// programmer error and panics, matching the reader's strictly-nested
// checkpoint discipline.
func (a *Arena) Restore(mark Mark) {
	if int(mark) > len(a.slots) {
		panic("gcheap: Arena.Restore to a mark past the current high-water point")
	}
	a.slots = a.slots[:mark]
}

// Push allocates v in the arena and returns the slot index, which is stable
// until a Restore discards it.
func (a *Arena) Push(v any) int {
	a.slots = append(a.slots, v)
	return len(a.slots) - 1
}

// At retrieves the value stored at slot i. Panics on an out-of-range index,
// which only happens after a Restore has discarded that slot.
func (a *Arena) At(i int) any { return a.slots[i] }

// Len reports how many live slots the arena currently holds.
func (a *Arena) Len() int { return len(a.slots) }
