package gcheap

// CollectStats summarizes a single collection pass; returned to callers
// (mainly tests and the VM's debug/trace hooks) so collection can be
// observed without exposing collector internals.
type CollectStats struct {
	ObjectsCopied int
	BytesLive     int
	Generation    int
}

// Collector implements a Cheney-style copying collector over the Object
// graph: Collect copies every reachable object exactly once (forwarding is
// idempotent — the second Forward call on a field pointing at an
// already-copied object rewrites it to the same destination, never
// allocating a second copy) and the roots are rewritten in place to point
// at their destination-space copies.
//
// Unlike a from-scratch semispace collector, Collector does not manage raw
// memory: "allocation" means constructing an ordinary Go value, and
// Go's own runtime collector reclaims the source-space copies once nothing
// in the Object graph references them anymore. Collector's job is purely to
// reproduce the moving-GC *protocol* (§4.1) — shallow copy then forward
// children from roots outward — which is what the VM's safe-point
// discipline and the GC-faithfulness property in §8 depend on.
type Collector struct {
	forwarded  map[Object]Object
	scanQueue  []Object
	allocated  int
	liveBytes  int
	generation int
}

// NewCollector creates an idle collector. Call Collect to run a pass.
func NewCollector() *Collector {
	return &Collector{forwarded: make(map[Object]Object)}
}

// Alloc records a newly constructed heap object as a GC safe point. Every
// allocation site in the parser and VM must route its freshly built Object
// through Alloc so bookkeeping (and, in a future extension, threshold-
// triggered automatic collection) stays accurate; Alloc returns o unchanged.
func (c *Collector) Alloc(o Object) Object {
	c.allocated++
	c.liveBytes += o.ShallowSize()
	return o
}

// Allocated reports the number of objects allocated since the last Collect.
func (c *Collector) Allocated() int { return c.allocated }

// Forward rewrites *field to point at its destination-space copy, copying
// it on first encounter and reusing the same copy on every later call for
// the same source object. A nil field (no object referenced) is a no-op.
//
// Forward is the single primitive every ForwardChildren implementation
// calls once per pointer field; Collect calls it once per root, then the
// scan loop calls it (via ForwardChildren) once per reachable descendant.
func (c *Collector) Forward(field *Object) {
	if field == nil || *field == nil {
		return
	}
	old := *field
	if cp, ok := c.forwarded[old]; ok {
		*field = cp
		return
	}
	cp := old.ShallowCopy()
	c.forwarded[old] = cp
	c.scanQueue = append(c.scanQueue, cp)
	*field = cp
}

// Collect runs one full copying pass: every root is forwarded (copied into
// destination space), then a breadth-first scan visits each destination
// object exactly once, calling ForwardChildren so grandchildren get copied
// and linked in turn. Roots are rewritten in place.
//
// This is the operation the VM invokes at a safe point (§4.4.4) with its
// register set (stack, local_env, expr, value) as roots, and the one the
// arena-backed reader never needs, since reader state lives outside the GC
// heap (§4.1).
func (c *Collector) Collect(roots []*Object) CollectStats {
	c.forwarded = make(map[Object]Object, len(c.forwarded))
	c.scanQueue = c.scanQueue[:0]

	for _, r := range roots {
		c.Forward(r)
	}

	liveBytes := 0
	for i := 0; i < len(c.scanQueue); i++ {
		liveBytes += c.scanQueue[i].ForwardChildren(c)
	}

	c.generation++
	c.allocated = 0
	c.liveBytes = liveBytes

	return CollectStats{
		ObjectsCopied: len(c.scanQueue),
		BytesLive:     liveBytes,
		Generation:    c.generation,
	}
}
