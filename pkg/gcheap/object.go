// Package gcheap implements the GC object protocol and copying collector
// described in spec §3.3 and §4.1: every heap value exposes shallow size,
// shallow copy, and child-forwarding so a moving collector can relocate it.
//
// Schematika's heap values already live on the Go runtime's own garbage
// collected heap; gcheap does not reimplement memory management underneath
// Go. What it reproduces is the *protocol* — roots copied first, then a
// Cheney-style scan forwarding children, with idempotent forwarding — so
// that the VM's safe-point discipline (§4.4.4) and the testable properties
// in spec §8 ("GC faithfulness", "forward_inplace called twice yields the
// same pointer") hold as stated, independent of whether Go's own collector
// happens to run underneath.
package gcheap

// Object is the three-operation contract every heap value (GCValue kind,
// frame, environment, or expression node) must implement so the collector
// can treat it uniformly.
type Object interface {
	// ShallowSize reports the byte size of this allocation, excluding
	// anything reachable only through a pointer field.
	ShallowSize() int

	// ShallowCopy allocates a byte-identical copy of the receiver. Pointer
	// fields in the copy still refer to old (source-space) objects; the
	// caller (the collector) is responsible for forwarding them afterward.
	ShallowCopy() Object

	// ForwardChildren calls Collector.Forward on every pointer field of
	// the (already-copied) receiver, rewriting each to point at its
	// destination-space copy, and returns ShallowSize().
	ForwardChildren(gc *Collector) int
}
