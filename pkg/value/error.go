package value

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/typedescr"
)

// RuntimeErrorValue is the ordinary GC value the VM leaves in its value
// register when it halts on a runtime failure rather than a successful
// result (§7: "the VM signals errors by halting with value holding an
// error object"). It carries no static type — nothing in the language
// produces one directly, so TypeOf is nil, matching Array's rationale for
// the same choice.
type RuntimeErrorValue struct {
	Message string
}

func (e *RuntimeErrorValue) TypeOf() *typedescr.TypeDescr { return nil }
func (e *RuntimeErrorValue) ShallowSize() int             { return 16 + len(e.Message) }
func (e *RuntimeErrorValue) ShallowCopy() gcheap.Object    { cp := *e; return &cp }
func (e *RuntimeErrorValue) ForwardChildren(*gcheap.Collector) int {
	return e.ShallowSize()
}

var _ ast.Value = (*RuntimeErrorValue)(nil)
