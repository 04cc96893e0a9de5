package widget

import (
	"strings"

	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/layout"
)

// Layout lays the tree out in a window of the given size and returns the
// root's size. Subtrees that are clean and offered the same constraints as
// last time are skipped. Afterwards the hot set and cursor are brought up to
// date with the last pointer position.
func (t *Tree) Layout(window graphics.Size) graphics.Size {
	t.stats.Layouts = 0
	if t.root == nil {
		return graphics.Size{}
	}

	t.inLayout = true
	size := t.layoutNode(t.root, layout.Tight(window))
	t.root.offset = graphics.Offset{}
	t.inLayout = false

	deferred := t.deferredLayout
	t.deferredLayout = nil
	for _, path := range deferred {
		if n, ok := t.Node(path); ok {
			t.markUp(n, allDirty)
		}
	}
	t.refreshHot()
	return size
}

func (t *Tree) layoutNode(n *Node, c layout.Constraints) graphics.Size {
	c, problems := c.Sanitize()
	if len(problems) > 0 {
		t.diagnose(n, "layout.Constraints", problems)
	}

	if !n.flags.Has(NeedsLayout) && n.laidOut && n.constraints == c {
		return n.size
	}

	n.constraints = c
	n.laidOut = true
	n.flags &^= NeedsLayout
	t.stats.Layouts++

	ctx := LayoutCtx{ctx{tree: t, node: n}}
	natural := n.widget.Layout(&ctx, c)
	natural, problems = layout.SanitizeSize(natural)
	if len(problems) > 0 {
		t.diagnose(n, "layout.Size", problems)
	}

	size, overflow := c.Constrain(natural)
	n.size = size
	n.overflow = overflow
	t.markUp(n, NeedsPaint|NeedsAccessibility)
	return size
}

func (t *Tree) diagnose(n *Node, op string, problems []string) {
	errors.ReportDiagnostic(&errors.Diagnostic{
		Op:      op,
		Path:    n.path.String(),
		Message: strings.Join(problems, "; "),
	})
}
