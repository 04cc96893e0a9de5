package widget

import (
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/paint"
)

// Paint returns the command list for the whole tree. Only nodes flagged
// NeedsPaint are re-recorded; the rest reuse their cached commands. The
// returned slice is owned by the caller.
func (t *Tree) Paint() []paint.Command {
	t.stats.Paints = 0
	if t.root == nil {
		return nil
	}
	cmds := t.paintNode(t.root)
	out := make([]paint.Command, len(cmds))
	copy(out, cmds)
	return out
}

// paintNode returns the commands of n's subtree in n's local coordinates.
func (t *Tree) paintNode(n *Node) []paint.Command {
	if !n.flags.Has(NeedsPaint) && n.paintCache != nil {
		return n.paintCache
	}
	t.stats.Paints++

	var rec paint.Recorder
	clip := n.overflow.Any()
	if clip {
		rec.PushClip(graphics.RectFromOffsetSize(graphics.Offset{}, n.size))
	}

	ctx := PaintCtx{ctx: ctx{tree: t, node: n}, Canvas: &rec}
	n.widget.Paint(&ctx)

	for i := range n.children {
		child := t.child(n, i)
		if child == nil {
			continue
		}
		childCmds := t.paintNode(child)
		if len(childCmds) == 0 {
			continue
		}
		rec.PushTransform(child.offset)
		rec.Append(childCmds...)
		rec.PopTransform()
	}

	if clip {
		rec.PopClip()
	}

	n.paintCache = rec.Commands()
	n.flags &^= NeedsPaint
	return n.paintCache
}
