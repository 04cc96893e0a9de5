// Package inspect captures debugging snapshots of a retained widget tree
// and serves them as JSON and HTML.
package inspect

import (
	"encoding/json"
	"math"

	"github.com/go-drift/xilem/pkg/layout"
	"github.com/go-drift/xilem/pkg/widget"
)

// maxTreeDepth limits recursion depth when capturing.
const maxTreeDepth = 500

// SafeFloat wraps a float64 to handle Inf/NaN in JSON encoding.
type SafeFloat float64

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(v, -1) {
		return []byte(`"-Infinity"`), nil
	}
	if math.IsNaN(v) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// SafeSize is a JSON-safe version of graphics.Size.
type SafeSize struct {
	Width  SafeFloat `json:"width"`
	Height SafeFloat `json:"height"`
}

// SafeOffset is a JSON-safe version of graphics.Offset.
type SafeOffset struct {
	X SafeFloat `json:"x"`
	Y SafeFloat `json:"y"`
}

// SafeConstraints is a JSON-safe version of layout.Constraints.
type SafeConstraints struct {
	MinWidth  SafeFloat `json:"minWidth"`
	MaxWidth  SafeFloat `json:"maxWidth"`
	MinHeight SafeFloat `json:"minHeight"`
	MaxHeight SafeFloat `json:"maxHeight"`
}

// TreeNode is one retained node in a snapshot.
type TreeNode struct {
	Path        string          `json:"path"`
	Kind        string          `json:"kind"`
	ID          int64           `json:"id"`
	Size        SafeSize        `json:"size"`
	Offset      SafeOffset      `json:"offset"`
	Constraints SafeConstraints `json:"constraints"`
	Overflow    *SafeSize       `json:"overflow,omitempty"`
	Dirty       string          `json:"dirty"`
	Hot         bool            `json:"hot,omitempty"`
	Focused     bool            `json:"focused,omitempty"`
	Children    []TreeNode      `json:"children,omitempty"`
}

// Snapshot is the state of a tree after one frame.
type Snapshot struct {
	Frame uint64    `json:"frame"`
	Nodes int       `json:"nodes"`
	Focus string    `json:"focus,omitempty"`
	Root  *TreeNode `json:"root,omitempty"`
}

// Capture records tree. It must run on the goroutine that owns the tree.
func Capture(tree *widget.Tree, frame uint64) *Snapshot {
	s := &Snapshot{Frame: frame, Nodes: tree.Len()}
	if p, ok := tree.Focus().Focused(); ok {
		s.Focus = p.String()
	}
	if root := tree.Root(); root != nil {
		n := capture(tree, root, 0)
		s.Root = &n
	}
	return s
}

func capture(tree *widget.Tree, n *widget.Node, depth int) TreeNode {
	c := n.Constraints()
	out := TreeNode{
		Path:        n.Path().String(),
		Kind:        n.Kind().String(),
		ID:          int64(n.ID()),
		Size:        SafeSize{Width: SafeFloat(n.Size().Width), Height: SafeFloat(n.Size().Height)},
		Offset:      SafeOffset{X: SafeFloat(n.Offset().X), Y: SafeFloat(n.Offset().Y)},
		Constraints: safeConstraints(c),
		Dirty:       n.Flags().String(),
		Hot:         n.IsHot(),
		Focused:     tree.Focus().HasFocus(n.Path()),
	}
	if o := n.Overflow(); o.Any() {
		out.Overflow = &SafeSize{Width: SafeFloat(o.Width), Height: SafeFloat(o.Height)}
	}
	if depth >= maxTreeDepth {
		return out
	}
	for _, seg := range n.Children() {
		if child, ok := tree.Node(n.Path().Child(seg)); ok {
			out.Children = append(out.Children, capture(tree, child, depth+1))
		}
	}
	return out
}

func safeConstraints(c layout.Constraints) SafeConstraints {
	return SafeConstraints{
		MinWidth:  SafeFloat(c.MinWidth),
		MaxWidth:  SafeFloat(c.MaxWidth),
		MinHeight: SafeFloat(c.MinHeight),
		MaxHeight: SafeFloat(c.MaxHeight),
	}
}
