package testing

import (
	"fmt"

	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/view"
	"github.com/go-drift/xilem/pkg/widget"
)

// Finder locates nodes in the retained tree.
type Finder interface {
	// Evaluate returns all matching nodes in depth-first pre-order.
	Evaluate(tree *widget.Tree) []*widget.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*widget.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *widget.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *widget.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *widget.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*widget.Node { return r.nodes }

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.nodes) }

// Exists reports whether anything matched.
func (r FinderResult) Exists() bool { return len(r.nodes) > 0 }

// Paths returns the id-path of every match.
func (r FinderResult) Paths() []id.Path {
	paths := make([]id.Path, len(r.nodes))
	for i, n := range r.nodes {
		paths[i] = n.Path()
	}
	return paths
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// Find evaluates finder against the retained tree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{nodes: finder.Evaluate(t.Tree()), finder: finder}
}

type predicateFinder struct {
	match func(*widget.Node) bool
	desc  string
}

func (f *predicateFinder) Evaluate(tree *widget.Tree) []*widget.Node {
	var out []*widget.Node
	tree.Walk(func(n *widget.Node) bool {
		if f.match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (f *predicateFinder) Description() string { return f.desc }

// ByKind finds nodes of the given view kind.
func ByKind(kind view.Kind) Finder {
	return &predicateFinder{
		match: func(n *widget.Node) bool { return n.Kind() == kind },
		desc:  fmt.Sprintf("ByKind(%s)", kind),
	}
}

// ByKey finds nodes whose view carries key.
func ByKey(key id.Key) Finder {
	return &predicateFinder{
		match: func(n *widget.Node) bool { return n.View().Key() == key },
		desc:  fmt.Sprintf("ByKey(%s)", key),
	}
}

// ByText finds labels with exactly this text and buttons with exactly this
// label.
func ByText(text string) Finder {
	return &predicateFinder{
		match: func(n *widget.Node) bool {
			switch v := n.View().(type) {
			case view.Label:
				return v.Text == text
			case view.Button:
				return v.Label == text
			}
			return false
		},
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByPath finds the node at path.
func ByPath(path id.Path) Finder {
	return &predicateFinder{
		match: func(n *widget.Node) bool { return n.Path().Equal(path) },
		desc:  fmt.Sprintf("ByPath(%s)", path),
	}
}
