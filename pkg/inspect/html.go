package inspect

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML renders s as a standalone HTML page with one nested list item
// per node.
func WriteHTML(w io.Writer, s *Snapshot) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)
	head := element(atom.Head)
	root.AppendChild(head)
	title := element(atom.Title)
	title.AppendChild(text(fmt.Sprintf("frame %d", s.Frame)))
	head.AppendChild(title)

	body := element(atom.Body)
	root.AppendChild(body)
	summary := element(atom.P)
	summary.AppendChild(text(fmt.Sprintf("frame %d, %d nodes, focus %s", s.Frame, s.Nodes, orNone(s.Focus))))
	body.AppendChild(summary)

	if s.Root != nil {
		list := element(atom.Ul)
		list.AppendChild(listItem(s.Root))
		body.AppendChild(list)
	}
	return html.Render(w, doc)
}

func listItem(n *TreeNode) *html.Node {
	li := element(atom.Li)
	setAttr(li, "data-path", n.Path)
	setAttr(li, "data-id", fmt.Sprint(n.ID))
	class := n.Kind
	if n.Focused {
		class += " focused"
	}
	if n.Hot {
		class += " hot"
	}
	setAttr(li, "class", class)

	code := element(atom.Code)
	code.AppendChild(text(n.Path))
	li.AppendChild(code)
	li.AppendChild(text(fmt.Sprintf(" %s %gx%g at (%g, %g) [%s]",
		n.Kind, float64(n.Size.Width), float64(n.Size.Height), float64(n.Offset.X), float64(n.Offset.Y), n.Dirty)))
	if n.Overflow != nil {
		em := element(atom.Em)
		em.AppendChild(text(fmt.Sprintf(" overflow %gx%g", float64(n.Overflow.Width), float64(n.Overflow.Height))))
		li.AppendChild(em)
	}

	if len(n.Children) > 0 {
		ul := element(atom.Ul)
		for i := range n.Children {
			ul.AppendChild(listItem(&n.Children[i]))
		}
		li.AppendChild(ul)
	}
	return li
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
