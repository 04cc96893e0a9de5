package inspect

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/id"
	"github.com/go-drift/xilem/pkg/view"
	"github.com/go-drift/xilem/pkg/widget"
)

func sampleTree(t *testing.T) *widget.Tree {
	t.Helper()
	tree := widget.NewTree()
	v := view.Column(view.Button{Label: "go"}, view.Label{Text: "a label far too wide"})
	if err := tree.Build(v); err != nil {
		t.Fatal(err)
	}
	tree.Layout(graphics.Size{Width: 60, Height: 80})
	tree.Focus().SetFocus(id.Root.Child(id.IndexSegment(0)))
	return tree
}

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1.5"},
		{math.Inf(1), `"Infinity"`},
		{math.Inf(-1), `"-Infinity"`},
		{math.NaN(), `"NaN"`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(SafeFloat(tt.in))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != tt.want {
			t.Errorf("SafeFloat(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCapture(t *testing.T) {
	s := Capture(sampleTree(t), 7)
	if s.Frame != 7 || s.Nodes != 3 || s.Focus != "/0" {
		t.Errorf("snapshot header = frame %d, %d nodes, focus %q", s.Frame, s.Nodes, s.Focus)
	}

	var paths, kinds []string
	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		paths = append(paths, n.Path)
		kinds = append(kinds, n.Kind)
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	walk(s.Root)
	if diff := cmp.Diff([]string{"/", "/0", "/1"}, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Flex", "Button", "Label"}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}

	button, label := s.Root.Children[0], s.Root.Children[1]
	if !button.Focused {
		t.Error("button should be marked focused")
	}
	if label.Overflow == nil || label.Overflow.Width != 80 {
		t.Errorf("label overflow = %+v, want width 80", label.Overflow)
	}
	if label.Dirty != "paint|accessibility" {
		t.Errorf("label dirty = %q", label.Dirty)
	}
}

func TestCaptureEmptyTree(t *testing.T) {
	s := Capture(widget.NewTree(), 1)
	if s.Root != nil || s.Nodes != 0 {
		t.Errorf("empty tree snapshot = %+v", s)
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, Capture(sampleTree(t), 2)); err != nil {
		t.Fatal(err)
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	var items []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			for _, a := range n.Attr {
				if a.Key == "data-path" {
					items = append(items, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	if diff := cmp.Diff([]string{"/", "/0", "/1"}, items); diff != "" {
		t.Errorf("list items (-want +got):\n%s", diff)
	}
}

func TestHandler(t *testing.T) {
	var current *Snapshot
	h := Handler(SourceFunc(func() *Snapshot { return current }))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	if rec := get("/tree.json"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("before first frame: status %d", rec.Code)
	}

	current = Capture(sampleTree(t), 3)
	rec := get("/tree.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var decoded struct {
		Frame uint64 `json:"frame"`
		Root  struct {
			Path     string `json:"path"`
			Children []struct {
				Kind string `json:"kind"`
			} `json:"children"`
		} `json:"root"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Frame != 3 || decoded.Root.Path != "/" || len(decoded.Root.Children) != 2 {
		t.Errorf("decoded snapshot = %+v", decoded)
	}

	rec = get("/tree.html")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `data-path="/1"`) {
		t.Errorf("html status %d body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("content type %q", got)
	}

	post := httptest.NewRecorder()
	h.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/tree.json", nil))
	if post.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status %d", post.Code)
	}
}
