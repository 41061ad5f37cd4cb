package spec

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	doc := `{
		"type": "column",
		"id": "root",
		"props": {"gap": 8},
		"animations": {"enter": "fade"},
		"children": [
			{"type": "text", "props": {"content": "hello"}},
			{"id": "untyped-but-kept"},
			{"type": "button", "props": {"label": "Go"}}
		]
	}`

	root, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if root.Type != "column" || root.ID != "root" {
		t.Errorf("root = %+v", root)
	}
	if root.Props["gap"] != float64(8) {
		t.Errorf("props = %v", root.Props)
	}
	if root.Animations["enter"] != "fade" {
		t.Errorf("animations = %v", root.Animations)
	}
	if len(root.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(root.Children))
	}

	// A node missing its type survives decoding; it degrades at render.
	if root.Children[1].Type != "" || root.Children[1].ID != "untyped-but-kept" {
		t.Errorf("malformed node mangled: %+v", root.Children[1])
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("unparseable JSON accepted")
	}
	if _, err := Decode([]byte(`null`)); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("null document error = %v, want ErrEmptyDocument", err)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	deep := strings.Repeat(`{"type":"container","children":[`, MaxDepth+1) +
		`{"type":"text"}` +
		strings.Repeat(`]}`, MaxDepth+1)

	if _, err := Decode([]byte(deep)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("depth error = %v, want ErrMaxDepthExceeded", err)
	}

	ok := strings.Repeat(`{"type":"container","children":[`, 10) +
		`{"type":"text"}` +
		strings.Repeat(`]}`, 10)
	if _, err := Decode([]byte(ok)); err != nil {
		t.Errorf("reasonable nesting rejected: %v", err)
	}
}

func TestWalkIsPreOrderSourceOrder(t *testing.T) {
	root := &Node{Type: "a", Children: []*Node{
		{Type: "b", Children: []*Node{{Type: "c"}}},
		{Type: "d"},
	}}

	var visited []string
	root.Walk(func(n *Node) bool {
		visited = append(visited, n.Type)
		return true
	})

	want := []string{"a", "b", "c", "d"}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}

	if root.Count() != 4 {
		t.Errorf("Count = %d, want 4", root.Count())
	}
}
