package spec

import (
	"encoding/json"
	"errors"
)

// Depth limit to prevent stack exhaustion from maliciously deep documents.
const (
	// MaxDepth limits the maximum nesting depth of a spec document.
	// 256 levels is sufficient for any reasonable component hierarchy.
	MaxDepth = 256
)

// Spec decode errors.
var (
	ErrEmptyDocument    = errors.New("spec: empty document")
	ErrMaxDepthExceeded = errors.New("spec: max nesting depth exceeded")
)

// Node is one element of a UI specification document: a declarative
// description of a renderable element produced by an agent or any other
// spec producer.
//
// Type is the key into the component registry and is the only field a
// renderable node requires. A node with an empty Type is kept through
// decoding and degrades to a fallback at render time; malformed nodes
// never fail the surrounding document.
type Node struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Props      map[string]any `json:"props,omitempty"`
	Children   []*Node        `json:"children,omitempty"`
	Animations map[string]any `json:"animations,omitempty"`
}

// Decode parses a JSON spec document into a node tree.
// It fails only on unparseable JSON, a null document, or a tree deeper
// than MaxDepth; per-node problems (missing type, unknown type) are left
// for the renderer's fallback path.
func Decode(data []byte) (*Node, error) {
	var root *Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrEmptyDocument
	}
	if depth(root) > MaxDepth {
		return nil, ErrMaxDepthExceeded
	}
	return root, nil
}

// Walk visits the node and its descendants pre-order, depth-first, in
// source order. Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// depth returns the nesting depth of the tree rooted at n.
func depth(n *Node) int {
	if n == nil {
		return 0
	}
	max := 0
	for _, child := range n.Children {
		if d := depth(child); d > max {
			max = d
		}
	}
	return max + 1
}
