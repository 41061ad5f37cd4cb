package view

// Kind is the node type discriminator.
type Kind uint8

const (
	KindComponent Kind = iota // Resolved component output
	KindFallback              // Placeholder for an unresolvable spec node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "Component"
	case KindFallback:
		return "Fallback"
	default:
		return "Unknown"
	}
}

// Node is one element of a rendered view tree. The rendering host owns
// drawing and reconciliation; the engine owns producing these trees and
// releasing the resources they hold.
type Node struct {
	Kind       Kind
	Type       string         // Component type tag this node was resolved from
	ID         string         // Stable identity carried over from the spec node
	Props      map[string]any // Resolved properties, passed through from the spec
	Animations map[string]any // Transition hints, opaque to the engine
	Children   []*Node        // Child nodes in source order

	// Detail describes why a fallback node was substituted.
	// Empty for KindComponent nodes.
	Detail string

	// Deferred materializes the children of a lazy container on demand,
	// preserving source order. Set instead of Children for virtualized
	// components; the host decides when to force it.
	Deferred func() []*Node

	releases []func()
	released bool
}

// OnRelease registers a cleanup function to run when this node is released.
// Component implementations use this to drop store subscriptions they hold.
func (n *Node) OnRelease(fn func()) {
	if n == nil || fn == nil {
		return
	}
	n.releases = append(n.releases, fn)
}

// Release runs cleanup functions for this node and all descendants.
// Safe to call more than once; subsequent calls are no-ops.
func (n *Node) Release() {
	if n == nil || n.released {
		return
	}
	n.released = true
	for _, fn := range n.releases {
		fn()
	}
	n.releases = nil
	for _, child := range n.Children {
		child.Release()
	}
}

// Walk visits the node and its descendants pre-order, depth-first.
// Returning false from fn skips the node's children.
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

// Fallbacks returns the number of fallback nodes in the tree rooted at n.
func (n *Node) Fallbacks() int {
	count := 0
	n.Walk(func(node *Node) bool {
		if node.Kind == KindFallback {
			count++
		}
		return true
	})
	return count
}
