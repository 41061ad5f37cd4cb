package registry

import (
	"log/slog"

	"github.com/counselkit/agentui/pkg/statestore"
	"github.com/counselkit/agentui/pkg/view"
)

// RenderContext carries everything an implementation needs to produce its
// view node: the spec node's identity and properties, its already-rendered
// children, and the state store backing the session.
//
// Props and Animations are passed through unresolved; a prop may hold a
// store path the implementation reads or subscribes to itself, which is
// what keeps live updates working after the initial render.
type RenderContext struct {
	Type       string
	ID         string
	Props      map[string]any
	Animations map[string]any

	// Children holds the rendered child nodes in source order.
	// Nil for lazy containers, which receive ChildThunk instead.
	Children []*view.Node

	// ChildThunk materializes the children of a lazy container on demand,
	// preserving source order. Nil for eager components.
	ChildThunk func() []*view.Node

	Store  *statestore.Store
	Logger *slog.Logger
}

// Implementation is the renderable half of a registered component type.
// The engine never inspects its internals; it only instantiates it with a
// resolved context.
type Implementation interface {
	Render(ctx *RenderContext) *view.Node
}

// ImplementationFunc adapts a function to the Implementation interface.
type ImplementationFunc func(ctx *RenderContext) *view.Node

// Render implements Implementation.
func (f ImplementationFunc) Render(ctx *RenderContext) *view.Node {
	return f(ctx)
}
