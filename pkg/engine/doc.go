// Package engine materializes live view trees from declarative UI
// specifications.
//
// A remote agent (or any producer) emits a JSON-shaped spec tree; the
// engine walks it pre-order, resolves each node's type against the
// component registry, and composes the resolved implementations' output
// bottom-up into a view tree for the rendering host. Unknown or malformed
// nodes degrade to fallback placeholders without aborting siblings or
// ancestors.
//
// Each engine owns a path-addressable state store shared by every
// component it renders. Props that name store paths are passed through
// unresolved so implementations can read and subscribe themselves, which
// is what keeps rendered trees live after the initial walk.
//
//	eng := engine.New(
//	    engine.WithInitialState(map[string]any{"count": float64(0)}),
//	)
//	root, _ := spec.Decode(payload)
//	tree := eng.Render(root)
//
// Accepting a new spec replaces the tree in place and releases the
// subscriptions held by the previous tree's components.
package engine
