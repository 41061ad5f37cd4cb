package engine

import (
	"log/slog"
	"sync"

	"github.com/counselkit/agentui/pkg/registry"
	"github.com/counselkit/agentui/pkg/spec"
	"github.com/counselkit/agentui/pkg/statestore"
	"github.com/counselkit/agentui/pkg/view"
)

// State is the engine's observable lifecycle state.
type State uint8

const (
	// StateIdle means the engine is constructed but no spec has been
	// rendered yet.
	StateIdle State = iota

	// StateRendering means a spec has been accepted and its live tree
	// exists. A new spec replaces the tree in place; the engine never
	// transitions back through Idle.
	StateRendering
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRendering:
		return "Rendering"
	default:
		return "Unknown"
	}
}

// Engine turns UI specification trees into live view trees: it resolves
// each node's type against the component registry, wires resolved
// implementations to the session's state store, and substitutes fallback
// nodes where resolution fails. Reconciliation of the produced tree is
// the rendering host's job.
//
// One engine corresponds to one active rendering session or page region.
// It owns its state store for that lifetime; the registry is shared.
type Engine struct {
	reg    *registry.Registry
	store  *statestore.Store
	logger *slog.Logger
	debug  bool

	mu      sync.Mutex
	current *view.Node
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	reg      *registry.Registry
	initial  map[string]any
	onChange statestore.ChangeCallback
	logger   *slog.Logger
	debug    bool
}

// WithRegistry injects the component catalog. Defaults to the process-wide
// registry when omitted.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.reg = reg
		}
	}
}

// WithInitialState seeds the engine's state store; the mapping is
// deep-cloned at construction.
func WithInitialState(state map[string]any) Option {
	return func(c *config) {
		c.initial = state
	}
}

// WithChangeCallback registers a callback invoked with (path, value) on
// every successful state write, for mirroring changes outward.
func WithChangeCallback(fn statestore.ChangeCallback) Option {
	return func(c *config) {
		c.onChange = fn
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug toggles diagnostic logging on resolution failures and state
// mutation. Diagnostic only; never consulted for control flow.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.debug = debug
	}
}

// New creates an engine in the Idle state.
func New(opts ...Option) *Engine {
	cfg := config{
		reg:    registry.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	storeOpts := []statestore.Option{
		statestore.WithLogger(cfg.logger),
		statestore.WithDebug(cfg.debug),
	}
	if cfg.initial != nil {
		storeOpts = append(storeOpts, statestore.WithInitialState(cfg.initial))
	}
	if cfg.onChange != nil {
		storeOpts = append(storeOpts, statestore.WithChangeCallback(cfg.onChange))
	}

	return &Engine{
		reg:    cfg.reg,
		store:  statestore.New(storeOpts...),
		logger: cfg.logger,
		debug:  cfg.debug,
	}
}

// Store returns the engine's state store.
func (e *Engine) Store() *statestore.Store {
	return e.store
}

// Registry returns the catalog this engine resolves against.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// State returns the engine's observable lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return StateIdle
	}
	return StateRendering
}

// Current returns the live view tree, or nil while Idle.
func (e *Engine) Current() *view.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Render accepts a spec tree and replaces the current view tree with its
// rendering. Subscriptions held by the previous tree's components are
// released before the new tree is wired, so re-specs do not leak
// subscribers. A nil root renders a single fallback node; per-node
// problems degrade locally and never abort siblings or ancestors.
func (e *Engine) Render(root *spec.Node) *view.Node {
	tree := e.renderNode(root)

	e.mu.Lock()
	previous := e.current
	e.current = tree
	e.mu.Unlock()

	previous.Release()
	return tree
}

// RegisterComponent extends the engine's vocabulary without reaching into
// the registry directly, preserving the option to scope registrations per
// engine later.
func (e *Engine) RegisterComponent(meta registry.Metadata, impl registry.Implementation) {
	e.reg.Register(meta, impl)
}

// UnregisterComponent removes a type from the engine's vocabulary.
func (e *Engine) UnregisterComponent(typ string) {
	e.reg.Unregister(typ)
}

// Close releases the current tree's subscriptions. The store itself has
// no independent lifecycle; it is collected with the engine.
func (e *Engine) Close() {
	e.mu.Lock()
	previous := e.current
	e.current = nil
	e.mu.Unlock()

	previous.Release()
}

// renderNode resolves one spec node and, pre-order depth-first in source
// order, its children.
func (e *Engine) renderNode(node *spec.Node) *view.Node {
	if node == nil || node.Type == "" {
		return e.fallback(node, "missing type")
	}

	if !e.reg.Has(node.Type) {
		if e.debug {
			e.logger.Warn("engine: unresolvable component type", "type", node.Type)
		}
		return e.fallback(node, "unregistered type")
	}

	meta, _ := e.reg.GetMetadata(node.Type)
	impl, _ := e.reg.GetImplementation(node.Type)

	ctx := &registry.RenderContext{
		Type:       node.Type,
		ID:         node.ID,
		Props:      node.Props,
		Animations: node.Animations,
		Store:      e.store,
		Logger:     e.logger,
	}

	if meta.Lazy {
		children := node.Children
		ctx.ChildThunk = func() []*view.Node {
			out := make([]*view.Node, 0, len(children))
			for _, child := range children {
				out = append(out, e.renderNode(child))
			}
			return out
		}
	} else {
		for _, child := range node.Children {
			ctx.Children = append(ctx.Children, e.renderNode(child))
		}
	}

	rendered := e.invoke(impl, ctx)
	if rendered == nil {
		fb := e.fallback(node, "implementation failure")
		fb.Children = ctx.Children
		return fb
	}
	return rendered
}

// invoke runs an implementation, converting a panic into a nil result so
// one misbehaving component degrades to a fallback instead of taking the
// tree down.
func (e *Engine) invoke(impl registry.Implementation, ctx *registry.RenderContext) (out *view.Node) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("engine: implementation panic",
				"type", ctx.Type, "panic", r)
			out = nil
		}
	}()
	return impl.Render(ctx)
}

// fallback builds the designated error node for an unresolvable spec node.
func (e *Engine) fallback(node *spec.Node, detail string) *view.Node {
	out := &view.Node{
		Kind:   view.KindFallback,
		Detail: detail,
	}
	if node != nil {
		out.Type = node.Type
		out.ID = node.ID
	}
	return out
}
