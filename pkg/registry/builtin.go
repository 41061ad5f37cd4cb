package registry

import "github.com/counselkit/agentui/pkg/view"

// builtinVersion is the version stamped on the built-in catalog.
const builtinVersion = "1.0.0"

// passthrough emits a view node that mirrors the spec node unchanged.
// Most built-ins are opaque to the engine; the rendering host gives them
// behavior.
func passthrough(ctx *RenderContext) *view.Node {
	return &view.Node{
		Kind:       view.KindComponent,
		Type:       ctx.Type,
		ID:         ctx.ID,
		Props:      ctx.Props,
		Animations: ctx.Animations,
		Children:   ctx.Children,
	}
}

// bindable is passthrough plus live state binding: when the "bind" prop
// names a store path, the current value is resolved into the "value" prop
// and a subscription keeps the rendered node current until it is released.
func bindable(ctx *RenderContext) *view.Node {
	node := passthrough(ctx)

	path, ok := ctx.Props["bind"].(string)
	if !ok || path == "" || ctx.Store == nil {
		return node
	}

	// Copy before injecting so the producer's spec props are not aliased.
	props := make(map[string]any, len(ctx.Props)+1)
	for k, v := range ctx.Props {
		props[k] = v
	}
	props["value"] = ctx.Store.Get(path)
	node.Props = props

	unsubscribe := ctx.Store.Subscribe(path, func(value any) {
		node.Props["value"] = value
	})
	node.OnRelease(unsubscribe)

	return node
}

// virtualized emits a view node whose children are materialized on demand.
func virtualized(ctx *RenderContext) *view.Node {
	node := passthrough(ctx)
	node.Children = nil
	node.Deferred = ctx.ChildThunk
	return node
}

// seedBuiltins registers the baseline component vocabulary. It runs once
// at construction and again on every Clear, so an engine can always
// render something.
func seedBuiltins(r *Registry) {
	eager := ImplementationFunc(passthrough)
	bound := ImplementationFunc(bindable)
	lazy := ImplementationFunc(virtualized)

	register := func(meta Metadata, impl Implementation) {
		meta.Version = builtinVersion
		r.mu.Lock()
		r.meta[meta.Type] = meta
		r.impls[meta.Type] = impl
		r.mu.Unlock()
	}

	// basic
	register(Metadata{Type: "text", Name: "Text", Category: CategoryBasic,
		Description: "Static or bound text content",
		Props: map[string]PropSpec{
			"content": {Type: "string"},
			"bind":    {Type: "string"},
		}}, bound)
	register(Metadata{Type: "button", Name: "Button", Category: CategoryBasic,
		Description: "Clickable action trigger",
		Props: map[string]PropSpec{
			"label":  {Type: "string", Required: true},
			"action": {Type: "string"},
		}}, eager)
	register(Metadata{Type: "image", Name: "Image", Category: CategoryBasic,
		Description: "Image display",
		Props: map[string]PropSpec{
			"src": {Type: "string", Required: true},
			"alt": {Type: "string"},
		}}, eager)
	register(Metadata{Type: "divider", Name: "Divider", Category: CategoryBasic,
		Description: "Horizontal rule between sections"}, eager)

	// form
	register(Metadata{Type: "input", Name: "Input", Category: CategoryForm,
		Description: "Single-line text input",
		Props: map[string]PropSpec{
			"bind":        {Type: "string"},
			"placeholder": {Type: "string"},
		}}, bound)
	register(Metadata{Type: "select", Name: "Select", Category: CategoryForm,
		Description: "Dropdown selection",
		Props: map[string]PropSpec{
			"bind":    {Type: "string"},
			"options": {Type: "array"},
		}}, bound)
	register(Metadata{Type: "checkbox", Name: "Checkbox", Category: CategoryForm,
		Description: "Boolean toggle",
		Props: map[string]PropSpec{
			"bind":  {Type: "string"},
			"label": {Type: "string"},
		}}, bound)

	// layout
	register(Metadata{Type: "container", Name: "Container", Category: CategoryLayout,
		Description: "Generic grouping block"}, eager)
	register(Metadata{Type: "row", Name: "Row", Category: CategoryLayout,
		Description: "Horizontal arrangement of children"}, eager)
	register(Metadata{Type: "column", Name: "Column", Category: CategoryLayout,
		Description: "Vertical arrangement of children"}, eager)
	register(Metadata{Type: "card", Name: "Card", Category: CategoryLayout,
		Description: "Bordered content surface",
		Props: map[string]PropSpec{
			"title": {Type: "string"},
		}}, eager)

	// data
	register(Metadata{Type: "list", Name: "List", Category: CategoryData,
		Description: "Virtualized item list", Lazy: true,
		Props: map[string]PropSpec{
			"bind": {Type: "string"},
		}}, lazy)
	register(Metadata{Type: "table", Name: "Table", Category: CategoryData,
		Description: "Virtualized tabular data", Lazy: true,
		Props: map[string]PropSpec{
			"bind":    {Type: "string"},
			"columns": {Type: "array"},
		}}, lazy)
	register(Metadata{Type: "chart", Name: "Chart", Category: CategoryData,
		Description: "Data visualization",
		Props: map[string]PropSpec{
			"bind": {Type: "string"},
			"kind": {Type: "string", Default: "bar",
				Enum: []any{"bar", "line", "pie"}},
		}}, bound)

	// feedback
	register(Metadata{Type: "spinner", Name: "Spinner", Category: CategoryFeedback,
		Description: "Indeterminate progress indicator"}, eager)
	register(Metadata{Type: "progress", Name: "Progress", Category: CategoryFeedback,
		Description: "Determinate progress bar",
		Props: map[string]PropSpec{
			"bind": {Type: "string"},
			"max":  {Type: "number", Default: float64(100)},
		}}, bound)
	register(Metadata{Type: "modal", Name: "Modal", Category: CategoryFeedback,
		Description: "Overlay dialog",
		Props: map[string]PropSpec{
			"title": {Type: "string"},
			"open":  {Type: "boolean", Default: false},
		}}, eager)

	// navigation
	register(Metadata{Type: "tabs", Name: "Tabs", Category: CategoryNavigation,
		Description: "Tabbed section switcher",
		Props: map[string]PropSpec{
			"bind": {Type: "string"},
		}}, bound)

	// special
	register(Metadata{Type: "markdown", Name: "Markdown", Category: CategorySpecial,
		Description: "Rendered markdown block",
		Props: map[string]PropSpec{
			"content": {Type: "string"},
			"bind":    {Type: "string"},
		}}, bound)

	// domain-specific
	register(Metadata{Type: "citation", Name: "Citation", Category: CategoryDomain,
		Description: "Legal authority reference with pinpoint",
		Props: map[string]PropSpec{
			"source":   {Type: "string", Required: true},
			"pinpoint": {Type: "string"},
		}}, eager)
	register(Metadata{Type: "clause", Name: "Clause", Category: CategoryDomain,
		Description: "Contract clause excerpt with risk annotation",
		Props: map[string]PropSpec{
			"text": {Type: "string", Required: true},
			"risk": {Type: "string", Enum: []any{"low", "medium", "high"}},
		}}, eager)
}
