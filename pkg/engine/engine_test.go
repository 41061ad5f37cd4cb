package engine

import (
	"testing"

	"github.com/counselkit/agentui/pkg/registry"
	"github.com/counselkit/agentui/pkg/spec"
	"github.com/counselkit/agentui/pkg/view"
)

func newTestEngine(opts ...Option) *Engine {
	opts = append([]Option{WithRegistry(registry.New())}, opts...)
	return New(opts...)
}

func TestLifecycleStates(t *testing.T) {
	e := newTestEngine()

	if e.State() != StateIdle {
		t.Errorf("fresh engine state = %s, want Idle", e.State())
	}
	if e.Current() != nil {
		t.Error("fresh engine has a current tree")
	}

	e.Render(&spec.Node{Type: "text"})
	if e.State() != StateRendering {
		t.Errorf("state after Render = %s, want Rendering", e.State())
	}

	// A new spec replaces the tree in place; never back through Idle.
	e.Render(&spec.Node{Type: "container"})
	if e.State() != StateRendering {
		t.Errorf("state after re-spec = %s, want Rendering", e.State())
	}
	if e.Current().Type != "container" {
		t.Errorf("current tree type = %s, want container", e.Current().Type)
	}
}

func TestRenderPreservesChildOrder(t *testing.T) {
	e := newTestEngine()

	tree := e.Render(&spec.Node{
		Type: "column",
		Children: []*spec.Node{
			{Type: "text", ID: "first"},
			{Type: "button", ID: "second"},
			{Type: "text", ID: "third"},
		},
	})

	if len(tree.Children) != 3 {
		t.Fatalf("rendered %d children, want 3", len(tree.Children))
	}
	for i, want := range []string{"first", "second", "third"} {
		if tree.Children[i].ID != want {
			t.Errorf("child %d ID = %s, want %s", i, tree.Children[i].ID, want)
		}
	}
}

func TestUnknownTypeDegradesLocally(t *testing.T) {
	e := newTestEngine()

	tree := e.Render(&spec.Node{
		Type: "row",
		Children: []*spec.Node{
			{Type: "text", ID: "left"},
			{Type: "__nonexistent__", ID: "broken"},
			{Type: "text", ID: "right"},
		},
	})

	if tree.Kind != view.KindComponent {
		t.Fatal("ancestor of an unknown type was aborted")
	}
	if len(tree.Children) != 3 {
		t.Fatalf("rendered %d children, want 3", len(tree.Children))
	}

	if tree.Children[0].Kind != view.KindComponent {
		t.Error("left sibling degraded")
	}
	if tree.Children[2].Kind != view.KindComponent {
		t.Error("right sibling degraded")
	}

	broken := tree.Children[1]
	if broken.Kind != view.KindFallback {
		t.Fatal("unknown type did not render as fallback")
	}
	if broken.Type != "__nonexistent__" {
		t.Errorf("fallback carries type %q, want the unresolved tag", broken.Type)
	}
}

func TestMissingTypeRendersFallback(t *testing.T) {
	e := newTestEngine()

	tree := e.Render(&spec.Node{
		Type:     "container",
		Children: []*spec.Node{{ID: "untyped"}},
	})

	if tree.Children[0].Kind != view.KindFallback {
		t.Error("node without a type did not render as fallback")
	}
}

func TestNilRootRendersFallback(t *testing.T) {
	e := newTestEngine()

	tree := e.Render(nil)
	if tree.Kind != view.KindFallback {
		t.Error("nil root did not render as fallback")
	}
	if e.State() != StateRendering {
		t.Error("engine did not accept the document")
	}
}

func TestHalfRegisteredTypeFallsBack(t *testing.T) {
	reg := registry.New()
	reg.RegisterMetadata(registry.Metadata{
		Type: "half", Name: "Half", Category: registry.CategoryBasic,
	})
	e := New(WithRegistry(reg))

	tree := e.Render(&spec.Node{Type: "half"})
	if tree.Kind != view.KindFallback {
		t.Error("metadata-only type rendered as component")
	}
}

func TestPanickingImplementationDegrades(t *testing.T) {
	reg := registry.New()
	reg.Register(
		registry.Metadata{Type: "bomb", Name: "Bomb", Category: registry.CategorySpecial},
		registry.ImplementationFunc(func(*registry.RenderContext) *view.Node {
			panic("component bug")
		}),
	)
	e := New(WithRegistry(reg))

	tree := e.Render(&spec.Node{
		Type: "container",
		Children: []*spec.Node{
			{Type: "bomb"},
			{Type: "text", ID: "ok"},
		},
	})

	if tree.Children[0].Kind != view.KindFallback {
		t.Error("panicking implementation did not degrade to fallback")
	}
	if tree.Children[1].Kind != view.KindComponent {
		t.Error("sibling of panicking implementation degraded")
	}
}

func TestPropsAndAnimationsPassThrough(t *testing.T) {
	e := newTestEngine()

	tree := e.Render(&spec.Node{
		Type:       "card",
		Props:      map[string]any{"title": "Diligence", "state": "matters.current"},
		Animations: map[string]any{"enter": "fade"},
	})

	if tree.Props["title"] != "Diligence" {
		t.Errorf("props not passed through: %v", tree.Props)
	}
	if tree.Props["state"] != "matters.current" {
		t.Error("store-path prop was resolved instead of passed through")
	}
	if tree.Animations["enter"] != "fade" {
		t.Errorf("animations not passed through: %v", tree.Animations)
	}
}

func TestReSpecReleasesPreviousSubscriptions(t *testing.T) {
	e := newTestEngine(WithInitialState(map[string]any{"title": "v1"}))

	first := e.Render(&spec.Node{
		Type:  "input",
		Props: map[string]any{"bind": "title"},
	})

	e.Store().Set("title", "v2")
	if first.Props["value"] != "v2" {
		t.Fatalf("live binding broken before re-spec: %v", first.Props["value"])
	}

	second := e.Render(&spec.Node{
		Type:  "input",
		Props: map[string]any{"bind": "title"},
	})

	e.Store().Set("title", "v3")
	if first.Props["value"] != "v2" {
		t.Error("previous tree still subscribed after re-spec")
	}
	if second.Props["value"] != "v3" {
		t.Errorf("new tree not live: %v", second.Props["value"])
	}
}

func TestCloseReleasesCurrentTree(t *testing.T) {
	e := newTestEngine(WithInitialState(map[string]any{"title": "v1"}))

	tree := e.Render(&spec.Node{
		Type:  "input",
		Props: map[string]any{"bind": "title"},
	})

	e.Close()
	e.Store().Set("title", "after-close")

	if tree.Props["value"] == "after-close" {
		t.Error("closed engine's tree still subscribed")
	}
}

func TestLazyContainerDefersChildren(t *testing.T) {
	e := newTestEngine()

	tree := e.Render(&spec.Node{
		Type: "list",
		Children: []*spec.Node{
			{Type: "text", ID: "a"},
			{Type: "text", ID: "b"},
		},
	})

	if tree.Children != nil {
		t.Fatal("lazy container children materialized eagerly")
	}
	if tree.Deferred == nil {
		t.Fatal("lazy container has no deferred thunk")
	}

	children := tree.Deferred()
	if len(children) != 2 || children[0].ID != "a" || children[1].ID != "b" {
		t.Errorf("deferred materialization lost order: %v", children)
	}
}

func TestInitialStateSeeding(t *testing.T) {
	seed := map[string]any{"matter": map[string]any{"title": "Acme"}}
	e := newTestEngine(WithInitialState(seed))

	if got := e.Store().Get("matter.title"); got != "Acme" {
		t.Errorf("seeded value = %v, want Acme", got)
	}

	seed["matter"].(map[string]any)["title"] = "mutated"
	if got := e.Store().Get("matter.title"); got != "Acme" {
		t.Error("seed mapping aliased into the engine's store")
	}
}

func TestChangeCallbackMirrorsSets(t *testing.T) {
	var paths []string
	e := newTestEngine(WithChangeCallback(func(path string, value any) {
		paths = append(paths, path)
	}))

	e.Store().Set("a", 1)
	e.Store().Set("a", 1) // no-op
	e.Store().Set("b", 2)

	if len(paths) != 2 || paths[0] != "a" || paths[1] != "b" {
		t.Errorf("callback paths = %v, want [a b]", paths)
	}
}

func TestRegisterComponentPassThrough(t *testing.T) {
	e := newTestEngine()

	e.RegisterComponent(
		registry.Metadata{Type: "timeline", Name: "Timeline", Category: registry.CategoryDomain},
		registry.ImplementationFunc(func(ctx *registry.RenderContext) *view.Node {
			return &view.Node{Kind: view.KindComponent, Type: ctx.Type}
		}),
	)

	tree := e.Render(&spec.Node{Type: "timeline"})
	if tree.Kind != view.KindComponent {
		t.Error("type registered through the engine did not resolve")
	}

	e.UnregisterComponent("timeline")
	tree = e.Render(&spec.Node{Type: "timeline"})
	if tree.Kind != view.KindFallback {
		t.Error("type unregistered through the engine still resolves")
	}
}
