package statestore

import (
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	s := New()

	value := map[string]any{"name": "Ann", "tags": []any{"a", "b"}}
	s.Set("user", value)

	got := s.Get("user")
	if !Equal(got, value) {
		t.Errorf("Get(user) = %v, want %v", got, value)
	}

	// The store must never hand back an aliasing reference.
	got.(map[string]any)["name"] = "mutated"
	if s.Get("user.name") != "Ann" {
		t.Error("mutating a read value leaked into the store")
	}
	value["name"] = "mutated too"
	if s.Get("user.name") != "Ann" {
		t.Error("mutating the written value leaked into the store")
	}
}

func TestGetMissingReturnsDefault(t *testing.T) {
	s := New()

	if got := s.Get("nope"); got != nil {
		t.Errorf("Get(nope) = %v, want nil", got)
	}
	if got := s.GetOr("nope.deeper", "fallback"); got != "fallback" {
		t.Errorf("GetOr = %v, want fallback", got)
	}

	// Descending through a non-mapping leaf is absence, not a panic.
	s.Set("leaf", 42)
	if got := s.GetOr("leaf.below", "d"); got != "d" {
		t.Errorf("GetOr(leaf.below) = %v, want d", got)
	}
}

func TestMalformedPathsAreNoOps(t *testing.T) {
	s := New()

	for _, path := range []string{"", ".", "a..b", ".a", "a."} {
		s.Set(path, 1)
		s.Delete(path)
		if got := s.GetOr(path, "def"); got != "def" {
			t.Errorf("GetOr(%q) = %v, want def", path, got)
		}
	}

	if len(s.Snapshot()) != 0 {
		t.Errorf("malformed writes mutated the store: %v", s.Snapshot())
	}
}

func TestSetCreatesIntermediates(t *testing.T) {
	s := New()

	s.Set("a.b.c", 1)
	if got := s.Get("a.b.c"); got != 1 {
		t.Errorf("Get(a.b.c) = %v, want 1", got)
	}

	mid, ok := s.Get("a.b").(map[string]any)
	if !ok {
		t.Fatalf("intermediate a.b is %T, want mapping", s.Get("a.b"))
	}
	if mid["c"] != 1 {
		t.Errorf("a.b = %v", mid)
	}
}

func TestSetOverwritesNonMappingOnDescent(t *testing.T) {
	s := New()

	s.Set("a", []any{1, 2, 3})
	s.Set("a.b", 1)

	if got := s.Get("a.b"); got != 1 {
		t.Errorf("Get(a.b) = %v, want 1", got)
	}
}

func TestNoOpSetNotifiesNobody(t *testing.T) {
	s := New(WithInitialState(map[string]any{
		"user": map[string]any{"name": "Ann", "roles": []any{"admin"}},
	}))

	calls := 0
	s.Subscribe("user", func(any) { calls++ })
	s.Subscribe("user.name", func(any) { calls++ })

	s.Set("user.name", "Ann")
	s.Set("user", map[string]any{"name": "Ann", "roles": []any{"admin"}})

	if calls != 0 {
		t.Errorf("deep-equal writes produced %d notifications, want 0", calls)
	}
}

func TestSubscribeReceivesNewValue(t *testing.T) {
	s := New(WithInitialState(map[string]any{"count": 0}))

	var received []any
	s.Subscribe("count", func(v any) { received = append(received, v) })

	s.Set("count", 1)

	if len(received) != 1 || received[0] != 1 {
		t.Errorf("received %v, want [1]", received)
	}
	if got := s.Get("count"); got != 1 {
		t.Errorf("Get(count) = %v, want 1", got)
	}
}

func TestListenerSeesStoreAlreadyUpdated(t *testing.T) {
	s := New()

	var inside any
	s.Subscribe("x", func(any) { inside = s.Get("x") })

	s.Set("x", "done")
	if inside != "done" {
		t.Errorf("listener observed %v, want done", inside)
	}
}

func TestAncestorNotification(t *testing.T) {
	s := New()

	var userValue any
	userCalls := 0
	s.Subscribe("user", func(v any) {
		userCalls++
		userValue = v
	})

	var nameValue any
	s.Subscribe("user.name", func(v any) { nameValue = v })

	// A grandchild write must not reach descendant subscribers.
	leafCalls := 0
	s.Subscribe("user.name.first", func(any) { leafCalls++ })

	s.Set("user.name", "Ann")

	if nameValue != "Ann" {
		t.Errorf("user.name listener got %v, want Ann", nameValue)
	}
	if userCalls != 1 {
		t.Fatalf("user listener called %d times, want 1", userCalls)
	}
	m, ok := userValue.(map[string]any)
	if !ok || m["name"] != "Ann" {
		t.Errorf("user listener got %v, want mapping with name=Ann", userValue)
	}
	if leafCalls != 0 {
		t.Errorf("descendant listener called %d times on ancestor write, want 0", leafCalls)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := New()

	aCalls, bCalls := 0, 0
	unsubscribe := s.Subscribe("x", func(any) { aCalls++ })
	s.Subscribe("x", func(any) { bCalls++ })

	unsubscribe()
	unsubscribe()
	unsubscribe()

	s.Set("x", 1)

	if aCalls != 0 {
		t.Errorf("unsubscribed listener called %d times", aCalls)
	}
	if bCalls != 1 {
		t.Errorf("remaining listener called %d times, want 1", bCalls)
	}
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	s := New()

	var unsubscribe func()
	first := 0
	second := 0

	unsubscribe = s.Subscribe("x", func(any) {
		first++
		unsubscribe()
	})
	s.Subscribe("x", func(any) { second++ })

	s.Set("x", 1)
	s.Set("x", 2)

	if first != 1 {
		t.Errorf("self-removing listener called %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("stable listener called %d times, want 2", second)
	}
}

func TestPanickingListenerDoesNotBlockOthers(t *testing.T) {
	s := New()

	called := false
	s.Subscribe("x", func(any) { panic("listener bug") })
	s.Subscribe("x", func(any) { called = true })

	s.Set("x", 1) // must not panic the writer

	if !called {
		t.Error("listener after a panicking one was not invoked")
	}
}

func TestBatchCoalescesLastWriteWins(t *testing.T) {
	s := New()

	var received []any
	s.Subscribe("a", func(v any) { received = append(received, v) })

	s.BatchStart()
	s.Set("a", 1)
	s.Set("a", 2)
	s.BatchEnd()

	if len(received) != 1 || received[0] != 2 {
		t.Errorf("received %v, want [2]", received)
	}
	if got := s.Get("a"); got != 2 {
		t.Errorf("Get(a) = %v, want 2", got)
	}
}

func TestBatchPreservesOrderAcrossPaths(t *testing.T) {
	s := New()

	var order []string
	s.Subscribe("a", func(any) { order = append(order, "a") })
	s.Subscribe("b", func(any) { order = append(order, "b") })

	s.Batch(func() {
		s.Set("a", 1)
		s.Set("b", 1)
		s.Set("a", 2)
	})

	// a was superseded, so its surviving write replays at its final
	// position: after b.
	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Errorf("notification order = %v, want [b a]", order)
	}
}

func TestBatchNesting(t *testing.T) {
	s := New()

	calls := 0
	s.Subscribe("x", func(any) { calls++ })

	s.BatchStart()
	s.BatchStart()
	s.Set("x", 1)
	s.BatchEnd()

	if calls != 0 {
		t.Fatal("inner BatchEnd flushed before outermost close")
	}
	if s.Get("x") != nil {
		t.Fatal("buffered write applied before outermost close")
	}

	s.BatchEnd()

	if calls != 1 {
		t.Errorf("listener called %d times, want 1", calls)
	}
	if got := s.Get("x"); got != 1 {
		t.Errorf("Get(x) = %v, want 1", got)
	}
}

func TestBatchedDelete(t *testing.T) {
	s := New(WithInitialState(map[string]any{"x": 1, "y": 2}))

	var xValues []any
	s.Subscribe("x", func(v any) { xValues = append(xValues, v) })

	s.Batch(func() {
		s.Set("x", 10)
		s.Delete("x") // last write to x wins: the delete
		s.Set("y", 20)
	})

	if s.Get("x") != nil {
		t.Errorf("Get(x) = %v, want nil after batched delete", s.Get("x"))
	}
	if len(xValues) != 1 || xValues[0] != nil {
		t.Errorf("x notifications = %v, want [nil]", xValues)
	}
	if got := s.Get("y"); got != 20 {
		t.Errorf("Get(y) = %v, want 20", got)
	}
}

func TestUnmatchedBatchEndIsHarmless(t *testing.T) {
	s := New()
	s.BatchEnd() // no matching BatchStart

	calls := 0
	s.Subscribe("x", func(any) { calls++ })
	s.Set("x", 1)

	if calls != 1 {
		t.Errorf("store wedged after stray BatchEnd: %d calls, want 1", calls)
	}
}

func TestDelete(t *testing.T) {
	s := New(WithInitialState(map[string]any{
		"user": map[string]any{"name": "Ann"},
	}))

	var received []any
	calls := 0
	s.Subscribe("user.name", func(v any) {
		calls++
		received = append(received, v)
	})

	s.Delete("user.name")

	if calls != 1 || received[0] != nil {
		t.Errorf("delete notified %d times with %v, want once with nil", calls, received)
	}
	if s.Get("user.name") != nil {
		t.Error("value survived delete")
	}

	// Deleting again, or deleting under a missing parent, is a no-op.
	s.Delete("user.name")
	s.Delete("ghost.key")
	if calls != 1 {
		t.Errorf("no-op deletes notified: %d calls", calls)
	}
}

func TestReplaceNotifiesEverySubscribedPath(t *testing.T) {
	s := New(WithInitialState(map[string]any{"x": 1, "y": 2}))

	got := map[string]any{}
	s.Subscribe("x", func(v any) { got["x"] = v })
	s.Subscribe("y", func(v any) { got["y"] = v })

	s.Replace(map[string]any{"x": 10})

	if got["x"] != 10 {
		t.Errorf("x notified with %v, want 10", got["x"])
	}
	if v, ok := got["y"]; !ok || v != nil {
		t.Errorf("y notified with %v (present=%v), want nil", v, ok)
	}
}

func TestClearNotifiesWithAbsentValues(t *testing.T) {
	s := New(WithInitialState(map[string]any{"x": 1, "y": 2}))

	notified := map[string]any{}
	s.Subscribe("x", func(v any) { notified["x"] = v })
	s.Subscribe("y", func(v any) { notified["y"] = v })

	s.Clear()

	if len(s.Snapshot()) != 0 {
		t.Errorf("store not empty after Clear: %v", s.Snapshot())
	}
	for _, path := range []string{"x", "y"} {
		if v, ok := notified[path]; !ok || v != nil {
			t.Errorf("%s notified with %v (present=%v), want nil", path, v, ok)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := New(WithInitialState(map[string]any{
		"user": map[string]any{"name": "Ann"},
	}))

	snap := s.Snapshot()
	snap["user"].(map[string]any)["name"] = "mutated"

	if s.Get("user.name") != "Ann" {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestInitialStateIsCloned(t *testing.T) {
	seed := map[string]any{"user": map[string]any{"name": "Ann"}}
	s := New(WithInitialState(seed))

	seed["user"].(map[string]any)["name"] = "mutated"

	if s.Get("user.name") != "Ann" {
		t.Error("mutating the seed after construction leaked into the store")
	}
}

func TestChangeCallback(t *testing.T) {
	type change struct {
		path  string
		value any
	}
	var changes []change

	s := New(WithChangeCallback(func(path string, value any) {
		changes = append(changes, change{path, value})
	}))

	s.Set("a", 1)
	s.Set("a", 1) // no-op, must not fire
	s.Set("b.c", "x")

	if len(changes) != 2 {
		t.Fatalf("callback fired %d times, want 2: %v", len(changes), changes)
	}
	if changes[0].path != "a" || changes[0].value != 1 {
		t.Errorf("first change = %+v", changes[0])
	}
	if changes[1].path != "b.c" || changes[1].value != "x" {
		t.Errorf("second change = %+v", changes[1])
	}
}

func TestCountScenario(t *testing.T) {
	s := New(WithInitialState(map[string]any{"count": 0}))

	calls := 0
	var got any
	s.Subscribe("count", func(v any) {
		calls++
		got = v
	})

	s.Set("count", 1)

	if calls != 1 {
		t.Errorf("subscriber called %d times, want exactly 1", calls)
	}
	if got != 1 {
		t.Errorf("subscriber received %v, want 1", got)
	}
	if s.Get("count") != 1 {
		t.Errorf("Get(count) = %v, want 1", s.Get("count"))
	}
}
