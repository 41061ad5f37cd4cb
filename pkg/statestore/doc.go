// Package statestore provides the hierarchical, path-addressable reactive
// state space behind rendered component trees.
//
// State is addressed by semantic path rather than by component identity,
// so a value can outlive the component instance that created it, a form
// value survives its parent re-rendering. One store backs one engine
// instance and is garbage-collected with it.
//
// Usage:
//
//	store := statestore.New(statestore.WithInitialState(map[string]any{
//	    "matter": map[string]any{"title": "Acme v. Initech"},
//	}))
//
//	unsubscribe := store.Subscribe("matter.title", func(v any) {
//	    // invoked synchronously after each change
//	})
//	defer unsubscribe()
//
//	store.Batch(func() {
//	    store.Set("matter.title", "Acme v. Initech (amended)")
//	    store.Set("matter.status", "review")
//	})
//
// Writes that leave a value deep-equal to what is stored are no-ops and
// notify nobody. Subscribers of a written path receive its new value;
// subscribers of each strict ancestor receive the current value at their
// own path. Replace and Clear notify every subscribed path instead, since
// wholesale substitution cannot economically diff the prior tree.
package statestore
