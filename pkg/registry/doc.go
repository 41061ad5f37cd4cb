// Package registry provides the component catalog that decouples the set
// of renderable node types from the engine.
//
// A registration has two halves keyed by a string type tag: serializable
// Metadata (category, declared props, version) and an opaque
// Implementation. Has reports a type renderable only when both halves are
// present; the renderer's fallback path covers every other case, so
// registering the halves out of order is tolerated rather than an error.
//
// Default returns a process-wide catalog seeded with the built-in
// vocabulary; New constructs an isolated one for tests and embedders.
// Clear is a reset to the built-ins, never a wipe to empty.
package registry
