// Package view defines the rendered view tree the engine hands to its
// rendering host.
//
// A view.Node is the output side of spec rendering: the engine resolves a
// spec node against the component registry and the resolved implementation
// emits one of these. The host walks the tree and materializes native
// widgets from it; the engine never draws.
//
// Nodes carry release hooks so that component implementations holding
// state-store subscriptions can be torn down when a tree is replaced.
package view
