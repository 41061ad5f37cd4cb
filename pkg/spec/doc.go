// Package spec defines the UI specification document the engine consumes.
//
// A spec is a tree of Nodes, each naming a component type, its properties,
// animation hints, and nested children. Specs are transport-agnostic;
// Decode handles the JSON form that producers emit over the wire.
//
// Decoding is deliberately permissive: only unparseable JSON, a null
// document, or excessive nesting fail the whole document. Everything
// else (unknown types, missing types, unexpected props) degrades
// per-node at render time.
package spec
