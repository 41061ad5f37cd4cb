// Package protocol defines the JSON frame envelope spoken between spec
// producers and the engine's session server.
//
// The engine itself is transport-agnostic; this package is the one wire
// discipline the boundary uses. Every message is a Frame with a type tag
// and a type-specific payload: spec pushes, single and batched state
// deltas, outbound state echoes, control messages, errors, and registry
// exports.
//
// Decoding is defensive at the envelope level (size limits, known frame
// types) and delegates document-level tolerance to the spec package:
// an individually malformed spec node degrades at render time, not here.
package protocol
