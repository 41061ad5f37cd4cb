// Package server is the transport boundary in front of the engine: a
// WebSocket endpoint where spec producers push UI documents and state
// deltas, one engine instance per connection.
//
// Inbound frames are the protocol package's JSON envelope. Spec frames
// replace the session's view tree; state frames flow into the session's
// store (batched frames inside one store transaction); every successful
// store write is mirrored back to the producer as a state_echo frame.
// Frame-level problems are answered with error frames and the session
// continues; the degradation posture matches the engine's.
//
// Alongside /ws the server exposes /healthz, Prometheus metrics on
// /metrics, and the registry's metadata export on /api/components.
package server
