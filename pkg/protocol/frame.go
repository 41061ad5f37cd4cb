package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Frame limits.
const (
	// MaxFrameSize is the maximum encoded frame size in bytes. Spec
	// documents for a page region comfortably fit in a fraction of this.
	MaxFrameSize = 1 << 20
)

// FrameType identifies the type of frame.
type FrameType string

const (
	FrameSpec       FrameType = "spec"        // Producer → engine: replace the current tree
	FrameState      FrameType = "state"       // Producer → engine: single path delta
	FrameStateBatch FrameType = "state_batch" // Producer → engine: coalesced deltas
	FrameStateEcho  FrameType = "state_echo"  // Engine → producer: mirror of a successful set
	FrameControl    FrameType = "control"     // Either direction: ping, pong, close
	FrameError      FrameType = "error"       // Engine → producer: frame-level error
	FrameRegistry   FrameType = "registry"    // Engine → producer: component catalog export
)

// Known reports whether the frame type is one this package defines.
func (ft FrameType) Known() bool {
	switch ft {
	case FrameSpec, FrameState, FrameStateBatch, FrameStateEcho,
		FrameControl, FrameError, FrameRegistry:
		return true
	}
	return false
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame too large")
	ErrUnknownFrameType = errors.New("protocol: unknown frame type")
	ErrEmptyFrame       = errors.New("protocol: empty frame")
)

// Frame is the JSON envelope every message travels in. Payload shape
// depends on Type; Seq is optional and producer-assigned.
type Frame struct {
	Type    FrameType       `json:"type"`
	Seq     uint64          `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode serializes the frame.
func (f *Frame) Encode() ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode frame: %w", err)
	}
	if len(data) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	return data, nil
}

// DecodeFrame parses an encoded frame, enforcing size limits and a known
// frame type. Payload contents are validated by the per-type decoders.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFrame
	}
	if len(data) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("protocol: decode frame: %w", err)
	}
	if !frame.Type.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrameType, frame.Type)
	}
	return &frame, nil
}

// NewFrame builds a frame around a marshaled payload.
func NewFrame(ft FrameType, payload any) (*Frame, error) {
	frame := &Frame{Type: ft}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode %s payload: %w", ft, err)
		}
		frame.Payload = data
	}
	return frame, nil
}
