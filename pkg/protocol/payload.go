package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Payload errors.
var (
	ErrMissingPath = errors.New("protocol: state delta missing path")
)

// StateDelta is the payload of a FrameState or FrameStateEcho frame.
type StateDelta struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// StateBatch is the payload of a FrameStateBatch frame. Deltas are
// applied inside one store batch, in order, with the store's
// last-write-wins coalescing.
type StateBatch struct {
	Deltas []StateDelta `json:"deltas"`
}

// Control operations.
const (
	ControlPing  = "ping"
	ControlPong  = "pong"
	ControlClose = "close"
)

// Control is the payload of a FrameControl frame.
type Control struct {
	Op     string `json:"op"`
	Reason string `json:"reason,omitempty"`
}

// Error codes carried by FrameError frames.
const (
	CodeInvalidFrame = "invalid_frame"
	CodeInvalidSpec  = "invalid_spec"
	CodeInvalidState = "invalid_state"
)

// ErrorMessage is the payload of a FrameError frame.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeStateDelta parses a StateDelta payload.
func DecodeStateDelta(payload []byte) (*StateDelta, error) {
	var delta StateDelta
	if err := json.Unmarshal(payload, &delta); err != nil {
		return nil, fmt.Errorf("protocol: decode state delta: %w", err)
	}
	if delta.Path == "" {
		return nil, ErrMissingPath
	}
	return &delta, nil
}

// DecodeStateBatch parses a StateBatch payload. Deltas with an empty path
// fail the batch; partial application would reorder the producer's writes.
func DecodeStateBatch(payload []byte) (*StateBatch, error) {
	var batch StateBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("protocol: decode state batch: %w", err)
	}
	for _, delta := range batch.Deltas {
		if delta.Path == "" {
			return nil, ErrMissingPath
		}
	}
	return &batch, nil
}

// DecodeControl parses a Control payload.
func DecodeControl(payload []byte) (*Control, error) {
	var ctl Control
	if err := json.Unmarshal(payload, &ctl); err != nil {
		return nil, fmt.Errorf("protocol: decode control: %w", err)
	}
	return &ctl, nil
}

// NewStateEcho builds the engine→producer mirror of a successful set.
func NewStateEcho(path string, value any) (*Frame, error) {
	return NewFrame(FrameStateEcho, StateDelta{Path: path, Value: value})
}

// NewError builds an error frame.
func NewError(code, message string) (*Frame, error) {
	return NewFrame(FrameError, ErrorMessage{Code: code, Message: message})
}

// NewControl builds a control frame.
func NewControl(op, reason string) (*Frame, error) {
	return NewFrame(FrameControl, Control{Op: op, Reason: reason})
}
