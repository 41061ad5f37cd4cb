package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/counselkit/agentui/pkg/engine"
	"github.com/counselkit/agentui/pkg/protocol"
	"github.com/counselkit/agentui/pkg/spec"
)

// Session is one producer connection and the engine instance behind it.
// The engine, its state store, and the live view tree share the session's
// lifetime; the component registry is shared across sessions.
type Session struct {
	ID        string
	CreatedAt time.Time

	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  atomic.Bool

	engine *engine.Engine
	config Config
	logger *slog.Logger
	tracer trace.Tracer

	manager *Manager
}

// newSession wires an engine to a producer socket. The engine's change
// callback mirrors every successful state write back to the producer as a
// state_echo frame.
func newSession(id string, conn *websocket.Conn, cfg Config, mgr *Manager, tracer trace.Tracer) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		conn:      conn,
		config:    cfg,
		logger:    cfg.Logger.With("session", id),
		tracer:    tracer,
		manager:   mgr,
	}

	s.engine = engine.New(
		engine.WithRegistry(cfg.Registry),
		engine.WithLogger(s.logger),
		engine.WithDebug(cfg.Debug),
		engine.WithChangeCallback(s.echoState),
	)

	return s
}

// Engine returns the engine instance backing this session.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// ReadLoop continuously reads frames from the producer until the
// connection closes. Frame-level problems are answered with error frames
// and the loop continues; only socket errors end the session.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("frame decode error", "error", err)
			recordFrameError("decode")
			s.sendError(protocol.CodeInvalidFrame, err.Error())
			continue
		}

		recordFrame(string(frame.Type))

		switch frame.Type {
		case protocol.FrameSpec:
			s.handleSpec(frame.Payload)

		case protocol.FrameState:
			s.handleState(frame.Payload)

		case protocol.FrameStateBatch:
			s.handleStateBatch(frame.Payload)

		case protocol.FrameControl:
			if s.handleControl(frame.Payload) {
				return
			}

		default:
			// Engine-to-producer frame types arriving inbound are skipped,
			// never fatal.
			s.logger.Warn("unexpected inbound frame type", "type", frame.Type)
		}
	}
}

// handleSpec decodes a spec document and replaces the session's tree.
func (s *Session) handleSpec(payload []byte) {
	_, span := s.tracer.Start(context.Background(), "agentui.spec.apply")
	defer span.End()

	start := time.Now()

	root, err := spec.Decode(payload)
	if err != nil {
		s.logger.Warn("spec decode error", "error", err)
		recordFrameError("spec")
		s.sendError(protocol.CodeInvalidSpec, err.Error())
		return
	}

	tree := s.engine.Render(root)
	fallbacks := tree.Fallbacks()

	span.SetAttributes(
		attribute.Int("agentui.spec.nodes", root.Count()),
		attribute.Int("agentui.spec.fallbacks", fallbacks),
	)
	recordSpecApplied(root.Count(), fallbacks, time.Since(start).Seconds())

	s.logger.Info("spec applied",
		"nodes", root.Count(), "fallbacks", fallbacks)
}

// handleState applies a single path delta to the session's store.
func (s *Session) handleState(payload []byte) {
	delta, err := protocol.DecodeStateDelta(payload)
	if err != nil {
		s.logger.Warn("state decode error", "error", err)
		recordFrameError("state")
		s.sendError(protocol.CodeInvalidState, err.Error())
		return
	}

	s.engine.Store().Set(delta.Path, delta.Value)
	recordStateSets(1)
}

// handleStateBatch applies coalesced deltas inside one store batch.
func (s *Session) handleStateBatch(payload []byte) {
	batch, err := protocol.DecodeStateBatch(payload)
	if err != nil {
		s.logger.Warn("state batch decode error", "error", err)
		recordFrameError("state_batch")
		s.sendError(protocol.CodeInvalidState, err.Error())
		return
	}

	store := s.engine.Store()
	store.Batch(func() {
		for _, delta := range batch.Deltas {
			store.Set(delta.Path, delta.Value)
		}
	})
	recordStateSets(len(batch.Deltas))
}

// handleControl answers pings and honors closes. Returns true when the
// session should end.
func (s *Session) handleControl(payload []byte) bool {
	ctl, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Warn("control decode error", "error", err)
		return false
	}

	switch ctl.Op {
	case protocol.ControlPing:
		if frame, err := protocol.NewControl(protocol.ControlPong, ""); err == nil {
			s.sendFrame(frame)
		}
	case protocol.ControlPong:
		// Producer answered our ping; nothing to do.
	case protocol.ControlClose:
		s.logger.Info("producer closing", "reason", ctl.Reason)
		return true
	}
	return false
}

// echoState mirrors a successful state write back to the producer.
func (s *Session) echoState(path string, value any) {
	frame, err := protocol.NewStateEcho(path, value)
	if err != nil {
		s.logger.Error("state echo encode error", "path", path, "error", err)
		return
	}
	s.sendFrame(frame)
}

// sendError sends an error frame; encoding failures are logged only.
func (s *Session) sendError(code, message string) {
	frame, err := protocol.NewError(code, message)
	if err != nil {
		s.logger.Error("error frame encode error", "error", err)
		return
	}
	s.sendFrame(frame)
}

// sendFrame writes one frame with the configured deadline. Writes are
// serialized; gorilla connections allow one concurrent writer.
func (s *Session) sendFrame(frame *protocol.Frame) {
	if s.closed.Load() {
		return
	}

	data, err := frame.Encode()
	if err != nil {
		s.logger.Error("frame encode error", "type", frame.Type, "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Warn("write error", "error", err)
		recordFrameError("write")
	}
}

// Close tears down the session: the socket, the engine's tree
// subscriptions, and the manager registration. Idempotent.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.conn.Close()
	s.engine.Close()
	s.manager.remove(s.ID)
	recordSessionClose()

	s.logger.Info("session closed")
}
