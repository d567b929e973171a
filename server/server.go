// Package server implements the server dispatcher: poll for an inbound
// request, route it to a per-command handler, and transmit the response
// the handler built.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loopholelabs/logging/types"

	"github.com/compico/mirlib/command"
	"github.com/compico/mirlib/fixture"
	"github.com/compico/mirlib/internal/metrics"
	"github.com/compico/mirlib/internal/obslog"
	"github.com/compico/mirlib/protocol"
	"github.com/compico/mirlib/radio"
)

// BroadcastAddress is the destination address a request never gets a
// response to, even when a handler ran.
const BroadcastAddress uint16 = 0xFFFF

// DefaultPollTimeout is how long one Poll call waits for an inbound frame
// before returning idle.
const DefaultPollTimeout = 100 * time.Millisecond

// Server is the role-specific type driving the dispatch loop over a Link it
// exclusively owns.
type Server struct {
	addr   uint16
	status uint32
	gen    command.Generation

	link  radio.Link
	clock radio.Clock

	handlers map[byte]Handler

	log    types.Logger
	metric metrics.Sink
}

// Option configures a Server at construction time.
type Option func(*Server)

func WithServerStatus(status uint32) Option       { return func(s *Server) { s.status = status } }
func WithServerLogger(l types.Logger) Option      { return func(s *Server) { s.log = l } }
func WithServerMetrics(m metrics.Sink) Option     { return func(s *Server) { s.metric = m } }
func WithFixtures(f *fixture.ServerFixtures) Option {
	return func(s *Server) { registerDefaultHandlers(s, f) }
}

// New constructs a Server at addr, answering as gen, talking over link
// using clock for its poll deadline. Without a WithFixtures option the
// Server has no registered handlers and drops every request as
// NoHandlerError; callers that want the five built-in commands answered
// must pass WithFixtures(fixture.Default()) or their own fixtures.
func New(addr uint16, gen command.Generation, link radio.Link, clock radio.Clock, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		gen:      gen,
		link:     link,
		clock:    clock,
		handlers: make(map[byte]Handler),
		log:      obslog.Noop(),
		metric:   metrics.NoopSink,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterHandler installs (or replaces) the handler for code, for hosts
// extending the catalog beyond the five built-in commands.
func (s *Server) RegisterHandler(code byte, h Handler) {
	s.handlers[code] = h
}

func (s *Server) Address() uint16               { return s.addr }
func (s *Server) Generation() command.Generation { return s.gen }
func (s *Server) SetStatus(status uint32)        { s.status = status }

// Poll runs one dispatch cycle: receive with a short timeout, and if a
// frame arrived, unpack/validate/dispatch/respond.
// A nil error with handled=false means no frame arrived (idle); it is not
// a failure. A ctx deadline sooner than DefaultPollTimeout shortens the
// wait; cancellation without a deadline is not observed during the wait.
func (s *Server) Poll(ctx context.Context) (handled bool, err error) {
	frame, pollErr := s.pollOnce(ctx)
	if pollErr != nil {
		if pollErr == radio.ErrTimeout {
			return false, nil
		}
		return false, fmt.Errorf("poll: %w", pollErr)
	}

	req, err := protocol.Unpack(frame)
	if err != nil {
		s.log.Warn().Err(err).Msg("dropping unparseable frame")
		return false, nil
	}

	if !req.Request {
		s.log.Debug().Msg("dropping non-request frame")
		return false, ErrNotARequest
	}

	if req.Dest != s.addr && req.Dest != BroadcastAddress {
		s.log.Debug().Uint64("dest", uint64(req.Dest)).Msg("dropping misaddressed request")
		return false, nil
	}

	handler, ok := s.handlers[req.Command]
	if !ok {
		s.metric.ObserveRequest(req.Command, "no_handler")
		s.log.Warn().Str("command", fmt.Sprintf("%#02x", req.Command)).Msg("no handler registered")
		return false, &NoHandlerError{Code: req.Command}
	}

	if cmd, ok := command.Lookup(req.Command); ok {
		if verr := command.ValidateRequestSize(cmd, s.gen, req.Payload); verr != nil {
			s.metric.ObserveRequest(req.Command, "rejected")
			s.log.Warn().Str("command", fmt.Sprintf("%#02x", req.Command)).Err(verr).Msg("request payload too short")
			return false, &HandlerRejectedError{Code: req.Command, Err: verr}
		}
	}

	buf := make([]byte, protocol.MaxPayloadSize)
	n, herr := handler(req, buf)
	if herr != nil {
		s.metric.ObserveRequest(req.Command, "rejected")
		s.log.Warn().Str("command", fmt.Sprintf("%#02x", req.Command)).Err(herr).Msg("handler rejected request")
		return false, &HandlerRejectedError{Code: req.Command, Err: herr}
	}

	if req.Dest == BroadcastAddress {
		s.metric.ObserveRequest(req.Command, "broadcast_no_reply")
		s.log.Debug().Str("command", fmt.Sprintf("%#02x", req.Command)).Msg("handled broadcast, no reply")
		return true, nil
	}

	resp := &protocol.Packet{
		Request: false,
		Version: req.Version,
		Encoded: req.Encoded,
		Dest:    req.Src,
		Src:     s.addr,
		Command: req.Command,
		Auth:    s.status,
		Payload: buf[:n],
	}

	respFrame, err := protocol.Pack(resp)
	if err != nil {
		return false, fmt.Errorf("pack response: %w", err)
	}

	if err := s.link.Transmit(respFrame); err != nil {
		s.metric.ObserveRequest(req.Command, "transmit_error")
		return false, fmt.Errorf("transmit response: %w", err)
	}

	s.metric.ObserveRequest(req.Command, "ok")
	s.log.Debug().Str("command", fmt.Sprintf("%#02x", req.Command)).Uint64("src", uint64(req.Src)).Msg("dispatched")
	return true, nil
}

func (s *Server) pollOnce(ctx context.Context) ([]byte, error) {
	timeout := DefaultPollTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, radio.ErrTimeout
	}
	return s.link.PollFrame(timeout)
}

// Run drives Poll in a loop until ctx is canceled: the caller owns the
// loop, the Server owns only one dispatch cycle at a time.
func (s *Server) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := s.Poll(ctx); err != nil && !isDropDecision(err) {
			return err
		}
	}
}

// isDropDecision reports whether err represents a per-packet drop already
// recorded by Poll, as opposed to a transport-level failure Run should
// propagate and stop on.
func isDropDecision(err error) bool {
	if errors.Is(err, ErrNotARequest) {
		return true
	}
	var noHandler *NoHandlerError
	var rejected *HandlerRejectedError
	switch {
	case asType(err, &noHandler):
		return true
	case asType(err, &rejected):
		return true
	default:
		return false
	}
}

func asType[T error](err error, target *T) bool {
	if e, ok := err.(T); ok {
		*target = e
		return true
	}
	return false
}
