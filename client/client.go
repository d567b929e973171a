// Package client implements the client transactor: build a request,
// transmit it, await the matching response, and surface a typed result
// or a distinguishable error.
package client

import (
	"fmt"
	"time"

	"github.com/loopholelabs/logging/types"

	"github.com/compico/mirlib/command"
	"github.com/compico/mirlib/internal/metrics"
	"github.com/compico/mirlib/internal/obslog"
	"github.com/compico/mirlib/protocol"
	"github.com/compico/mirlib/radio"
)

// DefaultTimeout is the receive timeout applied when none is set.
const DefaultTimeout = 5000 * time.Millisecond

// Client is the role-specific type driving transactions over a Link it
// exclusively owns.
type Client struct {
	addr     uint16
	password uint32
	timeout  time.Duration
	gen      command.Generation

	link   radio.Link
	clock  radio.Clock
	log    types.Logger
	metric metrics.Sink
}

// Option configures a Client at construction time.
type Option func(*Client)

func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }
func WithPassword(p uint32) Option       { return func(c *Client) { c.password = p } }
func WithGeneration(g command.Generation) Option {
	return func(c *Client) { c.gen = g }
}
func WithLogger(l types.Logger) Option  { return func(c *Client) { c.log = l } }
func WithMetrics(m metrics.Sink) Option { return func(c *Client) { c.metric = m } }

// New constructs a Client at addr, talking over link using clock for
// timeouts.
func New(addr uint16, link radio.Link, clock radio.Clock, opts ...Option) *Client {
	c := &Client{
		addr:    addr,
		timeout: DefaultTimeout,
		gen:     command.GenerationUnknown,
		link:    link,
		clock:   clock,
		log:     obslog.Noop(),
		metric:  metrics.NoopSink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetPassword(p uint32)              { c.password = p }
func (c *Client) SetTimeout(d time.Duration)        { c.timeout = d }
func (c *Client) SetGeneration(g command.Generation) { c.gen = g }
func (c *Client) Generation() command.Generation     { return c.gen }
func (c *Client) Address() uint16                    { return c.addr }

// Send executes one request/response transaction against target. At most
// one packet is transmitted; no retries, no speculative reads.
func (c *Client) Send(cmd command.Command, target uint16) (command.Response, error) {
	start := time.Now()
	resp, err := c.send(cmd, target)
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.metric.ObserveTransaction(cmd.Code(), result, time.Since(start).Seconds())
	return resp, err
}

func (c *Client) send(cmd command.Command, target uint16) (command.Response, error) {
	if err := command.CheckSupported(cmd, c.gen); err != nil {
		c.log.Warn().Str("command", fmt.Sprintf("%#02x", cmd.Code())).Msg("unsupported for generation")
		return nil, err
	}

	buf := make([]byte, protocol.MaxPayloadSize)
	n, err := cmd.EncodeRequest(c.gen, buf)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req := &protocol.Packet{
		Request: true,
		Dest:    target,
		Src:     c.addr,
		Command: cmd.Code(),
		Auth:    c.password,
		Payload: buf[:n],
	}

	frame, err := protocol.Pack(req)
	if err != nil {
		return nil, fmt.Errorf("pack request: %w", err)
	}

	c.log.Debug().Str("command", fmt.Sprintf("%#02x", cmd.Code())).Uint64("target", uint64(target)).Msg("send")
	if err := c.link.Transmit(frame); err != nil {
		return nil, fmt.Errorf("transmit: %w", err)
	}

	respFrame, err := c.pollWithDeadline()
	if err != nil {
		c.log.Warn().Err(err).Msg("receive timeout")
		return nil, fmt.Errorf("%w: %v", ErrReceiveTimeout, err)
	}

	resp, err := protocol.Unpack(respFrame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}

	if err := c.validate(resp, cmd.Code(), target); err != nil {
		return nil, err
	}

	if err := command.ValidateResponseSize(cmd, c.gen, resp.Payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadDecode, err)
	}

	decoded, err := cmd.DecodeResponse(c.gen, resp.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadDecode, err)
	}
	return decoded, nil
}

func (c *Client) pollWithDeadline() ([]byte, error) {
	deadline := c.clock.NowMillis() + c.timeout.Milliseconds()
	for {
		remaining := deadline - c.clock.NowMillis()
		if remaining <= 0 {
			return nil, ErrReceiveTimeout
		}
		frame, err := c.link.PollFrame(time.Duration(remaining) * time.Millisecond)
		if err == nil {
			return frame, nil
		}
		if c.clock.NowMillis() >= deadline {
			return nil, ErrReceiveTimeout
		}
	}
}

func (c *Client) validate(resp *protocol.Packet, wantCommand byte, target uint16) error {
	if resp.Request {
		return &ResponseMismatchError{Field: "direction", Got: "request", Want: "response"}
	}
	if resp.Command != wantCommand {
		return &ResponseMismatchError{Field: "command", Got: resp.Command, Want: wantCommand}
	}
	if resp.Src != target {
		return &ResponseMismatchError{Field: "src_addr", Got: resp.Src, Want: target}
	}
	if resp.Dest != c.addr {
		return &ResponseMismatchError{Field: "dest_addr", Got: resp.Dest, Want: c.addr}
	}
	return nil
}
