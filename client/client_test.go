package client

import (
	"errors"
	"testing"
	"time"

	"github.com/compico/mirlib/command"
	"github.com/compico/mirlib/protocol"
	"github.com/compico/mirlib/radio"

	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time deterministically instead of sleeping.
type fakeClock struct{ ms int64 }

func (c *fakeClock) NowMillis() int64 { return c.ms }
func (c *fakeClock) advance(d time.Duration) { c.ms += d.Milliseconds() }

// scriptedLink is a radio.Link whose PollFrame returns queued frames (or
// radio.ErrTimeout once the queue is empty) and whose Transmit records what
// was sent for assertions.
type scriptedLink struct {
	sent    [][]byte
	queue   [][]byte
	timeout bool // if true, PollFrame always returns radio.ErrTimeout
	clock   *fakeClock // when set, a timed-out poll advances this clock by the requested wait
}

func (l *scriptedLink) Transmit(frame []byte) error {
	l.sent = append(l.sent, frame)
	return nil
}

func (l *scriptedLink) PollFrame(d time.Duration) ([]byte, error) {
	if l.timeout || len(l.queue) == 0 {
		if l.clock != nil {
			l.clock.advance(d)
		}
		return nil, radio.ErrTimeout
	}
	frame := l.queue[0]
	l.queue = l.queue[1:]
	return frame, nil
}

func (l *scriptedLink) Reset() error { return nil }

func mustPack(t *testing.T, p *protocol.Packet) []byte {
	t.Helper()
	frame, err := protocol.Pack(p)
	require.NoError(t, err)
	return frame
}

func TestSendPingSuccess(t *testing.T) {
	payload := make([]byte, 4)
	protocol.PutUint16(payload[0:2], 0x0102)
	protocol.PutUint16(payload[2:4], 0x0042)

	link := &scriptedLink{queue: [][]byte{mustPack(t, &protocol.Packet{
		Request: false,
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodePing,
		Payload: payload,
	})}}

	c := New(0x0001, link, &fakeClock{})
	resp, err := c.Ping(0x0042)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), resp.FirmwareVersion)
	require.Equal(t, uint16(0x0042), resp.DeviceAddress)
	require.Len(t, link.sent, 1)
}

func TestSendReceiveTimeout(t *testing.T) {
	clock := &fakeClock{}
	link := &scriptedLink{timeout: true, clock: clock}
	c := New(0x0001, link, clock, WithTimeout(10*time.Millisecond))

	_, err := c.Ping(0x0042)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrReceiveTimeout))
}

func TestSendRejectsWrongSrcAddr(t *testing.T) {
	link := &scriptedLink{queue: [][]byte{mustPack(t, &protocol.Packet{
		Request: false,
		Dest:    0x0001,
		Src:     0x0099, // not the address we sent to
		Command: command.CodePing,
		Payload: make([]byte, 4),
	})}}

	c := New(0x0001, link, &fakeClock{})
	_, err := c.Ping(0x0042)
	require.Error(t, err)
	var mismatch *ResponseMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, "src_addr", mismatch.Field)
}

func TestSendRejectsWrongDestAddr(t *testing.T) {
	link := &scriptedLink{queue: [][]byte{mustPack(t, &protocol.Packet{
		Request: false,
		Dest:    0x0009, // not our own address
		Src:     0x0042,
		Command: command.CodePing,
		Payload: make([]byte, 4),
	})}}

	c := New(0x0001, link, &fakeClock{})
	_, err := c.Ping(0x0042)
	require.Error(t, err)
	var mismatch *ResponseMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, "dest_addr", mismatch.Field)
}

func TestSendRejectsWrongCommand(t *testing.T) {
	link := &scriptedLink{queue: [][]byte{mustPack(t, &protocol.Packet{
		Request: false,
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodeReadDateTime, // we asked for Ping
		Payload: make([]byte, 7),
	})}}

	c := New(0x0001, link, &fakeClock{})
	_, err := c.Ping(0x0042)
	require.Error(t, err)
	var mismatch *ResponseMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, "command", mismatch.Field)
}

func TestSendRejectsRequestEchoedBack(t *testing.T) {
	link := &scriptedLink{queue: [][]byte{mustPack(t, &protocol.Packet{
		Request: true, // a request, not a response
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodePing,
		Payload: nil,
	})}}

	c := New(0x0001, link, &fakeClock{})
	_, err := c.Ping(0x0042)
	require.Error(t, err)
	var mismatch *ResponseMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, "direction", mismatch.Field)
}

func TestSendRejectsMalformedFrame(t *testing.T) {
	link := &scriptedLink{queue: [][]byte{{0x00, 0x01, 0x02}}}

	c := New(0x0001, link, &fakeClock{})
	_, err := c.Ping(0x0042)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadFrame))
}

func TestSendRejectsBadPayloadSize(t *testing.T) {
	link := &scriptedLink{queue: [][]byte{mustPack(t, &protocol.Packet{
		Request: false,
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodePing,
		Payload: []byte{0x01, 0x02}, // ping wants 4 bytes
	})}}

	c := New(0x0001, link, &fakeClock{})
	_, err := c.Ping(0x0042)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrPayloadDecode))
}

func TestAutoDetectGenerationNew(t *testing.T) {
	payload := make([]byte, 31)
	link := &scriptedLink{queue: [][]byte{mustPack(t, &protocol.Packet{
		Request: false,
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodeGetInfo,
		Payload: payload,
	})}}

	c := New(0x0001, link, &fakeClock{})
	gen, err := c.AutoDetectGeneration(0x0042)
	require.NoError(t, err)
	require.Equal(t, command.GenerationNew, gen)
	require.Equal(t, command.GenerationNew, c.Generation())
}

func TestSendOverLoopback(t *testing.T) {
	a, b := radio.NewLoopbackPair()

	clientSide := New(0x0001, a, &fakeClock{})

	go func() {
		frame, err := b.PollFrame(time.Second)
		if err != nil {
			return
		}
		req, err := protocol.Unpack(frame)
		if err != nil {
			return
		}
		payload := make([]byte, 4)
		protocol.PutUint16(payload[0:2], 0x0100)
		protocol.PutUint16(payload[2:4], req.Dest)
		respFrame, err := protocol.Pack(&protocol.Packet{
			Request: false,
			Dest:    req.Src,
			Src:     req.Dest,
			Command: req.Command,
			Payload: payload,
		})
		if err != nil {
			return
		}
		_ = b.Transmit(respFrame)
	}()

	resp, err := clientSide.Ping(0x0042)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0100), resp.FirmwareVersion)
}
