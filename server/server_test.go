package server

import (
	"context"
	"testing"
	"time"

	"github.com/compico/mirlib/command"
	"github.com/compico/mirlib/fixture"
	"github.com/compico/mirlib/protocol"
	"github.com/compico/mirlib/radio"

	"github.com/stretchr/testify/require"
)

func newPollDeadlineCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestPollAnswersPing(t *testing.T) {
	clientSide, serverSide := radio.NewLoopbackPair()
	s := New(0x0001, command.GenerationNew, serverSide, &radio.SystemClock{}, WithFixtures(fixture.Default()))

	req, err := protocol.Pack(&protocol.Packet{
		Request: true,
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodePing,
	})
	require.NoError(t, err)
	require.NoError(t, clientSide.Transmit(req))

	handled, err := s.Poll(newPollDeadlineCtx(t))
	require.NoError(t, err)
	require.True(t, handled)

	respFrame, err := clientSide.PollFrame(time.Second)
	require.NoError(t, err)
	resp, err := protocol.Unpack(respFrame)
	require.NoError(t, err)
	require.False(t, resp.Request)
	require.Equal(t, uint16(0x0042), resp.Dest)
	require.Equal(t, uint16(0x0001), resp.Src)
	require.Equal(t, command.CodePing, resp.Command)
}

func TestPollIdleWithNoFrame(t *testing.T) {
	_, serverSide := radio.NewLoopbackPair()
	s := New(0x0001, command.GenerationNew, serverSide, &radio.SystemClock{}, WithFixtures(fixture.Default()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	handled, err := s.Poll(ctx)
	require.NoError(t, err)
	require.False(t, handled)
}

func TestPollDropsMisaddressedRequest(t *testing.T) {
	clientSide, serverSide := radio.NewLoopbackPair()
	s := New(0x0001, command.GenerationNew, serverSide, &radio.SystemClock{}, WithFixtures(fixture.Default()))

	req, err := protocol.Pack(&protocol.Packet{
		Request: true,
		Dest:    0x0099, // not this server's address, not broadcast
		Src:     0x0042,
		Command: command.CodePing,
	})
	require.NoError(t, err)
	require.NoError(t, clientSide.Transmit(req))

	handled, err := s.Poll(newPollDeadlineCtx(t))
	require.NoError(t, err)
	require.False(t, handled)

	_, err = clientSide.PollFrame(20 * time.Millisecond)
	require.ErrorIs(t, err, radio.ErrTimeout)
}

func TestPollBroadcastDoesNotReply(t *testing.T) {
	clientSide, serverSide := radio.NewLoopbackPair()
	s := New(0x0001, command.GenerationNew, serverSide, &radio.SystemClock{}, WithFixtures(fixture.Default()))

	req, err := protocol.Pack(&protocol.Packet{
		Request: true,
		Dest:    BroadcastAddress,
		Src:     0x0042,
		Command: command.CodePing,
	})
	require.NoError(t, err)
	require.NoError(t, clientSide.Transmit(req))

	handled, err := s.Poll(newPollDeadlineCtx(t))
	require.NoError(t, err)
	require.True(t, handled)

	_, err = clientSide.PollFrame(20 * time.Millisecond)
	require.ErrorIs(t, err, radio.ErrTimeout)
}

func TestPollNoHandlerRegistered(t *testing.T) {
	clientSide, serverSide := radio.NewLoopbackPair()
	s := New(0x0001, command.GenerationNew, serverSide, &radio.SystemClock{}) // no fixtures: empty handler table

	req, err := protocol.Pack(&protocol.Packet{
		Request: true,
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodePing,
	})
	require.NoError(t, err)
	require.NoError(t, clientSide.Transmit(req))

	handled, err := s.Poll(newPollDeadlineCtx(t))
	require.Error(t, err)
	require.False(t, handled)
	var noHandler *NoHandlerError
	require.ErrorAs(t, err, &noHandler)
	require.Equal(t, command.CodePing, noHandler.Code)
}

func TestPollReadStatusOldGeneration(t *testing.T) {
	clientSide, serverSide := radio.NewLoopbackPair()
	s := New(0x0001, command.GenerationOld, serverSide, &radio.SystemClock{}, WithFixtures(fixture.Default()))

	req, err := protocol.Pack(&protocol.Packet{
		Request: true,
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodeReadStatus,
	})
	require.NoError(t, err)
	require.NoError(t, clientSide.Transmit(req))

	handled, err := s.Poll(newPollDeadlineCtx(t))
	require.NoError(t, err)
	require.True(t, handled)

	respFrame, err := clientSide.PollFrame(time.Second)
	require.NoError(t, err)
	resp, err := protocol.Unpack(respFrame)
	require.NoError(t, err)
	require.Len(t, resp.Payload, 26)

	decoded, err := command.ReadStatus{}.DecodeResponse(command.GenerationOld, resp.Payload)
	require.NoError(t, err)
	variant := decoded.(command.ReadStatusResponse)
	require.NotNil(t, variant.Old)
	require.Nil(t, variant.New)
	require.Equal(t, fixture.Default().ReadStatusOld.TotalEnergy, variant.Old.TotalEnergy)
}

func TestRegisterHandlerOverride(t *testing.T) {
	clientSide, serverSide := radio.NewLoopbackPair()
	s := New(0x0001, command.GenerationNew, serverSide, &radio.SystemClock{})

	called := false
	s.RegisterHandler(command.CodePing, func(req *protocol.Packet, resp []byte) (int, error) {
		called = true
		return command.EncodePingResponse(0x0200, req.Dest, resp)
	})

	req, err := protocol.Pack(&protocol.Packet{
		Request: true,
		Dest:    0x0001,
		Src:     0x0042,
		Command: command.CodePing,
	})
	require.NoError(t, err)
	require.NoError(t, clientSide.Transmit(req))

	handled, err := s.Poll(newPollDeadlineCtx(t))
	require.NoError(t, err)
	require.True(t, handled)
	require.True(t, called)
}
