package radio

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/compico/mirlib/protocol"
)

// TCPLink implements Link over a net.Conn, for mirlibctl's client and
// server subcommands to exchange frames across processes. Framing reuses
// the wire format's own start/stop markers — there is
// no additional length prefix or handshake.
type TCPLink struct {
	conn net.Conn
	r    *bufio.Reader
}

// NewTCPLink wraps an already-established connection.
func NewTCPLink(conn net.Conn) *TCPLink {
	return &TCPLink{conn: conn, r: bufio.NewReader(conn)}
}

// DialTCPLink connects to addr and wraps the resulting connection.
func DialTCPLink(addr string) (*TCPLink, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewTCPLink(conn), nil
}

func (l *TCPLink) Transmit(frame []byte) error {
	_, err := l.conn.Write(frame)
	return err
}

// PollFrame reads bytes up to and including the next stop marker, honoring
// timeout as a read deadline.
func (l *TCPLink) PollFrame(timeout time.Duration) ([]byte, error) {
	if err := l.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}

	for {
		b, err := l.r.ReadByte()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil, ErrTimeout
			}
			return nil, err
		}
		if b != protocol.StartMarker {
			continue
		}
		frame := []byte{b}
		for {
			b, err := l.r.ReadByte()
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					return nil, ErrTimeout
				}
				return nil, err
			}
			frame = append(frame, b)
			if b == protocol.Stop && len(frame) >= protocol.MinFrameSize {
				return frame, nil
			}
			if len(frame) > protocol.MaxFrameSize {
				break // malformed frame, resynchronize on the next StartMarker
			}
		}
	}
}

func (l *TCPLink) Reset() error {
	return l.conn.SetDeadline(time.Time{})
}

func (l *TCPLink) Close() error {
	return l.conn.Close()
}
