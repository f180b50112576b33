//go:build !unix

package protocol

import (
	"errors"
	"net"
	"time"
)

// ErrTimeout is returned when a retry loop exceeds NetworkTimeout without
// making progress — spec §4.A's "a stall beyond NETWORK_TIMEOUT disconnects
// the client."
var ErrTimeout = errors.New("protocol: network timeout")

// NetworkTimeout is spec §4.A's NETWORK_TIMEOUT (default 15s).
const NetworkTimeout = 15 * time.Second

// ErrPeerClosed is the exported sentinel for a clean peer close mid-read.
var ErrPeerClosed = errors.New("protocol: peer closed connection")

// RawConn is the non-unix fallback: it emulates the EAGAIN/WSAEWOULDBLOCK
// retry contract of spec §4.A with short read/write deadlines on the
// standard net.Conn, since golang.org/x/sys/unix's raw fd path is
// unix-only. Behaviorally equivalent; see netio.go for the syscall-level
// implementation used on unix builds.
type RawConn struct {
	conn net.Conn
}

// NewRawConn wraps any net.Conn for deadline-based non-blocking I/O.
func NewRawConn(conn net.Conn) (*RawConn, error) {
	return &RawConn{conn: conn}, nil
}

func isTimeoutErr(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ReadNonBlocking fills buf, retrying on deadline-timeout "would block"
// signals until NetworkTimeout elapses overall.
func (c *RawConn) ReadNonBlocking(buf []byte) (int, error) {
	deadline := time.Now().Add(NetworkTimeout)
	total := 0
	for total < len(buf) {
		_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Millisecond))
		n, err := c.conn.Read(buf[total:])
		total += n
		if err == nil {
			continue
		}
		if isTimeoutErr(err) {
			if time.Now().After(deadline) {
				return total, ErrTimeout
			}
			continue
		}
		if errors.Is(err, net.ErrClosed) {
			return total, err
		}
		return total, ErrPeerClosed
	}
	return total, nil
}

// WriteNonBlocking writes all of buf, retrying on deadline timeouts until
// NetworkTimeout elapses overall.
func (c *RawConn) WriteNonBlocking(buf []byte) error {
	deadline := time.Now().Add(NetworkTimeout)
	total := 0
	for total < len(buf) {
		_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Millisecond))
		n, err := c.conn.Write(buf[total:])
		total += n
		if err == nil {
			continue
		}
		if isTimeoutErr(err) {
			if time.Now().After(deadline) {
				return ErrTimeout
			}
			continue
		}
		return err
	}
	return nil
}

// TryReadAvailable performs a single best-effort read with a near-zero
// deadline, returning (0, nil) on a would-block timeout — the fallback
// path's analogue of netio.go's syscall-level single-shot read, used by
// the round-robin dispatch loop (spec §5).
func (c *RawConn) TryReadAvailable(buf []byte) (int, error) {
	_ = c.conn.SetReadDeadline(time.Now())
	n, err := c.conn.Read(buf)
	if err == nil {
		return n, nil
	}
	if isTimeoutErr(err) {
		return n, nil
	}
	if errors.Is(err, net.ErrClosed) {
		return n, err
	}
	return n, ErrPeerClosed
}

// SetNonblocking is a no-op on the fallback path; deadlines already provide
// the non-blocking behavior.
func (c *RawConn) SetNonblocking() error { return nil }

// Close closes the underlying connection.
func (c *RawConn) Close() error { return c.conn.Close() }
