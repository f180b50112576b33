//go:build unix

package protocol

import (
	"errors"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// ErrTimeout is returned when a retry loop exceeds NetworkTimeout without
// making progress — spec §4.A's "a stall beyond NETWORK_TIMEOUT disconnects
// the client."
var ErrTimeout = errors.New("protocol: network timeout")

// NetworkTimeout is spec §4.A's NETWORK_TIMEOUT (default 15s).
const NetworkTimeout = 15 * time.Second

// RawConn wraps a *net.TCPConn's file descriptor for direct non-blocking
// reads/writes through golang.org/x/sys/unix, implementing the retry
// contract of spec §4.A: EAGAIN/EINTR yield to the scheduler (here, a
// short sleep standing in for the single-threaded server's cooperative
// yield) and retry until NetworkTimeout elapses.
type RawConn struct {
	tcp *net.TCPConn
	raw syscall.RawConn
}

// NewRawConn prepares conn for non-blocking syscall-level I/O. conn must be
// a *net.TCPConn (true of every accepted connection here, since spec §6
// mandates TCP).
func NewRawConn(conn *net.TCPConn) (*RawConn, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}
	return &RawConn{tcp: conn, raw: raw}, nil
}

// isRetryable reports whether errno is one of the transient conditions spec
// §4.A names (EAGAIN/EINTR/WouldBlock; WSAEWOULDBLOCK is the Windows
// analogue and has no meaning under unix build tags).
func isRetryable(errno syscall.Errno) bool {
	return errno == unix.EAGAIN || errno == unix.EINTR || errno == unix.EWOULDBLOCK
}

// ReadNonBlocking attempts to fill buf completely, retrying on transient
// errors until NetworkTimeout elapses. A zero-byte read with no error means
// the peer closed the connection (disconnect reason 1 in spec §7).
func (c *RawConn) ReadNonBlocking(buf []byte) (int, error) {
	deadline := time.Now().Add(NetworkTimeout)
	total := 0
	for total < len(buf) {
		n, retry, err := c.readOnce(buf[total:])
		if err != nil {
			return total, err
		}
		if n == 0 && !retry {
			return total, errPeerClosed
		}
		total += n
		if retry && n == 0 {
			if time.Now().After(deadline) {
				return total, ErrTimeout
			}
			time.Sleep(time.Millisecond)
		}
	}
	return total, nil
}

var errPeerClosed = errors.New("protocol: peer closed connection")

// ErrPeerClosed is the exported sentinel for a clean peer close mid-read.
var ErrPeerClosed = errPeerClosed

func (c *RawConn) readOnce(buf []byte) (n int, retry bool, err error) {
	rawErr := c.raw.Read(func(fd uintptr) bool {
		var rerr error
		n, rerr = unix.Read(int(fd), buf)
		if rerr == nil {
			return true // progress or EOF, stop polling
		}
		if errno, ok := rerr.(syscall.Errno); ok && isRetryable(errno) {
			retry = true
			n = 0
			return true // report would-block to the caller instead of parking
		}
		err = rerr
		return true
	})
	if rawErr != nil && err == nil {
		err = rawErr
	}
	return n, retry, err
}

// WriteNonBlocking writes all of buf, retrying on transient errors until
// NetworkTimeout elapses.
func (c *RawConn) WriteNonBlocking(buf []byte) error {
	deadline := time.Now().Add(NetworkTimeout)
	total := 0
	for total < len(buf) {
		n, retry, err := c.writeOnce(buf[total:])
		if err != nil {
			return err
		}
		total += n
		if retry && n == 0 {
			if time.Now().After(deadline) {
				return ErrTimeout
			}
			time.Sleep(time.Millisecond)
		}
	}
	return nil
}

func (c *RawConn) writeOnce(buf []byte) (n int, retry bool, err error) {
	rawErr := c.raw.Write(func(fd uintptr) bool {
		var werr error
		n, werr = unix.Write(int(fd), buf)
		if werr == nil {
			return true
		}
		if errno, ok := werr.(syscall.Errno); ok && isRetryable(errno) {
			retry = true
			return false
		}
		err = werr
		return true
	})
	if rawErr != nil && err == nil {
		err = rawErr
	}
	return n, retry, err
}

// TryReadAvailable performs a single non-blocking read attempt into buf and
// returns immediately, used by the single-threaded round-robin dispatch
// loop (spec §5) to poll each connection in turn without ever blocking on
// one connection while others wait. A "would block" result reports zero
// bytes and no error, distinct from ReadNonBlocking's retry-until-timeout
// contract used once a full packet is known to be in flight.
func (c *RawConn) TryReadAvailable(buf []byte) (int, error) {
	n, retry, err := c.readOnce(buf)
	if err != nil {
		return n, err
	}
	if retry {
		return 0, nil
	}
	if n == 0 {
		return 0, errPeerClosed
	}
	return n, nil
}

// SetNonblocking puts the underlying fd in non-blocking mode — normally
// already true for sockets accepted off a non-blocking listener, but made
// explicit here since spec §6 requires it.
func (c *RawConn) SetNonblocking() error {
	var sysErr error
	err := c.raw.Control(func(fd uintptr) {
		sysErr = unix.SetNonblock(int(fd), true)
	})
	if err != nil {
		return err
	}
	return sysErr
}

// Close closes the underlying TCP connection.
func (c *RawConn) Close() error { return c.tcp.Close() }
