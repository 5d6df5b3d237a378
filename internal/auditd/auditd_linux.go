//go:build linux

package auditd

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/vyrodovalexey/netaudit/internal/audit"
)

// nlmsgHdrLen is the length of a netlink message header.
const nlmsgHdrLen = unix.NLMSG_HDRLEN

// Open connects to the kernel audit subsystem over an
// AF_NETLINK/NETLINK_AUDIT socket.
func (t *Transport) Open() (audit.Conn, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_AUDIT)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit netlink socket: %w", err)
	}

	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("failed to bind audit netlink socket: %w", err)
	}

	return &conn{fd: fd}, nil
}

// conn is an open kernel-audit netlink connection.
type conn struct {
	fd  int
	seq atomic.Uint32
}

// Write sends one user-space audit record to the kernel. Following the
// libaudit convention the record text is suffixed with a res= token
// derived from the success flag. The kernel's acknowledgement is not
// awaited; delivery is best effort.
func (c *conn) Write(text string, class audit.MessageClass, success bool) error {
	res := "failed"
	if success {
		res = "success"
	}
	payload := text + " res=" + res

	// Netlink header followed by the NUL-terminated record text,
	// native byte order.
	buf := make([]byte, nlmsgHdrLen+len(payload)+1)
	binary.NativeEndian.PutUint32(buf[0:4], uint32(len(buf)))
	binary.NativeEndian.PutUint16(buf[4:6], uint16(class))
	binary.NativeEndian.PutUint16(buf[6:8], unix.NLM_F_REQUEST)
	binary.NativeEndian.PutUint32(buf[8:12], c.seq.Add(1))
	binary.NativeEndian.PutUint32(buf[12:16], 0)
	copy(buf[nlmsgHdrLen:], payload)

	dst := &unix.SockaddrNetlink{Family: unix.AF_NETLINK}
	if err := unix.Sendto(c.fd, buf, 0, dst); err != nil {
		return fmt.Errorf("failed to send audit record: %w", err)
	}
	return nil
}

// Close releases the netlink socket.
func (c *conn) Close() error {
	return unix.Close(c.fd)
}
