//go:build !linux

package auditd

import (
	"errors"

	"github.com/vyrodovalexey/netaudit/internal/audit"
)

// ErrUnsupported is returned on platforms without a kernel audit
// subsystem. The engine treats it like any other open failure: the
// external sink stays inactive.
var ErrUnsupported = errors.New("auditd: kernel audit is not supported on this platform")

// Open always fails on non-linux platforms.
func (t *Transport) Open() (audit.Conn, error) {
	return nil, ErrUnsupported
}
