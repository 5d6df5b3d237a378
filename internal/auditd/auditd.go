// Package auditd implements the external security-audit transport on
// top of the kernel audit subsystem. Records are delivered as
// user-space audit messages over a NETLINK_AUDIT socket using the
// libaudit wire conventions.
//
// The transport is strictly best effort: the engine tolerates a
// missing or failing audit subsystem, and callers never see delivery
// errors.
package auditd

import "github.com/vyrodovalexey/netaudit/internal/audit"

// Transport dials the kernel audit subsystem. The zero value is ready
// to use.
type Transport struct{}

// Ensure Transport satisfies the engine's transport contract.
var _ audit.Transport = (*Transport)(nil)

// New creates a kernel-audit transport.
func New() *Transport {
	return &Transport{}
}

// EncodeValue implements the transport's canonical name=value
// encoding.
func (t *Transport) EncodeValue(value string) (string, bool) {
	return EncodeValue(value)
}
