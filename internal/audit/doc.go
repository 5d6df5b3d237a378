// Package audit turns call-site facts about configuration operations
// into canonical, ordered audit records and dispatches them to up to
// two independent sinks: the process-local structured log and the
// external kernel security-audit transport.
//
// The engine is deliberately best-effort: the external transport may
// be absent, disabled, fail to open or fail to write, and none of that
// is ever surfaced to the operation being audited. The log sink is
// gated on the logging subsystem's own level configuration; the
// external sink is gated on the runtime-togglable audit configuration
// applied through Manager.ApplyConfig.
//
// # Usage
//
//	mgr := audit.NewManager(audit.Config{Enabled: true},
//	    audit.WithLogger(logger),
//	    audit.WithTransport(auditd.New()),
//	)
//	defer mgr.Close()
//
//	mgr.LogDeviceEvent(ctx, "device-up",
//	    &audit.Device{Interface: "eth0", IfIndex: 3},
//	    true, "", audit.UnixProcessActor(pid, uid), "")
//
// All dispatch methods are safe for concurrent use from any
// goroutine.
package audit
