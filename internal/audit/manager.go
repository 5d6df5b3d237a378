package audit

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/netaudit/internal/observability"
)

// MessageClass tags the record category on the external transport.
type MessageClass uint16

// ClassUsysConfig is the libaudit AUDIT_USYS_CONFIG record type for
// user-space system-configuration changes. Every event this engine
// dispatches to the external transport carries this class.
const ClassUsysConfig MessageClass = 1130

// Transport is the external security-audit channel. Its availability
// is optional; every failure mode is tolerated.
type Transport interface {
	// Open establishes a connection to the transport.
	Open() (Conn, error)

	// EncodeValue is the transport's canonical name=value encoding
	// function. ok is false when the value cannot be safely encoded
	// for the transport's unquoted key=value wire format.
	EncodeValue(value string) (encoded string, ok bool)
}

// Conn is an open transport connection.
type Conn interface {
	// Write performs a single best-effort write of one rendered
	// record. Failure semantics are opaque to the engine.
	Write(text string, class MessageClass, success bool) error

	// Close releases the connection.
	Close() error
}

// Config is the audit configuration snapshot the manager reacts to.
type Config struct {
	// Enabled controls the external transport. The log sink is
	// governed by the logging subsystem's own levels, not by this
	// flag.
	Enabled bool
}

// Manager owns the external transport connection and dispatches audit
// events to the active sinks. It is constructed once at process start
// and released with Close; dispatch methods may be called from any
// goroutine.
type Manager struct {
	logger    observability.Logger
	metrics   *Metrics
	transport Transport
	resolve   ActorResolver

	mu      sync.Mutex
	conn    Conn
	enabled bool
}

// Option is a functional option for the Manager.
type Option func(*Manager)

// WithLogger sets the observability logger. The manager derives its
// "audit" category logger from it.
func WithLogger(logger observability.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics sets the metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithTransport sets the external transport. Without one the external
// sink is permanently inactive, which is a normal operating mode.
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithActorResolver sets the collaborator that extracts an actor
// identity from a wire-level invocation context.
func WithActorResolver(resolve ActorResolver) Option {
	return func(m *Manager) {
		m.resolve = resolve
	}
}

// NewManager creates a Manager and applies the initial configuration
// snapshot, attempting to open the transport when auditing is enabled.
// A transport open failure is logged and tolerated.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.Named("audit")

	if m.metrics == nil {
		m.metrics = NewMetrics("netaudit")
	}

	m.ApplyConfig(cfg)

	return m
}

// ApplyConfig applies a new configuration snapshot. It is invoked by
// the configuration subsystem's change-detection loop and at
// construction. Transitions are idempotent: nothing happens when the
// desired transport state already matches the current one.
func (m *Manager) ApplyConfig(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = cfg.Enabled

	switch {
	case cfg.Enabled && m.conn == nil:
		m.openLocked()
	case !cfg.Enabled && m.conn != nil:
		m.closeLocked()
	}
}

// openLocked attempts to open the transport. Caller holds m.mu.
func (m *Manager) openLocked() {
	if m.transport == nil {
		return
	}
	conn, err := m.transport.Open()
	if err != nil {
		m.logger.Warn("failed to open audit transport",
			observability.Error(err),
		)
		return
	}
	m.conn = conn
}

// closeLocked releases the transport connection. Caller holds m.mu.
func (m *Manager) closeLocked() {
	if err := m.conn.Close(); err != nil {
		m.logger.Debug("error closing audit transport",
			observability.Error(err),
		)
	}
	m.conn = nil
}

// Close releases the transport connection if open. The manager must
// not be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		m.closeLocked()
	}
}

// IsActive reports whether at least one sink would currently receive
// an event. Callers may use it as an optimization hint; dispatching
// while inactive is free.
func (m *Manager) IsActive() bool {
	return m.transportOpen() || m.logger.Enabled(observability.LevelInfo)
}

// transportOpen reports whether the external transport is open.
func (m *Manager) transportOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// LogConnectionEvent records an operation on a connection profile. The
// connection may be nil when the operation has no profile context.
func (m *Manager) LogConnectionEvent(
	ctx context.Context,
	op string,
	conn *Connection,
	result bool,
	args string,
	actor ActorContext,
	reason string,
) {
	m.logEvent(ctx, op, connectionFields(conn, args), result, actor, reason)
}

// LogDeviceEvent records an operation on a network device. The device
// is mandatory.
func (m *Manager) LogDeviceEvent(
	ctx context.Context,
	op string,
	dev *Device,
	result bool,
	args string,
	actor ActorContext,
	reason string,
) {
	if dev == nil {
		m.logger.DPanic("device event requires a device")
		return
	}
	m.logEvent(ctx, op, deviceFields(dev, args), result, actor, reason)
}

// LogGenericEvent records an operation with a single free-form
// argument. The argument is mandatory.
func (m *Manager) LogGenericEvent(
	ctx context.Context,
	op, arg string,
	result bool,
	actor ActorContext,
	reason string,
) {
	if arg == "" {
		m.logger.DPanic("generic event requires an argument")
		return
	}
	m.logEvent(ctx, op, genericFields(arg), result, actor, reason)
}

// LogEvent records an operation with an arbitrary caller-assembled
// domain field sequence. Field order is preserved verbatim.
func (m *Manager) LogEvent(
	ctx context.Context,
	op string,
	domainFields []Field,
	result bool,
	actor ActorContext,
	reason string,
) {
	m.logEvent(ctx, op, domainFields, result, actor, reason)
}

// logEvent is the dispatch core: it determines the active sinks,
// builds the record, renders it once per active sink and delivers it.
// Nothing here ever surfaces an error to the caller.
func (m *Manager) logEvent(
	ctx context.Context,
	op string,
	domain []Field,
	result bool,
	actor ActorContext,
	reason string,
) {
	if op == "" {
		m.logger.DPanic("audit event requires an operation name")
		return
	}

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	logActive := m.logger.Enabled(observability.LevelInfo)
	if conn == nil && !logActive {
		return
	}

	rec := buildRecord(op, domain, m.actorFields(actor), result, reason, extractTraceID(ctx))
	enc := newEncoder()

	if conn != nil {
		text := enc.render(rec, SinkAuditd, m.transport.EncodeValue)
		if err := conn.Write(text, ClassUsysConfig, result); err != nil {
			// Best effort: the transport's failure semantics are
			// opaque and must never affect the audited operation.
			m.metrics.RecordWriteFailure()
		}
		m.metrics.RecordEvent(sinkLabelAuditd, result)
	}

	if logActive {
		m.logger.Info(enc.render(rec, SinkLog, nil))
		m.metrics.RecordEvent(sinkLabelLog, result)
	}
}

// actorFields resolves an actor context into pid/uid fields. An
// unrecognized or unresolvable context yields a warning and no fields;
// it never fails the audit call.
func (m *Manager) actorFields(actor ActorContext) []Field {
	var pid, uid uint64

	switch actor.kind {
	case actorAbsent:
		return nil
	case actorUnixProcess:
		pid, uid = actor.pid, actor.uid
	case actorInvocation:
		if m.resolve == nil {
			m.logger.Warn("no actor resolver configured for invocation context")
			return nil
		}
		var err error
		pid, uid, err = m.resolve(actor.invocation)
		if err != nil {
			m.logger.Warn("failed to resolve actor from invocation context",
				observability.Error(err),
			)
			return nil
		}
	default:
		m.logger.Warn("unrecognized actor context",
			observability.Int("kind", int(actor.kind)),
		)
		return nil
	}

	fields := make([]Field, 0, 2)
	if pid != UnavailableID {
		fields = append(fields, Uint64Field(fieldPID, pid, SinkAll))
	}
	if uid != UnavailableID {
		fields = append(fields, Uint64Field(fieldUID, uid, SinkAll))
	}
	return fields
}

// extractTraceID extracts the trace ID from the OpenTelemetry span
// context. Returns an empty string when no valid trace is present.
func extractTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}
