package audit

import "github.com/google/uuid"

// Well-known field names.
const (
	fieldOp        = "op"
	fieldUUID      = "uuid"
	fieldName      = "name"
	fieldInterface = "interface"
	fieldIfindex   = "ifindex"
	fieldArg       = "arg"
	fieldArgs      = "args"
	fieldPID       = "pid"
	fieldUID       = "uid"
	fieldResult    = "result"
	fieldReason    = "reason"
	fieldTrace     = "trace"
)

// Result field values.
const (
	resultSuccess = "success"
	resultFail    = "fail"
)

// record is the fully assembled, ordered field sequence for one audit
// event, prior to sink-specific rendering. Built fresh per audit call.
type record struct {
	fields []Field
}

// buildRecord assembles the canonical field order: operation, domain
// fields in caller order, resolved actor fields, result, then the
// log-only reason and trace fields when present.
func buildRecord(op string, domain, actor []Field, result bool, reason, traceID string) record {
	fields := make([]Field, 0, len(domain)+len(actor)+4)

	fields = append(fields, StringField(fieldOp, op, false, SinkAll))
	fields = append(fields, domain...)
	fields = append(fields, actor...)

	res := resultFail
	if result {
		res = resultSuccess
	}
	fields = append(fields, StringField(fieldResult, res, false, SinkAll))

	if reason != "" {
		fields = append(fields, StringField(fieldReason, reason, false, SinkLog))
	}
	if traceID != "" {
		fields = append(fields, StringField(fieldTrace, traceID, false, SinkLog))
	}

	return record{fields: fields}
}

// Connection identifies a connection profile in connection events.
type Connection struct {
	// UUID is the stable profile identifier.
	UUID uuid.UUID
	// Name is the user-visible display identifier.
	Name string
}

// Device identifies a network device in device events.
type Device struct {
	// Interface is the kernel interface name.
	Interface string
	// IfIndex is the kernel interface index, 0 when unknown.
	IfIndex int
}

// connectionFields builds the conventional connection-event shape.
func connectionFields(conn *Connection, args string) []Field {
	if conn == nil {
		return argsField(nil, args)
	}
	fields := make([]Field, 0, 3)
	fields = append(fields,
		StringField(fieldUUID, conn.UUID.String(), false, SinkAll),
		StringField(fieldName, conn.Name, true, SinkAll),
	)
	return argsField(fields, args)
}

// deviceFields builds the conventional device-event shape. The caller
// guarantees dev is non-nil.
func deviceFields(dev *Device, args string) []Field {
	fields := make([]Field, 0, 3)
	fields = append(fields, StringField(fieldInterface, dev.Interface, true, SinkAll))
	if dev.IfIndex > 0 {
		fields = append(fields, Uint64Field(fieldIfindex, uint64(dev.IfIndex), SinkAll))
	}
	return argsField(fields, args)
}

// genericFields builds the conventional single-argument shape.
func genericFields(arg string) []Field {
	return []Field{StringField(fieldArg, arg, true, SinkAll)}
}

// argsField appends the optional free-form args field.
func argsField(fields []Field, args string) []Field {
	if args != "" {
		fields = append(fields, StringField(fieldArgs, args, false, SinkAll))
	}
	return fields
}
