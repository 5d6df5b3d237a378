package audit

// SinkMask selects which delivery backends a field is rendered for.
type SinkMask uint8

// Sink bits.
const (
	// SinkLog targets the process-local structured-log backend.
	SinkLog SinkMask = 1 << iota
	// SinkAuditd targets the external security-audit transport.
	SinkAuditd

	// SinkAll targets every backend.
	SinkAll = SinkLog | SinkAuditd
)

// fieldKind discriminates the two permitted field value types.
type fieldKind uint8

const (
	kindString fieldKind = iota
	kindUint64
)

// Field is a single named value of an audit record. Fields are plain
// values constructed at call time and never retained past the audit
// call that produced them.
type Field struct {
	name string
	mask SinkMask
	// needsEncoding marks a string value that may contain characters
	// unsafe for the external transport's unquoted key=value format.
	needsEncoding bool
	kind          fieldKind
	str           string
	num           uint64
}

// StringField constructs a string-valued field.
func StringField(name, value string, needsEncoding bool, mask SinkMask) Field {
	return Field{
		name:          name,
		mask:          mask,
		needsEncoding: needsEncoding,
		kind:          kindString,
		str:           value,
	}
}

// Uint64Field constructs an unsigned-integer-valued field.
func Uint64Field(name string, value uint64, mask SinkMask) Field {
	return Field{
		name: name,
		mask: mask,
		kind: kindUint64,
		num:  value,
	}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// Mask returns the sink mask.
func (f Field) Mask() SinkMask { return f.mask }
