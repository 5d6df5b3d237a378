package audit

import (
	"bytes"
	"fmt"
	"strconv"
)

// initialBufferSize is the pre-sized capacity of a fresh encoder
// buffer, chosen to hold a typical record without growth.
const initialBufferSize = 256

// placeholder replaces a string value the external transport cannot
// safely encode. A visible marker is preferred over an unsafe or
// truncated audit record.
const placeholder = "???"

// EncodeFunc is the external transport's canonical name=value encoding
// function. It returns the wire-safe form of value, or ok=false when
// the value cannot be safely encoded.
type EncodeFunc func(value string) (encoded string, ok bool)

// encoder renders a record into one sink's wire text. The buffer is
// reused across the per-sink render calls of a single audit
// invocation; it is never shared between concurrent calls.
type encoder struct {
	buf bytes.Buffer
}

func newEncoder() *encoder {
	e := &encoder{}
	e.buf.Grow(initialBufferSize)
	return e
}

// render produces the wire text for the given sink, skipping fields
// not masked for it. Fields are joined with a single space.
func (e *encoder) render(rec record, sink SinkMask, encode EncodeFunc) string {
	e.buf.Reset()

	for _, f := range rec.fields {
		if f.mask&sink == 0 {
			continue
		}
		if e.buf.Len() > 0 {
			e.buf.WriteByte(' ')
		}
		e.buf.WriteString(f.name)
		e.buf.WriteByte('=')

		switch f.kind {
		case kindUint64:
			e.buf.WriteString(strconv.FormatUint(f.num, 10))
		case kindString:
			e.writeString(f, sink, encode)
		default:
			panic(fmt.Sprintf("audit: field %q has invalid kind %d", f.name, f.kind))
		}
	}

	return e.buf.String()
}

// writeString renders a string value per the sink's quoting rules.
func (e *encoder) writeString(f Field, sink SinkMask, encode EncodeFunc) {
	if sink == SinkAuditd {
		if !f.needsEncoding {
			e.buf.WriteString(f.str)
			return
		}
		encoded, ok := encode(f.str)
		if !ok {
			e.buf.WriteString(placeholder)
			return
		}
		e.buf.WriteString(encoded)
		return
	}

	// Log sink: quote only values that are not wire-plain. Embedded
	// quote characters are not escaped; the log format carries this
	// ambiguity as a known limitation.
	if isWirePlain(f.str) {
		e.buf.WriteString(f.str)
		return
	}
	e.buf.WriteByte('"')
	e.buf.WriteString(f.str)
	e.buf.WriteByte('"')
}

// isWirePlain reports whether a value consists only of printable ASCII
// with no spaces or double quotes, making it safe to embed unquoted in
// a key=value line.
func isWirePlain(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c > '~' || c == '"' {
			return false
		}
	}
	return true
}
