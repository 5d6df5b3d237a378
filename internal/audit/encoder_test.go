package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEncode mirrors the external transport's canonical encoding:
// wire-plain values pass through, everything else is rejected.
func testEncode(value string) (string, bool) {
	if isWirePlain(value) {
		return value, true
	}
	return "", false
}

func TestEncoder_Render_Uint64(t *testing.T) {
	t.Parallel()

	rec := record{fields: []Field{
		Uint64Field("ifindex", 3, SinkAll),
		Uint64Field("pid", 0, SinkAll),
	}}

	enc := newEncoder()
	assert.Equal(t, "ifindex=3 pid=0", enc.render(rec, SinkLog, nil))
	assert.Equal(t, "ifindex=3 pid=0", enc.render(rec, SinkAuditd, testEncode))
}

func TestEncoder_Render_StringLogSink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "plain value is unquoted",
			value: "eth0",
			want:  "name=eth0",
		},
		{
			name:  "value with space is quoted",
			value: "wl an0",
			want:  `name="wl an0"`,
		},
		{
			name:  "embedded quotes are not escaped",
			value: `a"b`,
			want:  `name="a"b"`,
		},
		{
			name:  "control character is quoted",
			value: "a\tb",
			want:  "name=\"a\tb\"",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := record{fields: []Field{
				StringField("name", tt.value, true, SinkAll),
			}}

			enc := newEncoder()
			assert.Equal(t, tt.want, enc.render(rec, SinkLog, nil))
		})
	}
}

func TestEncoder_Render_StringAuditdSink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		value         string
		needsEncoding bool
		want          string
	}{
		{
			name:          "plain value without encoding",
			value:         "reload",
			needsEncoding: false,
			want:          "op=reload",
		},
		{
			name:          "plain value with encoding",
			value:         "eth0",
			needsEncoding: true,
			want:          "op=eth0",
		},
		{
			name:          "rejected value renders placeholder",
			value:         "wl an0",
			needsEncoding: true,
			want:          "op=???",
		},
		{
			name:          "unencoded value passes through verbatim",
			value:         "trusted",
			needsEncoding: false,
			want:          "op=trusted",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := record{fields: []Field{
				StringField("op", tt.value, tt.needsEncoding, SinkAll),
			}}

			enc := newEncoder()
			assert.Equal(t, tt.want, enc.render(rec, SinkAuditd, testEncode))
		})
	}
}

func TestEncoder_Render_SkipsMaskedFields(t *testing.T) {
	t.Parallel()

	rec := record{fields: []Field{
		StringField("op", "reload", false, SinkAll),
		StringField("reason", "policy denied", false, SinkLog),
		StringField("arg", "eth0", true, SinkAll),
	}}

	enc := newEncoder()

	// Masked fields are skipped, never reordered; separator only
	// between rendered fields.
	assert.Equal(t, "op=reload arg=eth0", enc.render(rec, SinkAuditd, testEncode))
	assert.Equal(t, `op=reload reason="policy denied" arg=eth0`, enc.render(rec, SinkLog, nil))
}

func TestEncoder_Render_EmptyRecord(t *testing.T) {
	t.Parallel()

	enc := newEncoder()
	assert.Equal(t, "", enc.render(record{}, SinkLog, nil))
}

func TestEncoder_BufferReuse(t *testing.T) {
	t.Parallel()

	rec := record{fields: []Field{
		StringField("op", "reload", false, SinkAll),
	}}

	enc := newEncoder()
	initialCap := enc.buf.Cap()
	require.GreaterOrEqual(t, initialCap, initialBufferSize)

	first := enc.render(rec, SinkAuditd, testEncode)
	second := enc.render(rec, SinkLog, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, initialCap, enc.buf.Cap())
}

func TestEncoder_Render_InvalidKindPanics(t *testing.T) {
	t.Parallel()

	rec := record{fields: []Field{
		{name: "bad", mask: SinkAll, kind: fieldKind(7)},
	}}

	enc := newEncoder()
	assert.Panics(t, func() {
		enc.render(rec, SinkLog, nil)
	})
}

func TestIsWirePlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"eth0", true},
		{"", true},
		{"a-b_c.d:e", true},
		{"wl an0", false},
		{`quo"te`, false},
		{"tab\there", false},
		{"utf8é", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isWirePlain(tt.value), "value %q", tt.value)
	}
}
