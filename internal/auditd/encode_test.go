package auditd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
		ok    bool
	}{
		{
			name:  "plain interface name",
			value: "eth0",
			want:  "eth0",
			ok:    true,
		},
		{
			name:  "punctuation is accepted",
			value: "profile-1_2.3:4/5",
			want:  "profile-1_2.3:4/5",
			ok:    true,
		},
		{
			name:  "empty value",
			value: "",
			want:  "",
			ok:    true,
		},
		{
			name:  "space is rejected",
			value: "wl an0",
			ok:    false,
		},
		{
			name:  "double quote is rejected",
			value: `a"b`,
			ok:    false,
		},
		{
			name:  "control character is rejected",
			value: "a\nb",
			ok:    false,
		},
		{
			name:  "non-ascii is rejected",
			value: "café",
			ok:    false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := EncodeValue(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}
