package auditd

// EncodeValue is the canonical name=value encoding function for the
// kernel audit wire format. Values consisting only of printable ASCII
// without spaces or double quotes pass through unchanged; anything
// else is rejected so the caller can substitute a visible placeholder
// instead of emitting an ambiguous or truncated record.
func EncodeValue(value string) (string, bool) {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c <= ' ' || c > '~' || c == '"' {
			return "", false
		}
	}
	return value, true
}
