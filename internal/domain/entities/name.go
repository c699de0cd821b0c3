package entities

// MaxNameLen is the maximum length of a car name in bytes.
const MaxNameLen = 25

// ValidateName reports whether s is an acceptable car name: 1 to 25 bytes,
// only alphanumerics and spaces, no leading or trailing space, and no two
// consecutive spaces. Pure byte-wise check, no unicode awareness.
func ValidateName(s string) bool {
	if len(s) < 1 || len(s) > MaxNameLen {
		return false
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return false
	}
	var prevSpace bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			if prevSpace {
				return false
			}
			prevSpace = true
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
			prevSpace = false
		default:
			return false
		}
	}
	return true
}

// FoldName returns the case-insensitive canonical form of a name, mapping
// ASCII A-Z to a-z byte-wise and leaving every other byte unchanged.
// Idempotent: FoldName(FoldName(s)) == FoldName(s).
func FoldName(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
