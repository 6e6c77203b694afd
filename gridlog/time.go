package gridlog

import "strings"

// NormalizeTime rewrites H:M:S:fraction to H:M:S.fraction. Any other form
// is returned trimmed and otherwise unchanged.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) == 4 {
		return strings.Join(parts[:3], ":") + "." + parts[3]
	}
	return s
}
