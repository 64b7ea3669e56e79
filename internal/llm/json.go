package llm

import "strings"

// StripCodeFence removes a surrounding markdown code fence (``` or ```json)
// that models sometimes wrap around JSON output.
func StripCodeFence(s string) string {
	clean := strings.TrimSpace(s)
	if !strings.HasPrefix(clean, "```") {
		return clean
	}
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimPrefix(clean, "json")
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
