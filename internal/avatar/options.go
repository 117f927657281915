package avatar

import (
	"regexp"
	"strings"
)

// maxGeneratedOptions caps the follow-up menu at three entries.
const maxGeneratedOptions = 3

// enumMarker matches leading enumeration noise models tend to emit despite
// instructions: digits, dots, dashes, bullets, brackets and parentheses.
var enumMarker = regexp.MustCompile(`^[\s\d.\-–—*•()\[\]]+`)

// ParseGeneratedOptions cleans raw generated option text into at most max
// display-ready lines: split on newlines, trim, strip leading enumeration
// markers, drop empties. An unusable result is the empty slice; the caller
// falls back to the fixed menu.
func ParseGeneratedOptions(raw string, max int) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = enumMarker.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}
