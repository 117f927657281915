package util

import "math/rand/v2"

// PickRandomLine returns one pseudo-random element of lines, or the empty
// string when lines is empty. Uses math/rand/v2; token reactions do not need
// cryptographic randomness.
func PickRandomLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[rand.IntN(len(lines))]
}
