// Package validators holds the pure input checks the conversation steps gate
// transitions on. Every function works on trimmed text and has no side
// effects.
package validators

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	timeRangeRe = regexp.MustCompile(`^(\d{1,2}):([0-5]\d)-(\d{1,2}):([0-5]\d)$`)
	phoneRe     = regexp.MustCompile(`^05\d{8}$`)
	multiSplit  = regexp.MustCompile(`[-\s.,]+`)
)

// ValidTimeRange accepts "H:MM-H:MM" or "HH:MM-HH:MM" with hours 0-23.
// Ordering of start and end is deliberately unchecked (overnight shifts).
func ValidTimeRange(text string) bool {
	m := timeRangeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return false
	}
	for _, h := range []string{m[1], m[3]} {
		n, err := strconv.Atoi(h)
		if err != nil || n > 23 {
			return false
		}
	}
	return true
}

// ValidPhone accepts exactly 10 digits starting with 05
func ValidPhone(text string) bool {
	return phoneRe.MatchString(strings.TrimSpace(text))
}

// SplitMulti tokenizes a multi-select answer. Commas, hyphens, periods and
// whitespace all separate; empty tokens are dropped.
func SplitMulti(text string) []string {
	var out []string
	for _, tok := range multiSplit.Split(text, -1) {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// PickFromTable resolves tokens against a code table. Unrecognized tokens are
// silently excluded; the caller rejects the input only when nothing matched.
func PickFromTable(tokens []string, table map[string]string) []string {
	var out []string
	for _, tok := range tokens {
		if v, ok := table[tok]; ok {
			out = append(out, v)
		}
	}
	return out
}

// LooksLikeLink accepts URL-ish text for the location step and rejects
// payloads that are really embedded image data.
func LooksLikeLink(text string) bool {
	if strings.HasPrefix(text, "/9j/4AAQSkZJRg") { // raw base64 JPEG
		return false
	}
	return strings.Contains(strings.ToLower(text), "http")
}

// MinLen reports whether the trimmed text has at least n characters
func MinLen(text string, n int) bool {
	return len([]rune(strings.TrimSpace(text))) >= n
}
