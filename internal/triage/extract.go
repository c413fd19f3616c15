package triage

import (
	"regexp"
	"strings"
)

var orderIDPattern = regexp.MustCompile(`(?i)ORD\d{4}`)

// ExtractOrderID returns the first ORD#### token in text, uppercased.
// Later tokens are ignored.
func ExtractOrderID(text string) (string, bool) {
	match := orderIDPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}
