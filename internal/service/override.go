package service

import "strings"

// MatchesOverride reports whether the question contains any of the
// trigger phrases. Matching is case-insensitive substring, so the
// override fires on e.g. "So WHO OFFERS this course?". Pure function;
// the trigger list comes from configuration.
func MatchesOverride(question string, triggers []string) bool {
	q := strings.ToLower(question)
	for _, t := range triggers {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.Contains(q, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
