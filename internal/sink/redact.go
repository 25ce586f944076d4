package sink

import "regexp"

// Visitors sometimes paste contact details into the chat box. Scrub
// email- and phone-shaped substrings before any text leaves for a
// third-party board.
var (
	emailPattern = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	phonePattern = regexp.MustCompile(`\b(?:\+?\d{1,3}[-.\s]?)?(?:\(?\d{3,5}\)?[-.\s]?)?\d{3,4}[-.\s]?\d{3,4}\b`)
)

// RedactPII replaces email addresses and phone-number-shaped digit
// sequences with fixed placeholders.
func RedactPII(text string) string {
	text = emailPattern.ReplaceAllString(text, "[redacted email]")
	text = phonePattern.ReplaceAllString(text, "[redacted phone]")
	return text
}
