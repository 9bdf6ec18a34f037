// Query-string scrubbing for access logs.
//
// The widget surface is embedded on arbitrary customer sites, and visitor
// email addresses can show up in query strings (prefilled forms, tracking
// params). Access logs must never retain them. Request and response bodies
// are never logged at all, so the query string is the only surface that
// needs scrubbing.
package middleware

import "regexp"

var emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)

// redactQuery replaces email addresses in a raw query string with a fixed
// marker so log aggregation keeps the request shape without the PII.
func redactQuery(s string) string {
	if s == "" {
		return s
	}
	return emailRE.ReplaceAllString(s, "[redacted:email]")
}
