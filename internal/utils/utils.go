package utils

import (
	"html"
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	tagPattern      = regexp.MustCompile(`(?s)<[^>]*>`)
	blankRunPattern = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// ValidateEmail reports whether address looks like a deliverable email.
func ValidateEmail(address string) bool {
	return emailPattern.MatchString(strings.TrimSpace(address))
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// StripHTML turns an HTML body into its plain-text alternative.
func StripHTML(body string) string {
	text := tagPattern.ReplaceAllString(body, "")
	text = html.UnescapeString(text)
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// SplitTags parses a tag list separated by commas, semicolons or pipes.
func SplitTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}
