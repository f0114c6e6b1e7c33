package services

import (
	"fmt"
	"regexp"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
)

// Reserved template keys resolved from the subscriber record.
const (
	KeyFirstName = "firstName"
	KeyLastName  = "lastName"
	KeyEmail     = "email"

	firstNameFallback = "there"
)

// Custom field keys come straight from import headers, so any text without
// braces is a key. Surrounding whitespace is not part of it.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// RenderTemplate replaces every {{key}} whose key is present in vars.
// Placeholders for keys not in vars are left as they are.
func RenderTemplate(tpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tpl
	}
	return placeholderPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}

// PersonalizeFor renders tpl for one subscriber in two passes.
//
// Pass one resolves the reserved keys and always produces a value: an empty
// first name becomes "there" and an empty last name becomes "". Pass two
// resolves custom fields, and only those the subscriber actually has; a
// placeholder for a missing custom field stays in the output. A custom field
// that is present but nil or empty renders as "".
func PersonalizeFor(tpl string, sub *models.Subscriber) string {
	first := sub.FirstName
	if first == "" {
		first = firstNameFallback
	}
	out := RenderTemplate(tpl, map[string]string{
		KeyFirstName: first,
		KeyLastName:  sub.LastName,
		KeyEmail:     sub.Email,
	})

	if len(sub.CustomFields) == 0 {
		return out
	}
	custom := make(map[string]string, len(sub.CustomFields))
	for k, v := range sub.CustomFields {
		custom[k] = customFieldValue(v)
	}
	return RenderTemplate(out, custom)
}

func customFieldValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
