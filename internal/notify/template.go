package notify

import "strings"

// placeholderFallbacks is the complete token set templates may reference.
// Anything outside this set stays as literal text.
var placeholderFallbacks = map[string]string{
	"fleetNumber":    "Unknown",
	"category":       "Unknown",
	"driverName":     "Unknown",
	"location":       "Unknown",
	"status":         "Unknown",
	"updateMessage":  "",
	"estimatedCost":  "0",
	"leadTime":       "0",
	"totalIssues":    "0",
	"criticalCount":  "0",
	"completedCount": "0",
}

// RenderTemplate substitutes the fixed {placeholder} tokens with string-coerced
// event fields, falling back to a fixed default when a field is absent. It is
// deliberately not a template language and never fails.
func RenderTemplate(template string, data EventData) string {
	rendered := template
	for token, fallback := range placeholderFallbacks {
		placeholder := "{" + token + "}"
		if !strings.Contains(rendered, placeholder) {
			continue
		}
		value := stringField(data, token)
		if value == "" {
			value = fallback
		}
		rendered = strings.ReplaceAll(rendered, placeholder, value)
	}
	return rendered
}
