package gh

import (
	"regexp"
	"strings"
)

const (
	statusContextPrefix = "revcheck"
	maxContextLength    = 63
	// GitHub truncates status descriptions past this length.
	maxDescriptionLength = 140
)

var disallowedContextChars = regexp.MustCompile(`[^a-zA-Z0-9._/-]+`)

// StatusContext builds the commit-status context string for a pipeline,
// sanitized and length-limited, e.g. "revcheck/all".
func StatusContext(pipeline string) string {
	segment := strings.TrimSpace(pipeline)
	segment = strings.ReplaceAll(segment, " ", "-")
	segment = disallowedContextChars.ReplaceAllString(segment, "-")
	segment = strings.Trim(segment, "-/.")
	segment = strings.ToLower(segment)

	if segment == "" {
		return statusContextPrefix
	}

	context := statusContextPrefix + "/" + segment
	if len(context) > maxContextLength {
		context = context[:maxContextLength]
		context = strings.TrimRight(context, "-/.")
	}
	return context
}

func truncateDescription(description string) string {
	description = strings.TrimSpace(description)
	if len(description) <= maxDescriptionLength {
		return description
	}
	return description[:maxDescriptionLength-3] + "..."
}
