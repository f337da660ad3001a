package report

import (
	"fmt"
	"regexp"
	"strings"
)

// separator is the pattern between a prefix word and the rest of a title:
// a colon, hyphen or en dash with optional surrounding spaces.
const separator = `\s*[:\-–]\s*`

// ExtractTaskLabel derives a short task label from an event title and the
// keyword it matched on, by stripping a recognized prefix.
//
// Two prefix forms are tried in order, both case-insensitive and anchored
// at the start of the title:
//
//	"Work: ProjectX - do the thing"  ->  "do the thing"
//	"ProjectX: do the thing"         ->  "do the thing"
//
// If neither form matches (for instance when the keyword matched in the
// description rather than the title), the label is the trimmed original
// title. The keyword is escaped so any regex metacharacters in it are
// matched literally.
func ExtractTaskLabel(title, keyword string) string {
	quoted := regexp.QuoteMeta(keyword)

	withMarker := regexp.MustCompile(fmt.Sprintf(`(?i)^\s*\w+%s%s%s(.+)$`, separator, quoted, separator))
	if m := withMarker.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}

	keywordOnly := regexp.MustCompile(fmt.Sprintf(`(?i)^\s*%s%s(.+)$`, quoted, separator))
	if m := keywordOnly.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(title)
}
