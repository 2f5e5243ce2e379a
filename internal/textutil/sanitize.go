// Package textutil provides text helpers for building safe acquisition
// filenames from free-form stimulus labels.
package textutil

import "strings"

// labelReplacer strips characters that would break the underscore-delimited
// filename grammar or the filesystem.
var labelReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	" ", "-",
)

// SanitizeItem makes a stimulus label safe for use as a filename segment.
// Path separators and spaces become dashes, other unsafe characters are
// removed, and surrounding whitespace is trimmed. The label's letter case is
// preserved; token matching conflates case separately.
func SanitizeItem(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	return strings.Trim(labelReplacer.Replace(label), "-")
}
