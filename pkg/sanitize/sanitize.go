package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all HTML from user-supplied input and trims surrounding
// whitespace. Stored messages and prompt material pass through here so
// markup never reaches the LLM or another user's browser.
func Text(input string) string {
	return strings.TrimSpace(strict.Sanitize(input))
}
