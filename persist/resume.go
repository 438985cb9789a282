package persist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// PromptResume implements the exact resume prompt wording: "There are N
// (of M) uncompleted matches from previous tournament! Do you want to
// resume? (y/n)". It reprompts on any input other than y/yes/n/no.
// autoYes short-circuits the whole exchange for non-interactive callers
// that need an auto-yes mode.
func PromptResume(r io.Reader, w io.Writer, uncompleted, total int, autoYes bool) (bool, error) {
	if autoYes {
		return true, nil
	}

	fmt.Fprintf(w, "There are %d (of %d) uncompleted matches from previous tournament! Do you want to resume? (y/n) ", uncompleted, total)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprint(w, "Please answer y or n: ")
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("persist.PromptResume: read: %w", err)
	}
	return false, fmt.Errorf("persist.PromptResume: no answer given")
}

// LastSavedText renders a human-readable "last saved" line for the resume
// prompt from a free-form timestamp string (spec DOMAIN STACK: dateparse
// used by persist "to render the schedule file's informational 'last
// saved' timestamp on resume-prompt text"). An unparsable or empty input
// yields an empty string rather than an error, since this is advisory text.
func LastSavedText(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return ""
	}
	return "last saved " + t.Format(time.RFC1123)
}
