package flair

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xkjyeah/myinfo-reddit/reddit"
)

// Status is a residential-status code as reported by the identity
// provider: citizen, permanent resident or foreigner.
type Status string

const (
	StatusCitizen           Status = "C"
	StatusPermanentResident Status = "P"
	StatusForeigner         Status = "A"
)

// StatusOrder fixes the order statuses are reported in, e.g. when
// naming missing templates.
var StatusOrder = []Status{StatusCitizen, StatusPermanentResident, StatusForeigner}

// Each status matches the first flair template whose CSS class contains
// the corresponding marker as a whole word.
var statusPatterns = map[Status]*regexp.Regexp{
	StatusCitizen:           regexp.MustCompile(`\bverified-citizen\b`),
	StatusPermanentResident: regexp.MustCompile(`\bverified-pr\b`),
	StatusForeigner:         regexp.MustCompile(`\bverified-foreigner\b`),
}

// ErrNoFlairs signals the subreddit has no user-flair templates at all.
var ErrNoFlairs = errors.New("no flairs found")

// MissingTemplatesError reports which status codes have no matching
// flair template, in StatusOrder.
type MissingTemplatesError struct {
	Missing []Status
}

func (e *MissingTemplatesError) Error() string {
	codes := make([]string, len(e.Missing))
	for i, status := range e.Missing {
		codes[i] = string(status)
	}
	return fmt.Sprintf(
		"Missing flair templates for %s. Please ask the moderator of the subreddit to complete the setup of this app.",
		strings.Join(codes, ", "))
}

// MatchTemplates maps each status to the first template whose CSS class
// matches its pattern. Statuses with no match are absent from the
// result.
func MatchTemplates(templates []reddit.FlairTemplate) map[Status]reddit.FlairTemplate {
	matched := make(map[Status]reddit.FlairTemplate)
	for _, status := range StatusOrder {
		for _, tpl := range templates {
			if statusPatterns[status].MatchString(tpl.CSSClass) {
				matched[status] = tpl
				break
			}
		}
	}
	return matched
}

// EnsureComplete fails with a MissingTemplatesError unless every status
// has a template. Runs on every assignment attempt since moderators may
// add templates between attempts.
func EnsureComplete(templates map[Status]reddit.FlairTemplate) error {
	var missing []Status
	for _, status := range StatusOrder {
		if _, ok := templates[status]; !ok {
			missing = append(missing, status)
		}
	}
	if len(missing) > 0 {
		return &MissingTemplatesError{Missing: missing}
	}
	return nil
}

// IsVerifiedClass reports whether a CSS class carries any of the
// verified markers. Used to spot stale verified flair that must be
// removed when a user's status no longer maps to a template.
func IsVerifiedClass(cssClass string) bool {
	for _, pattern := range statusPatterns {
		if pattern.MatchString(cssClass) {
			return true
		}
	}
	return false
}

// CSVRow renders one row for Reddit's flaircsv endpoint.
func CSVRow(username, text, cssClass string) string {
	return fmt.Sprintf("%q,%q,%q", username, text, cssClass)
}
