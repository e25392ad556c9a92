package models

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/SkillForge-Platform/SkillForge/backend/errs"
)

const maxAttachmentURLLength = 2048

// attachment URLs must not point at loopback or private ranges
var privateHostPattern = regexp.MustCompile(`^(localhost|127\.0\.0\.1|10\.|192\.168\.|172\.(1[6-9]|2\d|3[01])\.)`)

func missingField(field string) error {
	return errs.NewValidationFieldError(field, "is required")
}

func invalidField(field, reason string) error {
	return errs.NewValidationFieldError(field, reason)
}

func invalidEnum(field, got, allowed string) error {
	if got == "" {
		return missingField(field)
	}
	return errs.NewValidationFieldError(field, fmt.Sprintf("must be one of: %s", allowed))
}

// RequireOneOf enforces the "required unless a sibling is present" rule: at
// least one of the named fields must be non-empty.
func RequireOneOf(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if strings.TrimSpace(value) != "" {
			return nil
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return errs.NewValidationError(fmt.Sprintf("at least one of %s is required", strings.Join(names, ", ")))
}

// ValidateRating checks an optional 1-5 rating.
func ValidateRating(field string, rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < 1 || *rating > 5 {
		return invalidField(field, "must be between 1 and 5")
	}
	return nil
}

// ValidateAttachmentURL enforces the submission attachment contract:
// well-formed https URL, at most 2048 characters, public host.
func ValidateAttachmentURL(raw string) error {
	if len(raw) > maxAttachmentURLLength {
		return invalidField("attachment_url", "must be 2048 characters or fewer")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return invalidField("attachment_url", "must be a valid URL")
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return invalidField("attachment_url", "must use https")
	}
	if privateHostPattern.MatchString(strings.ToLower(parsed.Host)) {
		return invalidField("attachment_url", "must not point to a private host")
	}
	return nil
}
