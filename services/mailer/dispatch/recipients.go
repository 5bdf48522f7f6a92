package dispatch

import (
	"errors"
	"regexp"
	"strings"

	"campaign-mailer/shared/logger"
)

// ErrNoValidRecipients is returned when no rows survive validation
var ErrNoValidRecipients = errors.New("no valid recipients found")

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// fallbackName is used when a row carries no usable display name
const fallbackName = "User"

// MergeInfo holds campaign-level template variables shared by all
// recipients of one dispatch
type MergeInfo map[string]string

// RawRecipientRow is one row of the recipient dataset before validation.
// The loader is responsible for turning missing cells into empty strings.
type RawRecipientRow struct {
	Email    string
	FullName string
	Username string
}

// EmailAddress is the provider's address shape
type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Recipient is one validated destination plus its per-send merge variables,
// already in the provider's batch entry shape
type Recipient struct {
	EmailAddress EmailAddress `json:"email_address"`
	MergeInfo    MergeInfo    `json:"merge_info,omitempty"`
}

// IsValidEmail reports whether the address matches the strict
// single-@-with-dotted-domain pattern
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// BuildRecipients validates raw rows in order and builds provider-shaped
// recipients. Invalid rows are logged and dropped individually; only an
// empty result fails the whole call with ErrNoValidRecipients.
func BuildRecipients(rows []RawRecipientRow, merge MergeInfo) ([]Recipient, error) {
	recipients := make([]Recipient, 0, len(rows))

	for _, row := range rows {
		email := strings.TrimSpace(row.Email)

		if email == "" || strings.EqualFold(email, "nan") {
			logger.Warn("Skipping row: missing email")
			continue
		}

		if !IsValidEmail(email) {
			logger.Warnf("Skipping invalid email: %s", email)
			continue
		}

		name := resolveName(row)
		recipients = append(recipients, Recipient{
			EmailAddress: EmailAddress{
				Address: email,
				Name:    name,
			},
			MergeInfo: mergeWithName(merge, name),
		})
	}

	if len(recipients) == 0 {
		return nil, ErrNoValidRecipients
	}

	return recipients, nil
}

// resolveName picks the display name: fullname, then username, then the
// fallback literal. The "nan" sentinel is treated the same as empty.
func resolveName(row RawRecipientRow) string {
	name := strings.TrimSpace(row.FullName)
	if name == "" || strings.EqualFold(name, "nan") {
		name = strings.TrimSpace(row.Username)
	}
	if name == "" || strings.EqualFold(name, "nan") {
		name = fallbackName
	}
	return name
}

// mergeWithName shallow-copies the campaign merge variables and injects the
// per-recipient name
func mergeWithName(merge MergeInfo, name string) MergeInfo {
	out := make(MergeInfo, len(merge)+1)
	for k, v := range merge {
		out[k] = v
	}
	out["name"] = name
	return out
}
