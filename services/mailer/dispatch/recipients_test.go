package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecipientsSkipsUnusableEmails(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "empty email", email: ""},
		{name: "whitespace only", email: "   "},
		{name: "nan lowercase", email: "nan"},
		{name: "nan uppercase", email: "NaN"},
		{name: "missing at sign", email: "user.example.com"},
		{name: "missing dot after at", email: "user@example"},
		{name: "double at sign", email: "user@@example.com"},
		{name: "whitespace inside", email: "us er@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []RawRecipientRow{
				{Email: tt.email, FullName: "Skipped"},
				{Email: "keep@example.com", FullName: "Kept"},
			}

			recipients, err := BuildRecipients(rows, MergeInfo{})
			require.NoError(t, err)
			require.Len(t, recipients, 1)
			assert.Equal(t, "keep@example.com", recipients[0].EmailAddress.Address)
		})
	}
}

func TestBuildRecipientsNameResolution(t *testing.T) {
	tests := []struct {
		name     string
		fullname string
		username string
		expected string
	}{
		{name: "fullname preferred", fullname: "Jane Doe", username: "jdoe", expected: "Jane Doe"},
		{name: "username fallback", fullname: "", username: "abc", expected: "abc"},
		{name: "nan fullname falls back to username", fullname: "nan", username: "abc", expected: "abc"},
		{name: "both nan", fullname: "nan", username: "nan", expected: "User"},
		{name: "both empty", fullname: "", username: "", expected: "User"},
		{name: "whitespace trimmed", fullname: "  Jane  ", username: "", expected: "Jane"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []RawRecipientRow{
				{Email: "a@b.com", FullName: tt.fullname, Username: tt.username},
			}

			recipients, err := BuildRecipients(rows, MergeInfo{})
			require.NoError(t, err)
			require.Len(t, recipients, 1)
			assert.Equal(t, tt.expected, recipients[0].EmailAddress.Name)
			assert.Equal(t, tt.expected, recipients[0].MergeInfo["name"])
		})
	}
}

func TestBuildRecipientsCopiesMergeInfo(t *testing.T) {
	merge := MergeInfo{
		"team":         "Acct Bank Team",
		"product_name": "Acct Bank",
	}

	rows := []RawRecipientRow{
		{Email: "a@b.com", FullName: "Alice"},
		{Email: "c@d.com", FullName: "Carol"},
	}

	recipients, err := BuildRecipients(rows, merge)
	require.NoError(t, err)
	require.Len(t, recipients, 2)

	// Per-recipient name must not leak into the shared campaign map
	assert.NotContains(t, merge, "name")
	assert.Equal(t, "Alice", recipients[0].MergeInfo["name"])
	assert.Equal(t, "Carol", recipients[1].MergeInfo["name"])
	assert.Equal(t, "Acct Bank Team", recipients[0].MergeInfo["team"])
	assert.Equal(t, "Acct Bank Team", recipients[1].MergeInfo["team"])
}

func TestBuildRecipientsPreservesOrder(t *testing.T) {
	rows := []RawRecipientRow{
		{Email: "first@example.com"},
		{Email: "bad-email"},
		{Email: "second@example.com"},
		{Email: "third@example.com"},
	}

	recipients, err := BuildRecipients(rows, MergeInfo{})
	require.NoError(t, err)
	require.Len(t, recipients, 3)
	assert.Equal(t, "first@example.com", recipients[0].EmailAddress.Address)
	assert.Equal(t, "second@example.com", recipients[1].EmailAddress.Address)
	assert.Equal(t, "third@example.com", recipients[2].EmailAddress.Address)
}

func TestBuildRecipientsNoValidRows(t *testing.T) {
	rows := []RawRecipientRow{
		{Email: ""},
		{Email: "nan"},
		{Email: "not-an-email"},
	}

	recipients, err := BuildRecipients(rows, MergeInfo{})
	assert.ErrorIs(t, err, ErrNoValidRecipients)
	assert.Nil(t, recipients)
}

func TestBuildRecipientsEmptyInput(t *testing.T) {
	recipients, err := BuildRecipients(nil, MergeInfo{})
	assert.ErrorIs(t, err, ErrNoValidRecipients)
	assert.Nil(t, recipients)
}
