package dispatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSourceLoad(t *testing.T) {
	path := writeCSV(t, "email,fullname,username\na@b.com,Alice,alice\nc@d.com,,carol\n")

	rows, err := NewCSVSource(path).Load()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, RawRecipientRow{Email: "a@b.com", FullName: "Alice", Username: "alice"}, rows[0])
	assert.Equal(t, RawRecipientRow{Email: "c@d.com", FullName: "", Username: "carol"}, rows[1])
}

func TestCSVSourceColumnOrderIndependent(t *testing.T) {
	path := writeCSV(t, "Username,Email,Fullname\nalice,a@b.com,Alice\n")

	rows, err := NewCSVSource(path).Load()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a@b.com", rows[0].Email)
	assert.Equal(t, "Alice", rows[0].FullName)
	assert.Equal(t, "alice", rows[0].Username)
}

func TestCSVSourceShortRows(t *testing.T) {
	// Missing cells become empty strings, not a sentinel
	path := writeCSV(t, "email,fullname,username\na@b.com\n")

	rows, err := NewCSVSource(path).Load()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, RawRecipientRow{Email: "a@b.com"}, rows[0])
}

func TestCSVSourceMissingEmailColumn(t *testing.T) {
	path := writeCSV(t, "fullname,username\nAlice,alice\n")

	_, err := NewCSVSource(path).Load()
	assert.Error(t, err)
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv")).Load()
	assert.Error(t, err)
}

func TestCSVSourceEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	rows, err := NewCSVSource(path).Load()
	require.NoError(t, err)
	assert.Empty(t, rows)
}
