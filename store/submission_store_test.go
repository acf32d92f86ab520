package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/web/models"
)

func newTestSubmissionStore(t *testing.T) (*SubmissionStore, string, string) {
	t.Helper()
	dir := t.TempDir()
	textPath := filepath.Join(dir, "database.txt")
	csvPath := filepath.Join(dir, "database.csv")
	return NewSubmissionStore(textPath, csvPath), textPath, csvPath
}

func TestAppendWritesBothSinks(t *testing.T) {
	s, textPath, csvPath := newTestSubmissionStore(t)

	sub := models.ContactSubmission{
		Name:        "Ada",
		Email:       "ada@example.com",
		Message:     "hello there",
		SubmittedAt: time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
	}
	require.NoError(t, s.Append(sub))

	text, err := os.ReadFile(textPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(text), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "2026-08-01T12:30:00Z,Ada,ada@example.com,hello there", lines[0])

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"2026-08-01T12:30:00Z", "Ada", "ada@example.com", "hello there"}, records[0])
}

func TestAppendAccumulates(t *testing.T) {
	s, textPath, csvPath := newTestSubmissionStore(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(models.ContactSubmission{
			Name:        "Bob",
			Email:       "bob@example.com",
			Message:     "ping",
			SubmittedAt: time.Now(),
		}))
	}

	text, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(string(text), "\n"), "\n"), 3)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestAppendQuotesCSVFields(t *testing.T) {
	s, _, csvPath := newTestSubmissionStore(t)

	sub := models.ContactSubmission{
		Name:        `Eve "the tester"`,
		Email:       "eve@example.com",
		Message:     "one, two, three",
		SubmittedAt: time.Now(),
	}
	require.NoError(t, s.Append(sub))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sub.Name, records[0][1])
	assert.Equal(t, sub.Message, records[0][3])
}

func TestAppendFailsWhenSinkUnwritable(t *testing.T) {
	dir := t.TempDir()
	s := NewSubmissionStore(
		filepath.Join(dir, "missing", "database.txt"),
		filepath.Join(dir, "database.csv"),
	)

	err := s.Append(models.ContactSubmission{Name: "x", Email: "x@example.com", Message: "x", SubmittedAt: time.Now()})
	require.Error(t, err)

	// The CSV sink must not have been touched after the text write failed.
	_, statErr := os.Stat(filepath.Join(dir, "database.csv"))
	assert.True(t, os.IsNotExist(statErr))
}
