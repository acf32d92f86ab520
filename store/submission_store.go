package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"portfolio/web/models"
)

// SubmissionStore appends contact-form submissions to two independent sinks:
// a line-delimited text file and a CSV file, in that order. The two appends
// are not atomic as a pair; a crash between them can leave the sinks
// inconsistent, which is acceptable at this site's scale. The mutex keeps
// concurrent submissions from interleaving within a single file.
type SubmissionStore struct {
	mu       sync.Mutex
	textPath string
	csvPath  string
}

func NewSubmissionStore(textPath, csvPath string) *SubmissionStore {
	return &SubmissionStore{
		textPath: textPath,
		csvPath:  csvPath,
	}
}

// Append writes one submission to both sinks. If the text write fails the
// CSV sink is not touched.
func (s *SubmissionStore) Append(sub models.ContactSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendText(sub); err != nil {
		return err
	}
	return s.appendCSV(sub)
}

func (s *SubmissionStore) appendText(sub models.ContactSubmission) error {
	f, err := os.OpenFile(s.textPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open text sink: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s,%s,%s,%s\n",
		sub.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z"),
		sub.Name, sub.Email, sub.Message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to text sink: %w", err)
	}

	return nil
}

func (s *SubmissionStore) appendCSV(sub models.ContactSubmission) error {
	f, err := os.OpenFile(s.csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open CSV sink: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	record := []string{
		sub.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z"),
		sub.Name,
		sub.Email,
		sub.Message,
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to append to CSV sink: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV sink: %w", err)
	}

	return nil
}
