package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"memoir/backend/internal/apperrors"
	"memoir/backend/internal/models"
	"memoir/backend/pkg/filenames"
)

const enhancementPlaceholder = "No AI enhancement provided."

// FileStore mirrors saved entries as plain-text files in a local directory.
// The mirror is best effort: callers absorb Save failures and proceed with
// the database write.
type FileStore struct {
	dir string // absolute path of the journal files directory
}

// NewFileStore creates the journal files directory if it does not exist yet
// and resolves it to an absolute path for the traversal guard.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal files dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve journal files dir: %w", err)
	}
	return &FileStore{dir: abs}, nil
}

// Dir returns the absolute path of the journal files directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes the entry's text mirror and returns the generated filename.
// The filename combines the sanitized title with a microsecond timestamp so
// identical titles saved in rapid succession still get unique names.
// Image bytes are never written to the mirror, only a marker line.
func (s *FileStore) Save(entry models.JournalEntry) (string, error) {
	now := time.Now()
	name := fmt.Sprintf("%s_%s_%06d.txt",
		filenames.Sanitize(entry.Title),
		now.Format("20060102_150405"),
		now.Nanosecond()/1000)

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", entry.Title)
	fmt.Fprintf(&b, "Date: %s Time: %s\n", entry.Date, entry.Time)
	if entry.ImageURL != nil && *entry.ImageURL != "" {
		b.WriteString("Image Attached: Yes (Base64 data not stored in text file for brevity)\n")
	}
	b.WriteString("\n-- Original Entry --\n")
	b.WriteString(entry.OriginalText)
	b.WriteString("\n\n-- AI-Enhanced Version --\n")
	if entry.EnhancedText != nil && *entry.EnhancedText != "" {
		b.WriteString(*entry.EnhancedText)
	} else {
		b.WriteString(enhancementPlaceholder)
	}
	b.WriteString("\n")

	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write mirror file: %w", err)
	}
	return name, nil
}

// Path resolves a requested filename to an absolute path inside the journal
// files directory. It returns ErrPathEscape when the resolved path would
// land outside the directory and ErrNotFound when no such file exists.
func (s *FileStore) Path(name string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", name, err)
	}
	if abs != s.dir && !strings.HasPrefix(abs, s.dir+string(os.PathSeparator)) {
		return "", apperrors.ErrPathEscape
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("stat %q: %w", name, err)
	}
	if info.IsDir() {
		return "", apperrors.ErrNotFound
	}
	return abs, nil
}
