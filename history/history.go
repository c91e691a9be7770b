// Package history appends accepted transcript lines to a plain text file.
// Each session starts with a timestamp header so multiple runs stay
// readable in one file.
package history

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Sink struct {
	path string
}

// NewSink writes the session header and returns a sink that appends to
// path. The file handle is not held between calls, so the file stays
// readable by other tools while the session runs.
func NewSink(path string) (*Sink, error) {
	s := &Sink{path: path}
	header := fmt.Sprintf("\n--- %s ---\n", time.Now().Format("2006-01-02 15:04:05"))
	if err := s.write(header); err != nil {
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	return s, nil
}

func (s *Sink) Path() string { return s.path }

// Append writes text as one line. Empty or whitespace-only text is
// silently dropped.
func (s *Sink) Append(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.write(text + "\n")
}

func (s *Sink) write(data string) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(data)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
