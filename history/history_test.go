package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSinkAppendsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	s, err := NewSink(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, line := range []string{"first line", "  second line  ", "third"} {
		if err := s.Append(line); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "--- 2") {
		t.Errorf("missing session header:\n%s", content)
	}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	got := lines[len(lines)-3:]
	want := []string{"first line", "second line", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSinkDropsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	s, err := NewSink(path)
	if err != nil {
		t.Fatal(err)
	}

	before, _ := os.ReadFile(path)
	for _, line := range []string{"", "   ", "\t\n"} {
		if err := s.Append(line); err != nil {
			t.Fatal(err)
		}
	}
	after, _ := os.ReadFile(path)

	if len(before) != len(after) {
		t.Errorf("empty appends grew the file: %d -> %d bytes", len(before), len(after))
	}
}

func TestSinkMultipleSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")

	s1, err := NewSink(path)
	if err != nil {
		t.Fatal(err)
	}
	s1.Append("session one")

	s2, err := NewSink(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Append("session two")

	data, _ := os.ReadFile(path)
	content := string(data)

	if strings.Count(content, "--- ") != 2 {
		t.Errorf("want 2 session headers:\n%s", content)
	}
	one := strings.Index(content, "session one")
	two := strings.Index(content, "session two")
	if one < 0 || two < 0 || one > two {
		t.Errorf("sessions out of order:\n%s", content)
	}
}

func TestSinkBadPath(t *testing.T) {
	if _, err := NewSink(filepath.Join(t.TempDir(), "missing", "dir", "h.txt")); err == nil {
		t.Error("expected error for unwritable path")
	}
}
