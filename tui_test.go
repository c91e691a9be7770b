package main

import (
	"testing"
	"unicode/utf8"
)

func TestWrapTextBreaksOnSpaces(t *testing.T) {
	got := wrapText("the quick brown fox", 10)
	want := []string{"the quick", "brown fox"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWrapTextMultibyte(t *testing.T) {
	got := wrapText("Grüße aus München", 10)
	want := []string{"Grüße aus", "München"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWrapTextNeverSplitsARune(t *testing.T) {
	// No spaces, so every line is a hard cut at the width.
	for _, line := range wrapText("ääääääää", 3) {
		if !utf8.ValidString(line) {
			t.Errorf("line %q is not valid UTF-8", line)
		}
		if n := utf8.RuneCountInString(line); n > 3 {
			t.Errorf("line %q is %d runes wide, want <= 3", line, n)
		}
	}
}

func TestWrapTextShortAndEmpty(t *testing.T) {
	if got := wrapText("", 10); got != nil {
		t.Errorf("empty input: got %v, want nil", got)
	}
	got := wrapText("kurz", 10)
	if len(got) != 1 || got[0] != "kurz" {
		t.Errorf("got %v, want [kurz]", got)
	}
}
