package filter

import "testing"

func TestShortTextRejected(t *testing.T) {
	f := New()
	for _, text := range []string{"", " ", "a", "ab", "  ab  ", "\t\n"} {
		if !f.IsHallucination(text) {
			t.Errorf("IsHallucination(%q) = false, want true", text)
		}
	}
}

func TestShortMultibyteTextRejected(t *testing.T) {
	f := New()
	// Two characters even when they are more than two bytes.
	for _, text := range []string{"äh", "ää", "  öh  ", "ßö"} {
		if !f.IsHallucination(text) {
			t.Errorf("IsHallucination(%q) = false, want true (2 chars)", text)
		}
	}
	// Three characters with umlauts must still pass the length check.
	if f.IsHallucination("öhm") {
		t.Error(`IsHallucination("öhm") = true, want false (3 chars)`)
	}
}

func TestKnownPhrasesRejected(t *testing.T) {
	f := New()
	for _, text := range []string{
		"Vielen Dank",
		"Danke fürs Zuschauen!",
		"Thank you for watching",
		"THANKS FOR WATCHING",
		"Don't forget to subscribe to my channel",
		"Untertitel von Studio XY",
		"Amen.",
		"so, thanks for watching everyone", // phrase embedded in longer text
	} {
		if !f.IsHallucination(text) {
			t.Errorf("IsHallucination(%q) = false, want true", text)
		}
	}
}

func TestNormalTextAccepted(t *testing.T) {
	f := New()
	for _, text := range []string{
		"Das Wetter wird morgen besser",
		"the quick brown fox",
		"Wir treffen uns um drei Uhr",
	} {
		if f.IsHallucination(text) {
			t.Errorf("IsHallucination(%q) = true, want false", text)
		}
	}
}

func TestExtraPhrases(t *testing.T) {
	f := New("wie geht's", "  LIKE AND SHARE  ")
	if !f.IsHallucination("Na, wie geht's denn so?") {
		t.Error("extra phrase not matched")
	}
	if !f.IsHallucination("like and share this video") {
		t.Error("extra phrase not normalized to lowercase")
	}

	plain := New()
	if plain.IsHallucination("Na, wie geht's denn so?") {
		t.Error("default filter should accept this text")
	}
}
