package pdfsearch

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractMatchesExact(t *testing.T) {
	matches := ExtractMatches("This document contains the number 123456789 in the middle.", "123456789")

	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if !strings.Contains(matches[0].Excerpt, "123456789") {
		t.Errorf("excerpt %q does not contain the term", matches[0].Excerpt)
	}
	if matches[0].Approximate {
		t.Error("exact hit tagged approximate")
	}
}

func TestExtractMatchesNormalized(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantText string
	}{
		{"spaces", "This document contains the number 123 456 789 with spaces.", "123 456 789"},
		{"dashes", "Document with NIP number: 123-456-789 (dashed format).", "123-456-789"},
		{"mixed", "The ID is: 123.456/789 in this format.", "123.456/789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := ExtractMatches(tt.text, "123456789")
			if len(matches) == 0 {
				t.Fatal("expected a normalized match")
			}
			if !matches[0].Approximate {
				t.Error("normalized hit not tagged approximate")
			}
			if !strings.Contains(matches[0].Excerpt, tt.wantText) {
				t.Errorf("excerpt %q does not contain formatted region %q", matches[0].Excerpt, tt.wantText)
			}
		})
	}
}

func TestExtractMatchesEmptyTerm(t *testing.T) {
	if got := ExtractMatches("any text at all", ""); len(got) != 0 {
		t.Errorf("empty term returned %d matches, want 0", len(got))
	}
}

func TestExtractMatchesCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "Number %d: 123456789 ", i)
	}

	matches := ExtractMatches(sb.String(), "123456789")
	if len(matches) > 5 {
		t.Errorf("got %d matches, cap is 5", len(matches))
	}
	if len(matches) != 5 {
		t.Errorf("got %d matches, want the full cap of 5", len(matches))
	}
}

func TestExtractMatchesShortTermSkipsNormalization(t *testing.T) {
	// "xyz" is absent and too short for the normalized pass.
	if got := ExtractMatches("Document with ABC code.", "xyz"); len(got) != 0 {
		t.Errorf("short absent term returned %d matches, want 0", len(got))
	}

	// A short term that occurs exactly still matches.
	if got := ExtractMatches("Document with ABC code.", "abc"); len(got) != 1 {
		t.Errorf("short exact term returned %d matches, want 1", len(got))
	}
}

func TestExtractMatchesCaseInsensitive(t *testing.T) {
	matches := ExtractMatches("The code is ABC123DEF456 here.", "abc123def456")
	if len(matches) == 0 {
		t.Fatal("expected a case-insensitive match")
	}
	if matches[0].Approximate {
		t.Error("case-folded exact hit tagged approximate")
	}
}

func TestExtractMatchesExactPreferredOverNormalized(t *testing.T) {
	matches := ExtractMatches("First: 123456789, second: 123 456 789, third: 123-456-789", "123456789")

	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	// The exact pass found a hit, so the normalized pass must not run.
	for _, m := range matches {
		if m.Approximate {
			t.Errorf("approximate match %q emitted despite exact hit", m.Excerpt)
		}
	}
}

func TestAnnotated(t *testing.T) {
	exact := Match{Excerpt: "NIP 123456789"}
	if got := exact.Annotated(); got != "NIP 123456789" {
		t.Errorf("Annotated exact = %q", got)
	}

	approx := Match{Excerpt: "NIP 123-456-789", Approximate: true}
	want := ApproximateMarker + " NIP 123-456-789"
	if got := approx.Annotated(); got != want {
		t.Errorf("Annotated approximate = %q, want %q", got, want)
	}
}

func TestExtractMatchesExcerptBounded(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 100) + "123456789" + strings.Repeat(" dolor sit", 100)
	matches := ExtractMatches(long, "123456789")
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if len([]rune(matches[0].Excerpt)) > len("123456789")+2*excerptContext {
		t.Errorf("excerpt length %d exceeds window", len(matches[0].Excerpt))
	}
}
