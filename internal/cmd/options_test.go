package cmd

import (
	"testing"
)

func TestParseBoolOption(t *testing.T) {
	for _, s := range []string{"true", "1", "false", "0", "random"} {
		if _, err := parseBoolOption(s); err != nil {
			t.Fatalf("parseBoolOption(%q) returned error: %v", s, err)
		}
	}
	if _, err := parseBoolOption("maybe"); err == nil {
		t.Fatal("expected error for unknown value")
	}
}

func TestParseModeOption(t *testing.T) {
	for _, s := range []string{"random", "ink_to_paper", "multiply", "FFT", "grain_merge"} {
		if _, err := parseModeOption(s); err != nil {
			t.Fatalf("parseModeOption(%q) returned error: %v", s, err)
		}
	}
	if _, err := parseModeOption("average"); err == nil {
		t.Fatal("expected error for unknown blend method")
	}
}

func TestKnownKindRejectsUnknown(t *testing.T) {
	if knownKind("glitter") {
		t.Fatal("unknown kind accepted")
	}
	if !knownKind("rough_stains") {
		t.Fatal("valid kind rejected")
	}
}
