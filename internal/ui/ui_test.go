package ui

import (
	"strings"
	"testing"
)

func TestProgressBarBounds(t *testing.T) {
	if got := ProgressBar(0, 0, 10); !strings.Contains(got, "0%") {
		t.Errorf("empty bar = %q", got)
	}
	if got := ProgressBar(5, 5, 10); !strings.Contains(got, "100%") {
		t.Errorf("full bar = %q", got)
	}
	// overflow clamps instead of panicking
	if got := ProgressBar(9, 5, 10); !strings.Contains(got, "█") {
		t.Errorf("overflow bar = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	got := Truncate("a very long label indeed", 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate long = %q", got)
	}
	// multibyte runes must not be split
	got = Truncate("héllo wörld égalité", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("Truncate multibyte = %q (%d runes)", got, len([]rune(got)))
	}
}

func TestPanelStringFramesAllLines(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	out := PanelString([]string{"one", "a longer line"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 framed lines, got %d", len(lines))
	}
	width := len(lines[0])
	for i, ln := range lines {
		if len(ln) != width {
			t.Errorf("line %d width %d != %d", i, len(ln), width)
		}
	}
}

func TestCheckboxFollowsTheme(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")
	if Checkbox(true) != "[x]" {
		t.Errorf("checked = %q", Checkbox(true))
	}
	if Checkbox(false) != "[ ]" {
		t.Errorf("unchecked = %q", Checkbox(false))
	}
}

func TestLeavingMonoRestoresColor(t *testing.T) {
	SetColorForcing(true, false)
	defer SetColorForcing(false, false)
	defer SetTheme("classic")

	SetTheme("mono")
	if got := Checkbox(true); strings.Contains(got, "\033[") {
		t.Errorf("mono must not emit color codes, got %q", got)
	}
	SetTheme("classic")
	if got := Checkbox(true); !strings.Contains(got, "\033[") {
		t.Errorf("classic after mono should emit color codes again, got %q", got)
	}
}
