package tui

import (
	"strings"
	"testing"

	"liveroll/sequencer"
)

func TestNoteName(t *testing.T) {
	cases := []struct {
		note uint8
		want string
	}{
		{0, "C-1"},
		{21, "A0"},
		{60, "C4"},
		{61, "C#4"},
		{69, "A4"},
		{127, "G9"},
	}
	for _, c := range cases {
		if got := NoteName(c.note); got != c.want {
			t.Errorf("NoteName(%d) = %q, want %q", c.note, got, c.want)
		}
	}
}

func TestRenderRollEmpty(t *testing.T) {
	if got := RenderRoll(nil, 40); got != "(empty take)" {
		t.Errorf("nil matrix: %q", got)
	}
	if got := RenderRoll(sequencer.NewMatrix(0), 40); got != "(empty take)" {
		t.Errorf("zero-tick matrix: %q", got)
	}
	if got := RenderRoll(sequencer.NewMatrix(16), 40); got != "(silent take)" {
		t.Errorf("silent matrix: %q", got)
	}
}

func TestRenderRollShadesAndLabels(t *testing.T) {
	m := sequencer.NewMatrix(8)
	for tick := 0; tick < 4; tick++ {
		m.Set(tick, 60, 100)
	}
	m.Set(6, 64, 20)

	out := RenderRoll(m, 40)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// One line per pitch in the sounding range, highest first.
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5 (E4 down to C4):\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "  E4") {
		t.Errorf("top line should be E4: %q", lines[0])
	}
	if !strings.HasPrefix(lines[4], "  C4") {
		t.Errorf("bottom line should be C4: %q", lines[4])
	}

	// Velocity 100 renders as the heaviest shade, 20 as the lightest.
	if !strings.Contains(lines[4], "█") {
		t.Errorf("C4 line missing loud shade: %q", lines[4])
	}
	if !strings.Contains(lines[0], "░") {
		t.Errorf("E4 line missing quiet shade: %q", lines[0])
	}
	// D4 never sounds.
	if strings.Trim(strings.SplitN(lines[2], "|", 2)[1], " |") != "" {
		t.Errorf("D4 line should be blank: %q", lines[2])
	}
}

func TestRenderRollDownsamples(t *testing.T) {
	m := sequencer.NewMatrix(100)
	for tick := 0; tick < 100; tick++ {
		m.Set(tick, 48, 100)
	}

	out := RenderRoll(m, 10)
	line := strings.TrimRight(strings.Split(out, "\n")[0], "\n")
	cells := strings.SplitN(line, "|", 3)[1]
	if len([]rune(cells)) != 10 {
		t.Errorf("got %d columns, want 10: %q", len([]rune(cells)), line)
	}
	for _, r := range cells {
		if r != '█' {
			t.Errorf("every column should carry the loudest shade: %q", line)
		}
	}
}
