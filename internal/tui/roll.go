package tui

import (
	"fmt"
	"strings"

	"liveroll/sequencer"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the pitch name for a MIDI note number, e.g. 60 ->
// "C4".
func NoteName(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note)/12-1)
}

var velocityGlyphs = [5]rune{' ', '░', '▒', '▓', '█'}

// RenderRoll draws a finished take as text: one line per pitch from
// highest to lowest, time running left to right, velocity shading per
// cell. Takes longer than width ticks are downsampled by keeping the
// loudest velocity in each column.
func RenderRoll(m *sequencer.Matrix, width int) string {
	if m == nil || m.Len() == 0 {
		return "(empty take)"
	}
	if width < 1 {
		width = 1
	}

	lo, hi := pitchRange(m)
	if lo > hi {
		return "(silent take)"
	}

	cols := m.Len()
	if cols > width {
		cols = width
	}

	var b strings.Builder
	for note := hi; note >= lo; note-- {
		fmt.Fprintf(&b, "%4s |", NoteName(uint8(note)))
		for c := 0; c < cols; c++ {
			start := c * m.Len() / cols
			end := (c + 1) * m.Len() / cols
			b.WriteRune(velocityGlyphs[glyphIndex(columnMax(m, uint8(note), start, end))])
		}
		b.WriteString("|\n")
	}
	return b.String()
}

// pitchRange finds the lowest and highest pitch with any velocity. When
// the take is silent lo > hi.
func pitchRange(m *sequencer.Matrix) (lo, hi int) {
	lo, hi = sequencer.NumPitches, -1
	for _, row := range m.Rows() {
		for n, v := range row {
			if v == 0 {
				continue
			}
			if n < lo {
				lo = n
			}
			if n > hi {
				hi = n
			}
		}
	}
	return lo, hi
}

func columnMax(m *sequencer.Matrix, note uint8, start, end int) uint8 {
	var max uint8
	for t := start; t < end; t++ {
		if v := m.At(t, note); v > max {
			max = v
		}
	}
	return max
}

func glyphIndex(v uint8) int {
	switch {
	case v == 0:
		return 0
	case v < 32:
		return 1
	case v < 64:
		return 2
	case v < 96:
		return 3
	}
	return 4
}
