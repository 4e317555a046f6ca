// Package text implements the pure text-measurement contract consumed by the
// layout engine and frame buffer builder (§6): unicode display width, word
// wrap with character fallback, and truncation with a suffix.
package text

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// stripANSI removes CSI/OSC escape sequences so measurement only counts
// visible glyphs (§6 "stripping ANSI escape bytes").
func stripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == ']' {
			// OSC: runs until BEL or ST (ESC \).
			j := i + 2
			for j < len(s) && s[j] != 0x07 && !(s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\') {
				j++
			}
			if j < len(s) && s[j] == 0x1b {
				j += 2
			} else if j < len(s) {
				j++
			}
			i = j - 1
			continue
		}
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && !isCSIFinal(s[j]) {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j - 1
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isCSIFinal(b byte) bool { return b >= 0x40 && b <= 0x7e }

// Width returns the unicode display width of s: wide CJK-class runes count
// 2, combining marks count 0, everything else counts 1; ANSI escapes are
// stripped first.
func Width(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

// RuneWidth returns the display width of a single rune (0, 1, or 2).
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// WrapMode selects the wrapping behavior used by Wrap.
type WrapMode uint8

const (
	// WrapWord breaks on word boundaries, falling back to a hard
	// character split for any single word wider than the available width.
	WrapWord WrapMode = iota
	// WrapNone performs no wrapping; the input is returned as one line.
	WrapNone
)

// Wrap breaks s into lines no wider than width display cells (§4.C step 2,
// §6). Word boundaries are preferred (via muesli/reflow's wordwrap); a word
// that alone exceeds width is hard-split at the character level, which
// reflow's wordwrap does not do on its own.
func Wrap(s string, width int, mode WrapMode) []string {
	if width <= 0 {
		width = 1
	}
	if mode == WrapNone {
		return []string{stripANSI(s)}
	}
	clean := stripANSI(s)
	if Width(clean) <= width {
		if clean == "" {
			return []string{""}
		}
		return []string{clean}
	}

	wrapped := wordwrap.String(clean, width)
	var out []string
	for _, line := range strings.Split(wrapped, "\n") {
		out = append(out, hardSplit(line, width)...)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// hardSplit splits a single line (possibly still wider than width, when it
// is one unbreakable word) at character boundaries honoring display width.
func hardSplit(line string, width int) []string {
	if Width(line) <= width {
		return []string{line}
	}
	var out []string
	var cur strings.Builder
	curW := 0
	for _, r := range line {
		rw := RuneWidth(r)
		if curW+rw > width && curW > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curW = 0
		}
		cur.WriteRune(r)
		curW += rw
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// Truncate returns s clipped to at most width display cells, with suffix
// appended in place of the clipped tail (§4.C step 2, default suffix "…").
func Truncate(s string, width int, suffix string) string {
	clean := stripANSI(s)
	if Width(clean) <= width {
		return clean
	}
	if suffix == "" {
		suffix = "…"
	}
	suffixW := Width(suffix)
	budget := width - suffixW
	if budget <= 0 {
		return hardSplit(suffix, width)[0]
	}
	var b strings.Builder
	w := 0
	for _, r := range clean {
		rw := RuneWidth(r)
		if w+rw > budget {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + suffix
}
