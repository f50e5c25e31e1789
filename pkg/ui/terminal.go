package ui

import (
	"os"
	"runtime"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/term"
)

var (
	unicodeOnce sync.Once
	unicodeOK   bool
)

// UnicodeTerminal reports whether stderr is a terminal that renders
// box-drawing characters. Windows consoles qualify only inside Windows
// Terminal.
func UnicodeTerminal() bool {
	unicodeOnce.Do(func() {
		switch {
		case os.Getenv("TERM") == "dumb":
		case !term.IsTerminal(int(os.Stderr.Fd())):
		case runtime.GOOS == "windows":
			unicodeOK = os.Getenv("WT_SESSION") != ""
		default:
			unicodeOK = true
		}
	})
	return unicodeOK
}

// boxSet holds the glyphs used to frame the summary tables.
type boxSet struct {
	top, middle, bottom string
	side                string
}

var (
	unicodeBox = boxSet{top: "┌┐", middle: "├┤", bottom: "└┘", side: "│"}
	asciiBox   = boxSet{top: "++", middle: "++", bottom: "++", side: "|"}
)

func box() boxSet {
	if UnicodeTerminal() && !IsNoColor() {
		return unicodeBox
	}
	return asciiBox
}

// rule draws a horizontal box edge of width cells using the corner pair.
func (b boxSet) rule(corners string, width int) string {
	c := []rune(corners)
	line := "-"
	if b.side != "|" {
		line = "─"
	}
	return "  " + string(c[0]) + strings.Repeat(line, width-2) + string(c[1])
}

// SanitizeString drops characters a legacy console would garble. Latin
// letters stay, since application and component names often carry them.
func SanitizeString(s string) string {
	if UnicodeTerminal() {
		return s
	}
	return sanitize(s)
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteByte('?')
		case r <= 0xFF, unicode.Is(unicode.Latin, r):
			b.WriteRune(r)
		}
		s = s[size:]
	}
	return b.String()
}
