package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/raudyagdel/veracli/pkg/defaults"
)

// Version information - these can be overridden at build time via ldflags:
// go build -ldflags "-X github.com/raudyagdel/veracli/pkg/ui.Commit=abc123"
var (
	Version   = defaults.Version
	BuildDate = "unknown"
	Commit    = "dev"
)

// console is the process-wide output state shared by the print helpers.
var console = struct {
	sync.RWMutex
	silent  bool
	noColor bool
	out     io.Writer
}{out: os.Stderr}

// SetSilent suppresses everything except errors.
func SetSilent(silent bool) {
	console.Lock()
	console.silent = silent
	console.Unlock()
}

// IsSilent reports whether SetSilent(true) is in effect.
func IsSilent() bool {
	console.RLock()
	defer console.RUnlock()
	return console.silent
}

// SetNoColor turns colour off. Colour is always off when stderr is not a
// terminal.
func SetNoColor(noColor bool) {
	if !noColor && !term.IsTerminal(int(os.Stderr.Fd())) {
		noColor = true
	}
	console.Lock()
	console.noColor = noColor
	console.Unlock()
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor reports whether colour is off.
func IsNoColor() bool {
	console.RLock()
	defer console.RUnlock()
	return console.noColor
}

// SetOutput redirects all UI output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	console.Lock()
	defer console.Unlock()
	prev := console.out
	console.out = w
	return prev
}

func writer() io.Writer {
	console.RLock()
	defer console.RUnlock()
	return console.out
}

const bannerArt = `
                          ___ 
 _  _____ _______ _______/ (_)
| |/ / -_) __/ _ '/ __/ / / / 
|___/\__/_/  \_,_/\__/_/_/_/  
`

var titleCaser = cases.Title(language.English)

// PrintBanner prints the ASCII logo and version.
func PrintBanner() {
	if IsSilent() {
		return
	}
	w := writer()
	for _, line := range strings.Split(bannerArt, "\n") {
		if line != "" {
			fmt.Fprintln(w, BannerStyle.Render(line))
		}
	}
	fmt.Fprintf(w, "            v%s\n\n", VersionStyle.Render(Version))
}

// PrintDivider prints a horizontal rule.
func PrintDivider() {
	fmt.Fprintln(writer(), DividerStyle.Render(strings.Repeat("-", 60)))
}

// PrintSection prints a title-cased heading followed by a rule.
func PrintSection(title string) {
	if IsSilent() {
		return
	}
	w := writer()
	fmt.Fprintln(w)
	fmt.Fprintln(w, SectionStyle.Render("> "+titleCaser.String(title)))
	PrintDivider()
}

// PrintConfigLine prints an aligned "key: value" line.
func PrintConfigLine(key, value string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(writer(), "  %s %s\n",
		ConfigLabelStyle.Render(key+":"),
		ConfigValueStyle.Render(value),
	)
}

// PrintHelp prints a hint line. Hints accompany errors and are shown in
// silent mode.
func PrintHelp(text string) {
	status(HelpStyle, "[i]", text, true)
}

// PrintSuccess prints a "[+]" line.
func PrintSuccess(message string) {
	status(PassStyle, "[+]", message, false)
}

// PrintSaved prints a "[+]" line naming a written file, with the path
// highlighted.
func PrintSaved(what, path string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(writer(), "%s %s\n",
		PassStyle.Render("  [+] "+SanitizeString(what)+" saved to"),
		PathStyle.Render(SanitizeString(path)),
	)
}

// PrintError prints a "[X]" line, also in silent mode.
func PrintError(message string) {
	status(FailStyle, "[X]", message, true)
}

// PrintWarning prints a "[!]" line.
func PrintWarning(message string) {
	status(WarnStyle, "[!]", message, false)
}

// PrintInfo prints a "*" line.
func PrintInfo(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(writer(), "  %s %s\n", BannerStyle.Render("*"), SanitizeString(message))
}

func status(style Style, tag, message string, always bool) {
	if !always && IsSilent() {
		return
	}
	fmt.Fprintln(writer(), style.Render("  "+tag+" "+SanitizeString(message)))
}
