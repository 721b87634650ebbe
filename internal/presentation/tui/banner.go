package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the formflow banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	title := termenv.String(" formflow ").Bold().Foreground(p.Color("#f8fafc")).Background(p.Color("#4f46e5"))
	ver := termenv.String("v" + strings.TrimSpace(version)).Foreground(p.Color("#a78bfa"))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", title, ver)
	fmt.Fprintln(w, termenv.String("Answer each question; type 'exit' to stop.").Faint())
	fmt.Fprintln(w)
}
