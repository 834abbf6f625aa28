package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Color functions for terminal output
var (
	Cyan   = colorize("\033[36m%s\033[0m")
	Yellow = colorize("\033[33m%s\033[0m")
	Red    = colorize("\033[31m%s\033[0m")
	Green  = colorize("\033[32m%s\033[0m")
	Dim    = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// Printer writes human-readable progress lines. It is kept off stdout so the
// report can be piped.
type Printer struct {
	w     io.Writer
	quiet bool
	color bool
}

// NewPrinter creates a Printer writing to w. Colors are used only when w is a
// terminal. A quiet Printer drops progress lines but still prints errors.
func NewPrinter(w io.Writer, quiet bool) *Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{w: w, quiet: quiet, color: color}
}

// Discard returns a Printer that prints nothing
func Discard() *Printer {
	return &Printer{w: io.Discard, quiet: true}
}

func (p *Printer) paint(fn func(string) string, s string) string {
	if !p.color {
		return s
	}
	return fn(s)
}

// Checking announces that a thread's comments are being fetched
func (p *Printer) Checking(title string, posted time.Time) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "%s %s, posted %s\n", p.paint(Cyan, "Checking"), title, p.paint(Dim, posted.Format("2006-01-02")))
}

// Found reports how many comments made the cut
func (p *Printer) Found(n int) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "%s %d comments\n", p.paint(Green, "Found"), n)
}

// PrintInfo prints a label/value pair
func (p *Printer) PrintInfo(label, value string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "%s: %s\n", p.paint(Cyan, label), p.paint(Yellow, value))
}

// PrintWarning prints a warning message
func (p *Printer) PrintWarning(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.w, p.paint(Yellow, msg))
}

// PrintError prints an error message, optionally followed by its cause. Errors
// are printed even in quiet mode.
func (p *Printer) PrintError(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	fmt.Fprintln(p.w, p.paint(Red, msg))
}
