package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Colour palette for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourAccent  = lipgloss.Color("#06B6D4")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
)

// printer writes command output, styled when the writer is a terminal.
type printer struct {
	w      io.Writer
	styled bool

	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	score   lipgloss.Style
	warning lipgloss.Style
}

func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	p := &printer{w: w, styled: isTerminal(w)}
	if p.styled {
		p.title = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
		p.label = lipgloss.NewStyle().Foreground(colourAccent)
		p.muted = lipgloss.NewStyle().Foreground(colourMuted)
		p.score = lipgloss.NewStyle().Foreground(colourSuccess)
		p.warning = lipgloss.NewStyle().Foreground(colourWarning)
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Title prints a heading followed by a blank line.
func (p *printer) Title(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	fmt.Fprintln(p.w, p.render(p.title, text))
	if !p.styled {
		fmt.Fprintln(p.w, strings.Repeat("=", len(text)))
	}
	fmt.Fprintln(p.w)
}

// Field prints an indented "label: value" line.
func (p *printer) Field(label string, format string, args ...any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.render(p.label, label+":"), fmt.Sprintf(format, args...))
}

// Line prints a plain line.
func (p *printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Muted prints a dimmed line.
func (p *printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(p.muted, fmt.Sprintf(format, args...)))
}

// Warn prints a highlighted warning line.
func (p *printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(p.warning, "Warning: "+fmt.Sprintf(format, args...)))
}

// Score formats a similarity or weight.
func (p *printer) Score(v float64) string {
	return p.render(p.score, fmt.Sprintf("%.3f", v))
}

// Blank prints an empty line.
func (p *printer) Blank() {
	fmt.Fprintln(p.w)
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// joinOrNone joins values, or returns "(none)" for an empty list.
func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
