package present

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor   = lipgloss.Color("#FF6B9D")
	secondaryColor = lipgloss.Color("#C792EA")
	accentColor    = lipgloss.Color("#89DDFF")
	mutedColor     = lipgloss.Color("#6C7086")
	errorColor     = lipgloss.Color("#F38BA8")

	infoStyle  = lipgloss.NewStyle().Foreground(accentColor)
	warnStyle  = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	titleStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	bodyStyle  = lipgloss.NewStyle().Foreground(mutedColor)
)

// Terminal is the styled stdout/stderr Printer + ProgressReporter
// implementation, the CLI's default.
type Terminal struct {
	bar   progress.Model
	total int
	done  int
}

// NewTerminal constructs a Terminal printer/progress reporter.
func NewTerminal() *Terminal {
	return &Terminal{bar: progress.New(progress.WithDefaultGradient())}
}

func (t *Terminal) Info(msg string) {
	fmt.Fprintln(os.Stdout, infoStyle.Render(msg))
}

func (t *Terminal) Warn(msg string) {
	fmt.Fprintln(os.Stderr, warnStyle.Render("warn: "+msg))
}

func (t *Terminal) Error(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+msg))
}

func (t *Terminal) Result(title, body string) {
	fmt.Fprintln(os.Stdout, titleStyle.Render(title))
	fmt.Fprintln(os.Stdout, bodyStyle.Render(body))
}

func (t *Terminal) Start(total int) {
	t.total = total
	t.done = 0
	if total <= 0 {
		return
	}
	fmt.Fprintln(os.Stdout, t.bar.ViewAs(0))
}

func (t *Terminal) Advance(label string) {
	t.done++
	if t.total <= 0 {
		return
	}
	pct := float64(t.done) / float64(t.total)
	fmt.Fprintf(os.Stdout, "%s %s\n", t.bar.ViewAs(pct), bodyStyle.Render(label))
}

func (t *Terminal) Finish() {
	if t.total <= 0 {
		return
	}
	fmt.Fprintln(os.Stdout, t.bar.ViewAs(1))
}
