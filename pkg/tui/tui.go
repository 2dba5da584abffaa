// Package tui runs a combobox form in the terminal.
package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/combox/internal/ui"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
// If detection fails completely, returns generous defaults (120, 24) to avoid
// overly narrow output in CI or non-TTY environments.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 24
}

// ErrUnexpectedModel is returned when the program exits with a model that is
// not the form it was started with.
var ErrUnexpectedModel = errors.New("unexpected final model")

// Run builds the form described by cfg and runs it until it is submitted or
// abandoned. Host applications can pass tea.ProgramOption values to control IO.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) (ui.Result, error) {
	form, err := NewForm(ctx, cfg)
	if err != nil {
		return ui.Result{}, err
	}
	if cfg.Width > 0 || cfg.Height > 0 {
		w, h := cfg.Width, cfg.Height
		if w <= 0 || h <= 0 {
			dw, dh := DetectTerminalSize()
			if w <= 0 {
				w = dw
			}
			if h <= 0 {
				h = dh
			}
		}
		opts = append(opts, tea.WithWindowSize(w, h))
	}
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	final, err := tea.NewProgram(form, opts...).Run()
	if err != nil {
		return ui.Result{}, err
	}
	fm, ok := final.(*ui.Form)
	if !ok {
		return ui.Result{}, ErrUnexpectedModel
	}
	return fm.Result(), nil
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
