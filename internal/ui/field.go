package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/harmonica"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/combox/internal/combobox"
	"github.com/oakwood-commons/combox/internal/config"
)

const (
	defaultFieldWidth = 60
	minFieldWidth     = 16
	// labelLines is the label row plus the input row above the panel.
	labelLines = 2

	springFrequency = 8.0
	springDamping   = 1.0
)

// frameMsg advances the panel height animation of one field.
type frameMsg struct {
	field string
}

// Field is one labelled combobox: a text input, its listbox panel and the
// busy spinner.
type Field struct {
	name  string
	label string
	cb    *combobox.Combobox

	input    textinput.Model
	spinner  spinner.Model
	spinning bool

	theme     Theme
	width     int
	showAttrs bool

	spring    harmonica.Spring
	height    float64
	velocity  float64
	animating bool
}

type fieldOptions struct {
	config     config.FieldConfig
	transport  combobox.Transport
	parser     combobox.Parser
	loop       combobox.Loop
	clock      combobox.Clock
	ctx        context.Context
	maxVisible int
	theme      Theme
	showAttrs  bool
	navigate   func(combobox.Suggestion)
}

// PolicyForField resolves the variant policy of a configured field.
func PolicyForField(fc config.FieldConfig) (combobox.Policy, error) {
	policy, ok := combobox.PolicyFor(fc.Variant, combobox.SearchOptions{
		MinChars:   fc.MinChars,
		ClearDelay: fc.ClearDelay.Std(),
		CloseDelay: fc.CloseDelay.Std(),
	})
	if !ok {
		return policy, fmt.Errorf("field %q: unknown variant %q", fc.Name, fc.Variant)
	}
	if fc.MinChars > 0 {
		policy.MinChars = fc.MinChars
	}
	return policy, nil
}

func newField(opts fieldOptions) (*Field, error) {
	fc := opts.config
	policy, err := PolicyForField(fc)
	if err != nil {
		return nil, err
	}
	cb, err := combobox.New(combobox.Options{
		Policy:     policy,
		Transport:  opts.transport,
		Parser:     opts.parser,
		Loop:       opts.loop,
		Clock:      opts.clock,
		Delay:      fc.Debounce.Std(),
		Timeout:    fc.Timeout.Std(),
		MaxVisible: opts.maxVisible,
		ID:         fc.Name,
		Context:    opts.ctx,
		Navigate:   opts.navigate,
	})
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", fc.Name, err)
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = fc.Placeholder
	ti.CharLimit = 256

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = opts.theme.Spinner

	label := fc.Label
	if label == "" {
		label = fc.Name
	}
	f := &Field{
		name:      fc.Name,
		label:     label,
		cb:        cb,
		input:     ti,
		spinner:   sp,
		theme:     opts.theme,
		showAttrs: opts.showAttrs,
		spring:    harmonica.NewSpring(harmonica.FPS(60), springFrequency, springDamping),
	}
	f.height = float64(cb.Overlay().Height)
	f.SetSize(defaultFieldWidth, 0)
	return f, nil
}

func (f *Field) Name() string                 { return f.name }
func (f *Field) Label() string                { return f.label }
func (f *Field) Combobox() *combobox.Combobox { return f.cb }
func (f *Field) Value() string                { return f.input.Value() }

// SetSize sets the field width. Height is derived from the content.
func (f *Field) SetSize(width, _ int) {
	if width < minFieldWidth {
		width = minFieldWidth
	}
	f.width = width
	f.input.SetWidth(width - runewidth.StringWidth(f.input.Prompt) - 1)
}

// Focus gives the field keyboard focus.
func (f *Field) Focus() tea.Cmd {
	f.cb.Focus()
	cmd := f.input.Focus()
	return tea.Batch(cmd, f.settle())
}

// Blur removes keyboard focus.
func (f *Field) Blur() {
	f.input.Blur()
	f.cb.Blur()
	f.sync()
}

func (f *Field) Focused() bool { return f.input.Focused() }

// typeKey forwards an unbound key to the text input and reports a changed
// value to the combobox.
func (f *Field) typeKey(msg tea.KeyPressMsg) tea.Cmd {
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if after := f.input.Value(); after != before {
		f.cb.Input(after)
	}
	return tea.Batch(cmd, f.settle())
}

// sync copies a value set by the combobox back into the text input.
func (f *Field) sync() {
	if v := f.cb.Value(); v != f.input.Value() {
		f.input.SetValue(v)
		f.input.CursorEnd()
	}
}

// settle brings the view in line with the combobox after any state change
// and returns the commands that keep the spinner and the animation going.
func (f *Field) settle() tea.Cmd {
	f.sync()
	var cmds []tea.Cmd
	if f.cb.Busy() && !f.spinning {
		f.spinning = true
		cmds = append(cmds, f.spinner.Tick)
	}
	ov := f.cb.Overlay()
	target := float64(ov.Height)
	switch {
	case !ov.Animate:
		f.height, f.velocity, f.animating = target, 0, false
	case !f.animating && math.Abs(f.height-target) >= 0.5:
		f.animating = true
		cmds = append(cmds, f.frame())
	}
	return tea.Batch(cmds...)
}

func (f *Field) frame() tea.Cmd {
	name := f.name
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg { return frameMsg{field: name} })
}

// step advances the panel animation by one frame.
func (f *Field) step() tea.Cmd {
	if !f.animating {
		return nil
	}
	target := float64(f.cb.Overlay().Height)
	f.height, f.velocity = f.spring.Update(f.height, f.velocity, target)
	if math.Abs(f.height-target) < 0.5 && math.Abs(f.velocity) < 0.5 {
		f.height, f.velocity, f.animating = target, 0, false
		return nil
	}
	return f.frame()
}

// tick drives the busy spinner.
func (f *Field) tick(msg spinner.TickMsg) tea.Cmd {
	if msg.ID != f.spinner.ID() || !f.spinning {
		return nil
	}
	if !f.cb.Busy() {
		f.spinning = false
		return nil
	}
	var cmd tea.Cmd
	f.spinner, cmd = f.spinner.Update(msg)
	return cmd
}

// panelHeight is the number of rows the panel occupies right now.
func (f *Field) panelHeight() int {
	ov := f.cb.Overlay()
	if ov.Animate && f.animating {
		return max(int(math.Round(f.height)), 0)
	}
	return ov.Height
}

// Height is the number of rows the field occupies.
func (f *Field) Height() int {
	return labelLines + f.panelHeight()
}

func (f *Field) innerWidth() int {
	return max(f.width-2, minFieldWidth-2)
}

// OptionAt maps a row relative to the top of the field to an option index.
func (f *Field) OptionAt(row int) (int, bool) {
	if !f.cb.Overlay().Visible {
		return -1, false
	}
	start, end := f.cb.Window().Bounds(len(f.cb.Suggestions()))
	i := row - labelLines - 1
	if i < 0 || i >= end-start || labelLines+1+i >= f.Height()-1 {
		return -1, false
	}
	return start + i, true
}

// InPanel reports whether a row relative to the top of the field falls on
// the visible panel.
func (f *Field) InPanel(row int) bool {
	return f.cb.Overlay().Visible && row >= labelLines && row < f.Height()
}

// View renders the field.
func (f *Field) View() string {
	var b strings.Builder
	b.WriteString(f.theme.Label.Render(f.label))
	if err := f.cb.Err(); err != nil {
		b.WriteString("  ")
		b.WriteString(f.theme.Error.Render("lookup failed"))
	}
	if f.showAttrs {
		b.WriteString("  ")
		b.WriteString(f.theme.Muted.Render(formatAttributes(f.cb.Attributes())))
	}
	b.WriteByte('\n')
	b.WriteString(f.theme.Input.Render(f.input.View()))

	h := f.panelHeight()
	if h <= 0 {
		return b.String()
	}
	var lines []string
	if f.cb.Overlay().Visible {
		lines = strings.Split(f.renderPanel(), "\n")
	}
	for i := range h {
		b.WriteByte('\n')
		if i < len(lines) {
			b.WriteString(lines[i])
		}
	}
	return b.String()
}

func (f *Field) renderPanel() string {
	inner := f.innerWidth()
	items := f.cb.Suggestions()
	start, end := f.cb.Window().Bounds(len(items))

	rows := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		prefix := "  "
		style := f.theme.Option
		if f.cb.Selected(i) {
			prefix = "› "
			style = f.theme.Selected
		}
		text := runewidth.Truncate(items[i].Text, inner-runewidth.StringWidth(prefix), "…")
		rows = append(rows, style.Render(runewidth.FillRight(prefix+text, inner)))
	}

	status := f.cb.Status()
	if len(items) > end-start {
		status = fmt.Sprintf("%s (%d-%d of %d)", status, start+1, end, len(items))
	}
	if f.cb.Busy() {
		status = f.spinner.View() + " searching"
	}
	rows = append(rows, f.theme.Status.Render(runewidth.FillRight(runewidth.Truncate(status, inner, "…"), inner)))
	return f.theme.Panel.Render(strings.Join(rows, "\n"))
}

func formatAttributes(a combobox.Attributes) string {
	return fmt.Sprintf("[controls=%s expanded=%t activedescendant=%s busy=%t]",
		a.Controls, a.Expanded, a.ActiveDescendant, a.Busy)
}
