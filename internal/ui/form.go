package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/combox/internal/combobox"
	"github.com/oakwood-commons/combox/internal/config"
	"github.com/oakwood-commons/combox/internal/fragment"
	"github.com/oakwood-commons/combox/internal/transport"
	"github.com/oakwood-commons/combox/pkg/logger"
)

// ErrNoFields is returned by NewForm when no field is configured.
var ErrNoFields = errors.New("form has no fields")

// headerLines is the title row plus the blank row under it.
const headerLines = 2

// FieldSpec describes one form field. A nil Transport builds an HTTP
// transport from Config.
type FieldSpec struct {
	Config    config.FieldConfig
	Transport combobox.Transport
}

// FormOptions configures NewForm.
type FormOptions struct {
	Title      string
	Fields     []FieldSpec
	Keys       KeyMap
	Theme      Theme
	MaxVisible int
	// ShowAttributes prints the accessibility attributes next to each label.
	ShowAttributes bool
	// OpenLinks opens followed suggestions in the browser.
	OpenLinks bool
	// Clock and Loop default to the system clock and the Bubble Tea loop.
	Clock   combobox.Clock
	Loop    combobox.Loop
	Context context.Context
}

// FieldValue is the submitted value of one field.
type FieldValue struct {
	Name     string               `yaml:"name" json:"name" toml:"name"`
	Value    string               `yaml:"value" json:"value" toml:"value"`
	Followed *combobox.Suggestion `yaml:"followed,omitempty" json:"followed,omitempty" toml:"followed,omitempty"`
}

// Result is what the form produced when it exited.
type Result struct {
	Submitted bool         `yaml:"submitted" json:"submitted" toml:"submitted"`
	Fields    []FieldValue `yaml:"fields" json:"fields" toml:"fields"`
}

// Form is the root model: a column of combobox fields with one of them
// holding keyboard focus.
type Form struct {
	title  string
	fields []*Field
	focus  int

	keys  KeyMap
	theme Theme
	loop  *teaLoop
	log   logr.Logger

	followed  map[string]combobox.Suggestion
	openLinks bool

	width  int
	height int

	submitted bool
	quitting  bool
}

// NewForm builds the fields and their comboboxes.
func NewForm(opts FormOptions) (*Form, error) {
	if len(opts.Fields) == 0 {
		return nil, ErrNoFields
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	keys := opts.Keys
	if keys.bindings == nil {
		keys = NewKeyMap()
	}

	f := &Form{
		title:     opts.Title,
		keys:      keys,
		theme:     opts.Theme,
		log:       *logger.FromContext(ctx),
		followed:  map[string]combobox.Suggestion{},
		openLinks: opts.OpenLinks,
		width:     80,
		height:    24,
	}
	loop := opts.Loop
	if loop == nil {
		f.loop = newTeaLoop()
		loop = f.loop
	}

	for _, fs := range opts.Fields {
		fc := fs.Config
		tr := fs.Transport
		if tr == nil {
			h, err := transport.New(fc.TransportConfig())
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", fc.Name, err)
			}
			tr = h
		}
		name, endpoint := fc.Name, fc.Endpoint
		field, err := newField(fieldOptions{
			config:     fc,
			transport:  tr,
			parser:     fragment.Parser(),
			loop:       loop,
			clock:      opts.Clock,
			ctx:        logger.WithLogger(ctx, logger.WithValues(logger.FromContext(ctx), logger.FieldKey, name)),
			maxVisible: opts.MaxVisible,
			theme:      opts.Theme,
			showAttrs:  opts.ShowAttributes,
			navigate:   func(s combobox.Suggestion) { f.follow(name, endpoint, s) },
		})
		if err != nil {
			return nil, err
		}
		f.fields = append(f.fields, field)
	}
	return f, nil
}

// FormFromConfig builds a form for every resolved field of cfg. Title,
// fields, max visible rows and context come from cfg and ctx; the rest of
// opts is used as given.
func FormFromConfig(ctx context.Context, cfg config.File, opts FormOptions) (*Form, error) {
	specs := make([]FieldSpec, 0, len(cfg.Fields))
	for _, fc := range cfg.ResolvedFields() {
		specs = append(specs, FieldSpec{Config: fc})
	}
	opts.Title = cfg.App.Name
	opts.Fields = specs
	opts.MaxVisible = cfg.UI.MaxVisible
	opts.Context = ctx
	return NewForm(opts)
}

func (f *Form) follow(name, endpoint string, s combobox.Suggestion) {
	f.log.V(1).Info("suggestion followed", logger.FieldKey, name, "href", s.Href)
	f.followed[name] = s
	if !f.openLinks || s.Href == "" {
		return
	}
	link, err := ResolveLink(endpoint, s.Href)
	if err == nil {
		err = OpenURL(link)
	}
	if err != nil {
		f.log.Error(err, "opening suggestion link", logger.FieldKey, name)
	}
}

// Init focuses the first field and starts draining the callback queue.
func (f *Form) Init() tea.Cmd {
	cmds := []tea.Cmd{f.fields[f.focus].Focus()}
	if f.loop != nil {
		cmds = append(cmds, f.loop.listen())
	}
	return tea.Batch(cmds...)
}

// Update routes messages to the fields.
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width, f.height = msg.Width, msg.Height
		for _, field := range f.fields {
			field.SetSize(msg.Width, msg.Height)
		}
		return f, nil

	case dispatchMsg:
		msg.fn()
		if f.loop == nil {
			return f, f.settle()
		}
		return f, tea.Batch(f.settle(), f.loop.listen())

	case frameMsg:
		for _, field := range f.fields {
			if field.name == msg.field {
				return f, field.step()
			}
		}
		return f, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		for _, field := range f.fields {
			cmds = append(cmds, field.tick(msg))
		}
		return f, tea.Batch(cmds...)

	case tea.FocusMsg:
		return f, f.fields[f.focus].Focus()

	case tea.BlurMsg:
		f.fields[f.focus].Blur()
		return f, f.settle()

	case tea.KeyPressMsg:
		return f.handleKey(msg)

	case tea.MouseClickMsg:
		return f, f.handleClick(msg.Mouse())

	case tea.MouseMotionMsg:
		f.handleMotion(msg.Mouse())
		return f, nil
	}
	return f, nil
}

func (f *Form) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	field := f.fields[f.focus]
	cb := field.cb

	switch f.keys.Action(msg) {
	case ActionQuit:
		return f, f.quit()
	case ActionNextField:
		cb.Key(combobox.KeyTab)
		return f, f.moveFocus(f.focus + 1)
	case ActionPrevField:
		cb.Key(combobox.KeyTab)
		return f, f.moveFocus(f.focus - 1)
	case ActionSelect:
		if cb.Key(combobox.KeyEnter) {
			return f, f.settle()
		}
		f.submitted = true
		return f, f.quit()
	case ActionDismiss:
		cb.Key(combobox.KeyEscape)
		return f, f.settle()
	case ActionAdvance:
		if cb.Key(combobox.KeyDown) {
			return f, f.settle()
		}
	case ActionRetreat:
		if cb.Key(combobox.KeyUp) {
			return f, f.settle()
		}
	}
	return f, tea.Batch(field.typeKey(msg), f.settle())
}

func (f *Form) moveFocus(to int) tea.Cmd {
	n := len(f.fields)
	to = ((to % n) + n) % n
	if to == f.focus {
		return f.settle()
	}
	f.fields[f.focus].Blur()
	f.focus = to
	return tea.Batch(f.fields[to].Focus(), f.settle())
}

// fieldAt returns the field under screen row y and the row relative to the
// top of that field.
func (f *Form) fieldAt(y int) (int, int, bool) {
	top := headerLines
	for i, field := range f.fields {
		h := field.Height()
		if y >= top && y < top+h {
			return i, y - top, true
		}
		top += h + 1
	}
	return -1, 0, false
}

func (f *Form) handleClick(m tea.Mouse) tea.Cmd {
	if m.Button != tea.MouseLeft {
		return nil
	}
	i, row, ok := f.fieldAt(m.Y)
	if ok {
		field := f.fields[i]
		if opt, hit := field.OptionAt(row); hit {
			field.cb.OptionClick(opt)
			return f.settle()
		}
		if row < labelLines {
			for j, other := range f.fields {
				if j != i {
					other.cb.OuterClick()
				}
			}
			return f.moveFocus(i)
		}
		if field.InPanel(row) {
			return nil
		}
	}
	for _, field := range f.fields {
		field.cb.OuterClick()
	}
	return f.settle()
}

func (f *Form) handleMotion(m tea.Mouse) {
	i, row, ok := f.fieldAt(m.Y)
	for j, field := range f.fields {
		over := ok && j == i && field.InPanel(row)
		switch {
		case over && !field.cb.Hovered():
			field.cb.PointerEnter()
		case !over && field.cb.Hovered():
			field.cb.PointerLeave()
		}
	}
}

func (f *Form) settle() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(f.fields))
	for _, field := range f.fields {
		cmds = append(cmds, field.settle())
	}
	return tea.Batch(cmds...)
}

func (f *Form) quit() tea.Cmd {
	for _, field := range f.fields {
		field.cb.Detach()
	}
	if f.loop != nil {
		f.loop.stop()
	}
	f.quitting = true
	return tea.Quit
}

// Result reports the field values and followed suggestions.
func (f *Form) Result() Result {
	res := Result{Submitted: f.submitted, Fields: make([]FieldValue, 0, len(f.fields))}
	for _, field := range f.fields {
		fv := FieldValue{Name: field.name, Value: field.cb.Value()}
		if s, ok := f.followed[field.name]; ok {
			fv.Followed = &s
		}
		res.Fields = append(res.Fields, fv)
	}
	return res
}

// Fields returns the form fields in display order.
func (f *Form) Fields() []*Field { return f.fields }

// Focused returns the index of the focused field.
func (f *Form) Focused() int { return f.focus }

// View renders the form.
func (f *Form) View() tea.View {
	if f.quitting {
		return tea.NewView("")
	}
	var b strings.Builder
	b.WriteString(f.theme.Title.Render(f.title))
	b.WriteString("\n")
	for i, field := range f.fields {
		b.WriteString("\n")
		b.WriteString(field.View())
		if i < len(f.fields)-1 {
			b.WriteString("\n")
		}
	}
	body := b.String()
	footer := renderFooter(f.keys, f.theme, f.width)
	if gap := f.height - lipgloss.Height(body) - lipgloss.Height(footer); gap > 0 {
		body += strings.Repeat("\n", gap)
	}

	v := tea.NewView(body + "\n" + footer)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.ReportFocus = true
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}
