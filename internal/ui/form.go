package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/apperr"
)

// field is one labelled input. A field with options is a choice cycled with
// left/right instead of a text input.
type field struct {
	name     string
	label    string
	input    textinput.Model
	options  []string
	choice   int
	required bool
	err      string
}

func newTextField(name, label, placeholder string, required bool) field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 200
	in.Width = 36
	return field{name: name, label: label, input: in, required: required}
}

func newPasswordField(name, label string) field {
	f := newTextField(name, label, "", true)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func newChoiceField(name, label string, options []string) field {
	f := newTextField(name, label, "", false)
	f.options = options
	return f
}

func (f field) value() string {
	if len(f.options) > 0 {
		return f.options[clampIndex(f.choice, len(f.options))]
	}
	return strings.TrimSpace(f.input.Value())
}

// form is an ordered set of fields with a single focused field.
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) form {
	f := form{fields: fields}
	f.focusField(0)
	return f
}

func (f *form) focusField(i int) {
	if len(f.fields) == 0 {
		return
	}
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *form) index(name string) int {
	for i, fl := range f.fields {
		if fl.name == name {
			return i
		}
	}
	return -1
}

// value returns the trimmed value of the named field.
func (f form) value(name string) string {
	if i := f.index(name); i >= 0 {
		return f.fields[i].value()
	}
	return ""
}

// set replaces the value of the named field. For choice fields the value
// selects the matching option; unknown values leave the choice unchanged.
func (f *form) set(name, value string) {
	i := f.index(name)
	if i < 0 {
		return
	}
	fl := &f.fields[i]
	if len(fl.options) > 0 {
		for j, opt := range fl.options {
			if strings.EqualFold(opt, strings.TrimSpace(value)) {
				fl.choice = j
			}
		}
		return
	}
	fl.input.SetValue(value)
}

// setError attaches a message to the named field.
func (f *form) setError(name, message string) {
	if i := f.index(name); i >= 0 {
		f.fields[i].err = message
	}
}

// validate checks required fields, marking each blank one. It returns the
// first failure as a field-level validation error.
func (f *form) validate() error {
	var first error
	for i := range f.fields {
		fl := &f.fields[i]
		fl.err = ""
		if fl.required && fl.value() == "" {
			fl.err = fl.label + " is required"
			if first == nil {
				first = apperr.ValidationField(fl.name, fl.err)
			}
		}
	}
	return first
}

// update routes a key to the form: field movement, choice cycling, or the
// focused text input.
func (f *form) update(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	switch {
	case key.Matches(msg, keys.NextField):
		f.focusField(f.focus + 1)
		return nil
	case key.Matches(msg, keys.PrevField):
		f.focusField(f.focus - 1)
		return nil
	}

	fl := &f.fields[f.focus]
	if len(fl.options) > 0 {
		switch msg.String() {
		case "left":
			fl.choice = (fl.choice - 1 + len(fl.options)) % len(fl.options)
		case "right", " ":
			fl.choice = (fl.choice + 1) % len(fl.options)
		}
		return nil
	}

	var cmd tea.Cmd
	fl.input, cmd = fl.input.Update(msg)
	fl.err = ""
	return cmd
}

// view renders the fields one per row with their errors underneath.
func (f form) view(styles Styles, labelWidth int) string {
	var b strings.Builder
	for i, fl := range f.fields {
		label := padRight(fl.label+":", labelWidth)
		if fl.required {
			label = padRight(fl.label+"*:", labelWidth)
		}
		if i == f.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}

		if len(fl.options) > 0 {
			b.WriteString(renderChoice(styles, fl, i == f.focus))
		} else {
			b.WriteString(fl.input.View())
		}
		b.WriteString("\n")
		if fl.err != "" {
			b.WriteString(styles.DangerText.Render(strings.Repeat(" ", labelWidth) + fl.err))
			b.WriteString("\n")
		}
		if i < len(f.fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderChoice(styles Styles, fl field, focused bool) string {
	parts := make([]string, 0, len(fl.options))
	for i, opt := range fl.options {
		if i == fl.choice {
			parts = append(parts, styles.StatusStyle(opt).Render(opt))
			continue
		}
		parts = append(parts, styles.FaintText.Render(opt))
	}
	out := strings.Join(parts, " ")
	if focused {
		out = styles.AccentText.Render("‹ ") + out + styles.AccentText.Render(" ›")
	}
	return out
}
