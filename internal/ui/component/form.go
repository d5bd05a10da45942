package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// FieldType represents the type of form field
type FieldType int

const (
	FieldTypeText FieldType = iota
	FieldTypeNumber
	FieldTypeSelect
)

// FormField represents a single form field
type FormField struct {
	Name        string
	Label       string
	Type        FieldType
	Value       string
	Options     []string // For select fields
	Placeholder string
	Required    bool

	textInput   textinput.Model
	selectedIdx int
}

// Form is a vertical list of inputs with tab focus cycling. Submission is left to
// the owner.
type Form struct {
	fields     []FormField
	focusIndex int
	width      int
	disabled   bool

	labelStyle   lipgloss.Style
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	mutedStyle   lipgloss.Style
}

func NewForm() *Form {
	palette := style.DefaultPalette()

	return &Form{
		labelStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true),

		inputStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		focusedStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary),

		mutedStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}

// AddField adds a field to the form
func (f *Form) AddField(name string, fieldType FieldType, label string, required bool, placeholder string) *Form {
	ti := textinput.New()
	ti.Width = 40
	ti.Placeholder = placeholder
	ti.Prompt = ""

	f.fields = append(f.fields, FormField{
		Name:        name,
		Label:       label,
		Type:        fieldType,
		Placeholder: placeholder,
		Required:    required,
		textInput:   ti,
	})

	if len(f.fields) == 1 {
		f.focus(0)
	}
	return f
}

// SetFieldValue sets the value of a field. For select fields value must be one of
// the options.
func (f *Form) SetFieldValue(name, value string) *Form {
	field := f.field(name)
	if field == nil {
		return f
	}
	if field.Type == FieldTypeSelect {
		for i, opt := range field.Options {
			if opt == value {
				field.selectedIdx = i
				field.Value = value
			}
		}
		return f
	}
	field.Value = value
	field.textInput.SetValue(value)
	return f
}

// SetFieldOptions sets options for select fields
func (f *Form) SetFieldOptions(name string, options []string) *Form {
	field := f.field(name)
	if field == nil || field.Type != FieldTypeSelect {
		return f
	}
	field.Options = options
	field.selectedIdx = 0
	field.Value = ""
	if len(options) > 0 {
		field.Value = options[0]
	}
	return f
}

// SetCharLimit caps the length of a text field.
func (f *Form) SetCharLimit(name string, limit int) *Form {
	if field := f.field(name); field != nil {
		field.textInput.CharLimit = limit
	}
	return f
}

// SetDisabled blocks input while the owner is busy.
func (f *Form) SetDisabled(disabled bool) {
	f.disabled = disabled
}

func (f *Form) Disabled() bool {
	return f.disabled
}

func (f *Form) field(name string) *FormField {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return &f.fields[i]
		}
	}
	return nil
}

// Update handles form input and updates
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.fields) == 0 || f.disabled {
		return f, nil
	}

	current := &f.fields[f.focusIndex]

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "enter":
			f.focus((f.focusIndex + 1) % len(f.fields))
			return f, nil
		case "shift+tab", "up":
			f.focus((f.focusIndex - 1 + len(f.fields)) % len(f.fields))
			return f, nil
		case "left":
			if current.Type == FieldTypeSelect {
				f.cycle(current, -1)
				return f, nil
			}
		case "right", " ":
			if current.Type == FieldTypeSelect {
				f.cycle(current, 1)
				return f, nil
			}
		}
	}

	if current.Type == FieldTypeSelect {
		return f, nil
	}

	var cmd tea.Cmd
	current.textInput, cmd = current.textInput.Update(msg)
	current.Value = current.textInput.Value()
	return f, cmd
}

func (f *Form) cycle(field *FormField, step int) {
	if len(field.Options) == 0 {
		return
	}
	field.selectedIdx = (field.selectedIdx + step + len(field.Options)) % len(field.Options)
	field.Value = field.Options[field.selectedIdx]
}

func (f *Form) focus(i int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].textInput.Blur()
	f.focusIndex = i
	if f.fields[i].Type != FieldTypeSelect {
		f.fields[i].textInput.Focus()
	}
}

// View renders the form
func (f *Form) View() string {
	if len(f.fields) == 0 {
		return "No fields defined"
	}

	var content strings.Builder
	for i, field := range f.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		content.WriteString(f.labelStyle.Render(label))
		content.WriteString("\n")

		fieldStyle := f.inputStyle
		if i == f.focusIndex && !f.disabled {
			fieldStyle = f.focusedStyle
		}

		var fieldView string
		switch field.Type {
		case FieldTypeSelect:
			text := field.Value
			if i == f.focusIndex {
				text = "◀ " + text + " ▶"
			}
			fieldView = fieldStyle.Render(text)
		default:
			if f.disabled {
				fieldView = fieldStyle.Render(f.mutedStyle.Render(field.Value))
			} else {
				fieldView = fieldStyle.Render(field.textInput.View())
			}
		}
		content.WriteString(fieldView)
		content.WriteString("\n")
	}

	return content.String()
}

// Values returns all form field values as a map
func (f *Form) Values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		values[field.Name] = field.Value
	}
	return values
}

// GetValue returns the value of a specific field
func (f *Form) GetValue(name string) string {
	if field := f.field(name); field != nil {
		return field.Value
	}
	return ""
}

// Focused returns the name of the focused field.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focusIndex].Name
}

// Reset clears text fields. Select fields keep their choice.
func (f *Form) Reset() *Form {
	for i := range f.fields {
		if f.fields[i].Type == FieldTypeSelect {
			continue
		}
		f.fields[i].Value = ""
		f.fields[i].textInput.SetValue("")
	}
	f.focus(0)
	return f
}

// SetWidth sets the form width
func (f *Form) SetWidth(width int) *Form {
	f.width = width
	inputWidth := width - 4 // Account for padding and borders
	if inputWidth > 10 {
		for i := range f.fields {
			f.fields[i].textInput.Width = inputWidth
		}
	}
	return f
}
