package components

import (
	"fmt"
	"strings"
)

// Input is a single-line text input.
type Input struct {
	label       string
	value       string
	placeholder string
	width       int
	focused     bool
	cursorPos   int
	maxLength   int
	required    bool
	err         string
	styles      Styles
}

// NewInput creates a new input field.
func NewInput(label string) *Input {
	return &Input{
		label:     label,
		width:     20,
		maxLength: 100,
	}
}

// SetValue sets the input value.
func (i *Input) SetValue(v string) *Input {
	i.value = v
	i.cursorPos = len(v)
	return i
}

// SetPlaceholder sets the placeholder text.
func (i *Input) SetPlaceholder(p string) *Input {
	i.placeholder = p
	return i
}

// SetMaxLength sets the maximum input length.
func (i *Input) SetMaxLength(m int) *Input {
	i.maxLength = m
	return i
}

// SetRequired marks the field as required.
func (i *Input) SetRequired(r bool) *Input {
	i.required = r
	return i
}

// SetError sets an error message shown next to the field.
func (i *Input) SetError(e string) *Input {
	i.err = e
	return i
}

// SetStyles sets the field styles.
func (i *Input) SetStyles(s Styles) *Input {
	i.styles = s
	return i
}

// Focus sets the focus state.
func (i *Input) Focus(focused bool) {
	i.focused = focused
	if focused && i.cursorPos > len(i.value) {
		i.cursorPos = len(i.value)
	}
}

// IsFocused returns the focus state.
func (i *Input) IsFocused() bool {
	return i.focused
}

// Value returns the trimmed value.
func (i *Input) Value() string {
	return strings.TrimSpace(i.value)
}

// HandleKey handles a key press.
func (i *Input) HandleKey(key string) {
	if !i.focused {
		return
	}

	switch key {
	case "backspace":
		if i.cursorPos > 0 {
			i.value = i.value[:i.cursorPos-1] + i.value[i.cursorPos:]
			i.cursorPos--
		}
	case "delete":
		if i.cursorPos < len(i.value) {
			i.value = i.value[:i.cursorPos] + i.value[i.cursorPos+1:]
		}
	case "left":
		if i.cursorPos > 0 {
			i.cursorPos--
		}
	case "right":
		if i.cursorPos < len(i.value) {
			i.cursorPos++
		}
	case "home", "ctrl+a":
		i.cursorPos = 0
	case "end", "ctrl+e":
		i.cursorPos = len(i.value)
	default:
		// Printable ASCII only; quantities, units and short notes.
		if len(key) == 1 && key[0] >= ' ' && key[0] <= '~' && len(i.value) < i.maxLength {
			i.value = i.value[:i.cursorPos] + key + i.value[i.cursorPos:]
			i.cursorPos++
		}
	}
}

// Validate validates the input.
func (i *Input) Validate() bool {
	if i.required && i.Value() == "" {
		i.err = "Required"
		return false
	}
	i.err = ""
	return true
}

// Render renders the input field.
func (i *Input) Render() string {
	label := i.label
	if i.required {
		label += "*"
	}
	label += ":"

	var display string
	switch {
	case i.value == "" && i.placeholder != "" && !i.focused:
		display = i.styles.Muted.Render(i.placeholder)
	case i.focused:
		display = i.styles.Value.Bold(true).Render(i.value[:i.cursorPos] + "_" + i.value[i.cursorPos:])
	default:
		display = i.styles.Value.Render(i.value)
	}

	shown := len(i.value)
	if i.focused {
		shown++
	}
	if shown < i.width {
		display += strings.Repeat(" ", i.width-shown)
	}

	result := i.styles.Label.Width(16).Render(label) + " " + display
	if i.err != "" {
		result += " " + i.styles.Error.Render(i.err)
	}
	return result
}

// Form is a vertical list of inputs with focus cycling.
type Form struct {
	title      string
	fields     []*Input
	focusIndex int
	submitted  bool
	cancelled  bool
	err        string
	styles     Styles
}

// NewForm creates a new form.
func NewForm(title string) *Form {
	return &Form{title: title}
}

// SetStyles sets the styles of the form and its fields.
func (f *Form) SetStyles(s Styles) *Form {
	f.styles = s
	for _, field := range f.fields {
		field.SetStyles(s)
	}
	return f
}

// AddField adds a field to the form. The first field starts focused.
func (f *Form) AddField(field *Input) *Form {
	field.SetStyles(f.styles)
	f.fields = append(f.fields, field)
	if len(f.fields) == 1 {
		field.Focus(true)
	}
	return f
}

// Field returns the i-th field.
func (f *Form) Field(i int) *Input {
	return f.fields[i]
}

// HandleKey handles form navigation and forwards other keys to the
// focused field.
func (f *Form) HandleKey(key string) {
	switch key {
	case "tab", "down":
		f.nextField()
	case "shift+tab", "up":
		f.prevField()
	case "ctrl+s":
		f.submit()
	case "esc":
		f.cancelled = true
	case "enter":
		if f.focusIndex == len(f.fields)-1 {
			f.submit()
		} else {
			f.nextField()
		}
	default:
		if f.focusIndex < len(f.fields) {
			f.fields[f.focusIndex].HandleKey(key)
		}
	}
}

func (f *Form) submit() {
	ok := true
	for _, field := range f.fields {
		if !field.Validate() {
			ok = false
		}
	}
	f.submitted = ok
}

func (f *Form) nextField() {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex = (f.focusIndex + 1) % len(f.fields)
	f.fields[f.focusIndex].Focus(true)
}

func (f *Form) prevField() {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex--
	if f.focusIndex < 0 {
		f.focusIndex = len(f.fields) - 1
	}
	f.fields[f.focusIndex].Focus(true)
}

// IsSubmitted returns true if the form was submitted with valid fields.
func (f *Form) IsSubmitted() bool {
	return f.submitted
}

// IsCancelled returns true if the form was cancelled.
func (f *Form) IsCancelled() bool {
	return f.cancelled
}

// Reopen clears the submitted state and focuses the first field so the
// form can be corrected.
func (f *Form) Reopen() {
	f.submitted = false
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex = 0
	f.fields[0].Focus(true)
}

// SetError sets a form-level error message.
func (f *Form) SetError(err string) {
	f.err = err
}

// Render renders the form.
func (f *Form) Render() string {
	var b strings.Builder

	b.WriteString(f.styles.Title.Render(fmt.Sprintf("=== %s ===", f.title)))
	b.WriteString("\n\n")

	for _, field := range f.fields {
		b.WriteString(field.Render())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(f.styles.Error.Render("Error: " + f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(f.styles.Label.Render("Tab:Next  Enter:Preview  Esc:Cancel"))

	return b.String()
}
