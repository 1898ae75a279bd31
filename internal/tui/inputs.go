package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is a labelled text input. name is the wire name used for field
// errors.
type field struct {
	name  string
	label string
	input textinput.Model
}

func newField(name, label string, secret bool) field {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 0
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return field{name: name, label: label, input: in}
}

// inputGroup is a vertical list of fields with one focused at a time.
type inputGroup struct {
	fields []field
	focus  int
	errors map[string]string
}

func (g *inputGroup) focusAt(i int) tea.Cmd {
	if len(g.fields) == 0 {
		return nil
	}
	i = (i%len(g.fields) + len(g.fields)) % len(g.fields)
	for idx := range g.fields {
		g.fields[idx].input.Blur()
	}
	g.focus = i
	return g.fields[i].input.Focus()
}

func (g *inputGroup) next() tea.Cmd {
	return g.focusAt(g.focus + 1)
}

func (g *inputGroup) prev() tea.Cmd {
	return g.focusAt(g.focus - 1)
}

func (g *inputGroup) last() bool {
	return g.focus == len(g.fields)-1
}

func (g *inputGroup) update(msg tea.Msg) tea.Cmd {
	if len(g.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	g.fields[g.focus].input, cmd = g.fields[g.focus].input.Update(msg)
	return cmd
}

func (g *inputGroup) value(name string) string {
	for _, f := range g.fields {
		if f.name == name {
			return f.input.Value()
		}
	}
	return ""
}

func (g *inputGroup) set(name, v string) {
	for i := range g.fields {
		if g.fields[i].name == name {
			g.fields[i].input.SetValue(v)
			return
		}
	}
}

func (g *inputGroup) view() string {
	var b strings.Builder
	for i, f := range g.fields {
		label := f.label + ":"
		if i == g.focus {
			label = selectedStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(f.input.View())
		b.WriteString("\n")
		if msg, ok := g.errors[f.name]; ok {
			b.WriteString("    ")
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
