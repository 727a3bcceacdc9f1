// Package bubble is a full-screen terminal front end for the list built on
// bubbletea. Key presses become DOM events on the mounted tree; the view is
// drawn from the list state with lipgloss styles.
package bubble

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/todo"
	"github.com/goliatone/go-todolist/pkg/widget"
)

// Styles groups the lipgloss styles of the view.
type Styles struct {
	Title     lipgloss.Style
	Input     lipgloss.Style
	Cursor    lipgloss.Style
	Completed lipgloss.Style
	Armed     lipgloss.Style
	Help      lipgloss.Style
	Status    lipgloss.Style
}

// DefaultStyles derives styles from the list theme.
func DefaultStyles(theme widget.Theme) Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Cursor:    lipgloss.NewStyle().Bold(true),
		Completed: lipgloss.NewStyle().Strikethrough(true).Faint(true),
		Armed:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Token(widget.TokenDeleteConfirmColor, "#d62828"))),
		Help:      lipgloss.NewStyle().Faint(true),
		Status:    lipgloss.NewStyle().Italic(true),
	}
}

// Option configures a Model.
type Option func(*Model)

// WithStyles overrides the default styles.
func WithStyles(styles Styles) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

// Model implements tea.Model for one list.
type Model struct {
	ctx     context.Context
	list    *widget.List
	doc     *dom.Document
	styles  Styles
	cursor  int
	editing bool
	status  string
	err     error
}

var _ tea.Model = (*Model)(nil)

// New mounts list into a fresh document and returns the program model.
func New(list *widget.List, opts ...Option) *Model {
	m := &Model{
		ctx:    context.Background(),
		list:   list,
		doc:    dom.NewDocument(),
		styles: DefaultStyles(list.Theme()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	list.Mount(m.doc)
	m.doc.Ready()
	return m
}

// Run starts a full-screen program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, list *widget.List, opts ...Option) error {
	m := New(list, opts...)
	m.ctx = ctx
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// Err returns the last dispatch error.
func (m *Model) Err() error { return m.err }

// Cursor returns the highlighted row.
func (m *Model) Cursor() int { return m.cursor }

// Editing reports whether keys go to the input box.
func (m *Model) Editing() bool { return m.editing }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.editing {
		return m, m.updateEditing(key)
	}
	return m, m.updateBrowsing(key)
}

func (m *Model) updateEditing(key tea.KeyMsg) tea.Cmd {
	pending := m.list.State().PendingInput
	switch key.Type {
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyEnter:
		before := m.list.State().Len()
		m.dispatch(widget.IDAddButton, &dom.Event{Type: dom.EventClick})
		if m.list.State().Len() > before {
			m.cursor = m.list.State().Len() - 1
			m.status = "added"
			m.editing = false
		} else {
			m.status = "nothing to add"
		}
	case tea.KeyBackspace:
		if r := []rune(pending); len(r) > 0 {
			m.dispatch(widget.IDInput, &dom.Event{Type: dom.EventInput, Value: string(r[:len(r)-1])})
		}
	case tea.KeySpace:
		m.dispatch(widget.IDInput, &dom.Event{Type: dom.EventInput, Value: pending + " "})
	case tea.KeyRunes:
		m.dispatch(widget.IDInput, &dom.Event{Type: dom.EventInput, Value: pending + string(key.Runes)})
	}
	return nil
}

func (m *Model) updateBrowsing(key tea.KeyMsg) tea.Cmd {
	state := m.list.State()
	switch key.String() {
	case "q":
		return tea.Quit
	case "a", "i":
		m.editing = true
		m.status = ""
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < state.Len()-1 {
			m.cursor++
		}
	case " ", "x":
		if item, ok := m.current(); ok {
			m.dispatch(widget.ToggleID(item.ID), &dom.Event{Type: dom.EventChange, Checked: !item.Completed})
		}
	case "d":
		if item, ok := m.current(); ok {
			m.dispatch(widget.DeleteID(item.ID), &dom.Event{Type: dom.EventClick})
			if _, still := m.list.State().Item(item.ID); still {
				m.status = "press d again to delete"
			} else {
				m.status = "deleted"
			}
		}
	case "esc":
		if item, ok := m.current(); ok && item.ConfirmDelete {
			_, m.err = m.list.CancelDelete(m.ctx, item.ID)
			m.status = ""
		}
	}
	if n := m.list.State().Len(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return nil
}

func (m *Model) current() (todo.Item, bool) {
	state := m.list.State()
	if m.cursor < 0 || m.cursor >= state.Len() {
		return todo.Item{}, false
	}
	return state.Items[m.cursor], true
}

func (m *Model) dispatch(id string, ev *dom.Event) {
	target := m.doc.ElementByID(id)
	if target == nil {
		m.err = fmt.Errorf("bubble: element #%s not mounted", id)
		return
	}
	target.Dispatch(ev.WithContext(m.ctx))
}

func (m *Model) View() string {
	state := m.list.State()
	heading := widget.DefaultHeading
	if h := m.list.Node().Find(dom.ByTag("h1")); h != nil {
		heading = h.TextContent()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(heading))
	b.WriteString("\n")

	input := state.PendingInput
	if m.editing {
		input += "_"
	}
	b.WriteString(m.styles.Input.Render("+ " + input))
	b.WriteString("\n\n")

	if state.Len() == 0 {
		b.WriteString("  nothing to do\n")
	}
	for i, item := range state.Items {
		cursor := "  "
		if i == m.cursor && !m.editing {
			cursor = m.styles.Cursor.Render("> ")
		}
		box := "[ ] "
		name := item.Name
		if item.Completed {
			box = "[x] "
			name = m.styles.Completed.Render(name)
		}
		line := cursor + box + name
		if item.ConfirmDelete {
			line += " " + m.styles.Armed.Render("(d to confirm)")
		}
		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.styles.Status.Render(m.status) + "\n")
	}
	help := "a add • j/k move • space toggle • d delete • q quit"
	if m.editing {
		help = "enter add • esc cancel"
	}
	b.WriteString("\n" + m.styles.Help.Render(help) + "\n")
	return b.String()
}
