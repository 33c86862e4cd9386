// Package ui is the interactive terminal front end for the task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harrisonrobin/todo/pkg/model"
	"github.com/harrisonrobin/todo/pkg/query"
	"github.com/harrisonrobin/todo/pkg/store"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

const addPlaceholder = "Buy milk -d 2024-06-01 -p high"

var filterCycle = []model.Filter{model.FilterAll, model.FilterPending, model.FilterCompleted}

const (
	fieldText = iota
	fieldDue
	fieldPriority
)

var editLabels = [...]string{
	"Text",
	"Due date (YYYY-MM-DD, empty clears)",
	"Priority (high, medium, low)",
}

// editState holds the three fields of a task while it is being edited.
type editState struct {
	id     model.ID
	values [len(editLabels)]string
	index  int
}

// Model renders the store and turns key presses into store operations.
type Model struct {
	store  *store.Store
	filter model.Filter
	now    func() time.Time

	items      []query.Item
	cursor     int
	mode       mode
	input      textinput.Model
	edit       editState
	pendingDel model.Task
	status     string
}

type Option func(*Model)

// WithFilter sets the initial filter.
func WithFilter(f model.Filter) Option {
	return func(m *Model) { m.filter = f }
}

// WithClock replaces time.Now as the source of today's date.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func NewModel(st *store.Store, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = addPlaceholder
	ti.CharLimit = 256
	ti.Width = 50

	m := Model{
		store:  st,
		filter: model.FilterAll,
		now:    time.Now,
		input:  ti,
		mode:   modeList,
		status: "Press 'a' to add, space to toggle, 'd' to delete.",
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Run shows the list until the user quits or ctx is cancelled.
func Run(ctx context.Context, st *store.Store, in io.Reader, out io.Writer, opts ...Option) error {
	program := tea.NewProgram(NewModel(st, opts...),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		// Every change is already saved, so cancellation is a normal exit.
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeEdit:
			return m.updateEditMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.items))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.items))
	case "a":
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = addPlaceholder
		m.status = "New task: TEXT [-d YYYY-MM-DD] [-p high|medium|low], enter to save, esc to cancel"
		cmd := m.input.Focus()
		return m, cmd
	case " ", "x":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.store.ToggleCompleted(t.ID)
		if t.Completed {
			m.changed("Reopened: " + t.Text)
		} else {
			m.changed("Completed: " + t.Text)
		}
	case "d":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingDel = t
		m.status = fmt.Sprintf("Delete %q? y/n", t.Text)
	case "e":
		t, ok := m.selected()
		if !ok {
			m.status = "No task to edit"
			return m, nil
		}
		return m.startEdit(t)
	case "c":
		n := m.store.ClearCompleted()
		m.changed(fmt.Sprintf("Removed %d completed %s", n, plural(n, "task")))
	case "o":
		n := m.store.DeleteOverdue(m.today())
		m.changed(fmt.Sprintf("Removed %d overdue %s", n, plural(n, "task")))
	case "f":
		m.filter = filterCycle[(indexOfFilter(m.filter)+1)%len(filterCycle)]
		m.refresh()
		m.status = fmt.Sprintf("Showing %s tasks", m.filter)
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "enter":
		text, due, priority, err := parseAdd(strings.Fields(m.input.Value()))
		if err != nil {
			m.status = "Error: " + err.Error()
			return m, nil
		}
		t, err := m.store.Create(text, due, priority)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		status := "Added: " + t.Text
		if _, ok := model.ParsePriority(priority); priority != "" && !ok {
			status += fmt.Sprintf(" (unknown priority %q, using medium)", priority)
		}
		m.changed(status)
		m.cursor = clampCursor(m.rowOf(t.ID), len(m.items))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) startEdit(t model.Task) (tea.Model, tea.Cmd) {
	m.edit = editState{id: t.ID}
	m.edit.values[fieldText] = t.Text
	if t.DueDate != nil {
		m.edit.values[fieldDue] = t.DueDate.String()
	}
	m.edit.values[fieldPriority] = string(t.Priority)
	m.mode = modeEdit
	m.showField()
	m.status = "Edit task: tab to move, enter to save/next, esc to cancel"
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case "tab", "down":
		m.edit.values[m.edit.index] = m.input.Value()
		m.edit.index = wrapIndex(m.edit.index+1, len(editLabels))
		m.showField()
		return m, nil
	case "shift+tab", "up":
		m.edit.values[m.edit.index] = m.input.Value()
		m.edit.index = wrapIndex(m.edit.index-1, len(editLabels))
		m.showField()
		return m, nil
	case "enter":
		m.edit.values[m.edit.index] = m.input.Value()
		if m.edit.index < len(editLabels)-1 {
			m.edit.index++
			m.showField()
			return m, nil
		}
		return m.saveEdit()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveEdit() (tea.Model, tea.Cmd) {
	text := m.edit.values[fieldText]
	due := m.edit.values[fieldDue]
	priority := strings.TrimSpace(m.edit.values[fieldPriority])
	e := model.Edit{Text: &text, DueDate: &due, Priority: &priority}

	var warning string
	if _, ok := model.ParsePriority(priority); !ok {
		old, _ := m.store.Get(m.edit.id)
		warning = fmt.Sprintf(" (unknown priority %q, keeping %s)", priority, old.Priority)
	}

	t, ok, err := m.store.Edit(m.edit.id, e)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) && ve.Field == "text" {
			m.edit.index = fieldText
		} else {
			m.edit.index = fieldDue
		}
		m.showField()
		m.status = "Error: " + err.Error()
		return m, nil
	}
	m.mode = modeList
	m.input.Blur()
	if !ok {
		m.refresh()
		m.status = "Task no longer exists"
		return m, nil
	}
	m.changed("Updated: " + t.Text + warning)
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch key {
	case "y", "Y":
		m.store.Delete(m.pendingDel.ID)
		m.changed("Deleted: " + m.pendingDel.Text)
	default:
		m.status = "Delete cancelled"
	}
	m.pendingDel = model.Task{}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("Todo\n")
	cursor := -1
	if m.mode == modeList || m.mode == modeConfirmDelete {
		cursor = m.cursor
	}
	Render(&b, m.items, m.filter, m.store.Counts(), cursor)
	b.WriteString("---\n")

	switch m.mode {
	case modeAdd:
		b.WriteString("New task\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeEdit:
		fmt.Fprintf(&b, "Edit %d/%d: %s\n", m.edit.index+1, len(editLabels), editLabels[m.edit.index])
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.mode))
	b.WriteString("\n")
	return b.String()
}

func renderHelp(md mode) string {
	switch md {
	case modeAdd:
		return "enter save • esc cancel"
	case modeEdit:
		return "tab/shift+tab move • enter next/save • esc cancel"
	case modeConfirmDelete:
		return "y delete • any other key cancels"
	}
	return "up/down move • a add • space toggle • e edit • d delete • f filter • c clear completed • o delete overdue • q quit"
}

// changed re-reads the view after a mutation and appends the save warning
// when the store could not persist it.
func (m *Model) changed(status string) {
	m.refresh()
	m.status = status
	if err := m.store.SaveErr(); err != nil {
		m.status += fmt.Sprintf(" (warning: changes could not be saved: %v)", err)
	}
}

func (m *Model) refresh() {
	m.items = query.View(m.store.All(), m.filter, m.today())
	m.cursor = clampCursor(m.cursor, len(m.items))
}

func (m *Model) showField() {
	m.input.SetValue(m.edit.values[m.edit.index])
	m.input.Placeholder = editLabels[m.edit.index]
	m.input.CursorEnd()
}

func (m Model) selected() (model.Task, bool) {
	if len(m.items) == 0 {
		return model.Task{}, false
	}
	return m.items[m.cursor].Task, true
}

func (m Model) rowOf(id model.ID) int {
	for i, it := range m.items {
		if it.Task.ID == id {
			return i
		}
	}
	return m.cursor
}

func (m Model) today() model.Date {
	return model.Today(m.now())
}

// parseAdd splits "TEXT [-d DATE] [-p PRIORITY]" into its parts. Flags may
// appear anywhere in the line.
func parseAdd(args []string) (text, due, priority string, err error) {
	var words []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-d", "--due":
			if i+1 >= len(args) {
				return "", "", "", errors.New("-d needs a date")
			}
			i++
			due = args[i]
		case "-p", "--priority":
			if i+1 >= len(args) {
				return "", "", "", errors.New("-p needs a priority")
			}
			i++
			priority = args[i]
		default:
			words = append(words, args[i])
		}
	}
	return strings.Join(words, " "), due, priority, nil
}

func indexOfFilter(f model.Filter) int {
	for i, c := range filterCycle {
		if c == f {
			return i
		}
	}
	return 0
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func wrapIndex(i, n int) int {
	return (i%n + n) % n
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
