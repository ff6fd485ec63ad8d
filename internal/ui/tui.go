// Package ui draws the task list screen and turns key presses into store
// operations.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/donelist/internal/logging"
	"github.com/nibzard/donelist/internal/store"
	"github.com/nibzard/donelist/internal/todo"
)

// ErrEmptyTitle is returned by Submit for a blank title.
var ErrEmptyTitle = errors.New("title is empty")

// ErrNoTTY is returned by Run when stdout is not a terminal.
var ErrNoTTY = errors.New("tui requires a TTY")

// DefaultTitle is shown above the list.
const DefaultTitle = "To-Do List"

// Submit adds a task titled title as typed. Blank titles never reach the
// store.
func Submit(s *store.Store, title string) (todo.Task, error) {
	if strings.TrimSpace(title) == "" {
		return todo.Task{}, ErrEmptyTitle
	}
	return s.Add(title), nil
}

// Option configures the TUI.
type Option func(*options)

type options struct {
	title     string
	altScreen bool
	logger    *log.Logger
	input     io.Reader
	output    io.Writer
}

// WithTitle sets the screen title.
func WithTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// WithAltScreen runs the program in the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(o *options) {
		o.altScreen = enabled
	}
}

// WithLogger sets the logger for UI events.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.input = in
		o.output = out
	}
}

func buildOptions(opts []Option) options {
	o := options{
		title:     DefaultTitle,
		altScreen: true,
		logger:    logging.Discard(),
		input:     os.Stdin,
		output:    os.Stdout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Run starts the TUI on s and blocks until the user quits or ctx is done.
func Run(ctx context.Context, s *store.Store, opts ...Option) error {
	o := buildOptions(opts)
	if !IsTTY(o.output) {
		return ErrNoTTY
	}

	model := newModel(s, o)
	defer model.Close()

	programOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(o.input),
		tea.WithOutput(o.output),
	}
	if o.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	o.logger.Debug("starting tui", "tasks", s.Len(), "alt_screen", o.altScreen)
	_, err := tea.NewProgram(model, programOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type focus int

const (
	focusInput focus = iota
	focusList
)

// Model is the bubbletea model for the list screen.
type Model struct {
	store  *store.Store
	opts   options
	tasks  []todo.Task
	input  textinput.Model
	focus  focus
	cursor int
	offset int
	width  int
	height int
	status string
	help   bool

	unsubscribe func()
}

// New returns a Model bound to s. Call Close when done with it.
func New(s *store.Store, opts ...Option) *Model {
	return newModel(s, buildOptions(opts))
}

func newModel(s *store.Store, o options) *Model {
	ti := textinput.New()
	ti.Placeholder = "New task"
	ti.CharLimit = 0
	ti.Width = 40
	ti.Focus()

	m := &Model{
		store: s,
		opts:  o,
		tasks: s.Tasks(),
		input: ti,
		focus: focusInput,
	}
	m.unsubscribe = s.Subscribe(func(tasks []todo.Task) {
		m.tasks = tasks
		m.clampCursor()
	})
	return m
}

// Close detaches the model from its store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab", "shift+tab":
			return m, m.switchFocus()
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		task, err := Submit(m.store, m.input.Value())
		if err != nil {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.input.Reset()
		m.cursor = m.store.Index(task.ID)
		m.clampCursor()
		m.status = fmt.Sprintf("Added %q", task.Title)
		m.opts.logger.Debug("task added from tui", "id", task.ID)
		return m, nil
	case "esc":
		if m.input.Value() != "" {
			m.input.Reset()
			m.status = ""
			return m, nil
		}
		return m, m.switchFocus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.help = !m.help
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "home", "g":
		m.cursor = 0
		m.clampCursor()
	case "end", "G":
		m.cursor = len(m.tasks) - 1
		m.clampCursor()
	case " ", "enter":
		task, ok := m.current()
		if !ok {
			return m, nil
		}
		m.store.Toggle(task.ID)
		if updated, ok := m.store.Task(task.ID); ok && updated.IsCompleted {
			m.status = fmt.Sprintf("Completed %q", task.Title)
		} else {
			m.status = fmt.Sprintf("Reopened %q", task.Title)
		}
	case "d", "x", "delete", "backspace":
		task, ok := m.current()
		if !ok {
			return m, nil
		}
		// Rows are addressed by id so a stale cursor cannot hit the wrong task.
		if i := m.store.Index(task.ID); i >= 0 {
			m.store.Remove(i)
			m.status = fmt.Sprintf("Deleted %q", task.Title)
		}
	case "a", "i", "esc":
		return m, m.switchFocus()
	}
	return m, nil
}

func (m *Model) switchFocus() tea.Cmd {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return nil
	}
	m.focus = focusInput
	m.help = false
	return m.input.Focus()
}

func (m *Model) current() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// clampCursor keeps the cursor on a row and the row inside the window.
func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	rows := m.listRows()
	if rows <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if maxOffset := len(m.tasks) - rows; m.offset > maxOffset {
		m.offset = max(maxOffset, 0)
	}
}

// listRows is the number of task rows that fit, or 0 when every row is drawn.
func (m *Model) listRows() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-chromeLines, 1)
}

// Tasks returns the rows the model is showing.
func (m *Model) Tasks() []todo.Task {
	return m.tasks
}

// Status returns the status line.
func (m *Model) Status() string {
	return m.status
}
