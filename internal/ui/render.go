package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nibzard/donelist/internal/todo"
)

// chromeLines counts the lines View draws around the task rows.
const chromeLines = 8

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b, m.opts.title)
	b.WriteString(m.input.View() + "\n\n")

	if m.help {
		writeHelp(&b)
	} else {
		m.writeRows(&b)
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status) + "\n")
	b.WriteString(footerStyle.Render(m.footer()) + "\n")
	return b.String()
}

func writeTitle(b *strings.Builder, title string) {
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)) + "\n\n")
}

func (m *Model) writeRows(b *strings.Builder) {
	if len(m.tasks) == 0 {
		b.WriteString("  No tasks yet.\n")
		return
	}

	start, end := 0, len(m.tasks)
	if rows := m.listRows(); rows > 0 && rows < len(m.tasks) {
		start = m.offset
		end = min(start+rows, len(m.tasks))
	}

	for i := start; i < end; i++ {
		line := m.formatRow(m.tasks[i], i == m.cursor && m.focus == focusList)
		if m.width > 0 {
			line = ansi.Truncate(line, m.width, "…")
		}
		b.WriteString(line + "\n")
	}
}

func (m *Model) formatRow(task todo.Task, selected bool) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}
	title := task.Title
	if task.IsCompleted {
		title = doneStyle.Render(title)
	}
	return marker + checkbox(task) + " " + title
}

func checkbox(task todo.Task) string {
	if task.IsCompleted {
		return "[x]"
	}
	return "[ ]"
}

func (m *Model) footer() string {
	var parts []string
	if m.focus == focusInput {
		parts = append(parts, "enter add", "tab list")
	} else {
		parts = append(parts, "space toggle", "d delete", "tab input", "? help", "q quit")
	}

	done := 0
	for _, task := range m.tasks {
		if task.IsCompleted {
			done++
		}
	}
	parts = append(parts, fmt.Sprintf("%d/%d done", done, len(m.tasks)))

	if rows := m.listRows(); rows > 0 && rows < len(m.tasks) {
		end := min(m.offset+rows, len(m.tasks))
		parts = append(parts, fmt.Sprintf("rows %d-%d of %d", m.offset+1, end, len(m.tasks)))
	}
	return strings.Join(parts, " | ")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  tab          Switch between input and list\n")
	b.WriteString("  enter        Add task (input) / toggle task (list)\n")
	b.WriteString("  space        Toggle task\n")
	b.WriteString("  d, x, del    Delete task\n")
	b.WriteString("  up/k down/j  Move cursor\n")
	b.WriteString("  a, i, esc    Back to input\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n")
}

// RenderPlain writes tasks as numbered plain-text rows.
func RenderPlain(w io.Writer, tasks []todo.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}

	width := len(strconv.Itoa(len(tasks)))
	for i, task := range tasks {
		if _, err := fmt.Fprintf(w, "%*d. %s %s\n", width, i+1, checkbox(task), task.Title); err != nil {
			return err
		}
	}
	return nil
}
