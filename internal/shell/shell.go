// Package shell is a line-mode front end for the task list.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"

	"github.com/nibzard/donelist/internal/logging"
	"github.com/nibzard/donelist/internal/store"
	"github.com/nibzard/donelist/internal/ui"
)

// Prompt is printed before each command.
const Prompt = "donelist> "

var (
	// ErrUnknownCommand is returned by Exec for an unrecognized command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is returned by Exec when a command's arguments are wrong.
	ErrUsage = errors.New("usage")
)

var commands = []string{"add", "toggle", "rm", "ls", "help", "quit"}

var aliases = map[string]string{
	"a":      "add",
	"t":      "toggle",
	"done":   "toggle",
	"del":    "rm",
	"delete": "rm",
	"remove": "rm",
	"list":   "ls",
	"l":      "ls",
	"?":      "help",
	"h":      "help",
	"exit":   "quit",
	"q":      "quit",
}

// Option configures a Shell.
type Option func(*Shell)

// WithHistory persists line history at path.
func WithHistory(path string) Option {
	return func(sh *Shell) {
		sh.historyPath = path
	}
}

// WithLogger sets the logger for shell events.
func WithLogger(logger *log.Logger) Option {
	return func(sh *Shell) {
		if logger != nil {
			sh.logger = logger
		}
	}
}

// Shell reads commands and applies them to a store.
type Shell struct {
	store       *store.Store
	out         io.Writer
	logger      *log.Logger
	historyPath string
}

// New returns a Shell writing its output to out.
func New(s *store.Store, out io.Writer, opts ...Option) *Shell {
	sh := &Shell{
		store:  s,
		out:    out,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// Run reads commands until quit, EOF, ctrl+c or ctx is done.
func (sh *Shell) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)
	sh.readHistory(line)
	defer sh.writeHistory(line)

	fmt.Fprintln(sh.out, "Type 'help' for available commands.")
	if err := ui.RenderPlain(sh.out, sh.store.Tasks()); err != nil {
		return err
	}
	return sh.loop(ctx, line)
}

// prompter is the part of liner.State the read loop uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type promptResult struct {
	input string
	err   error
}

// loop runs commands read from p. A pending prompt does not hold the loop
// once ctx is done; its goroutine is left blocked on input.
func (sh *Shell) loop(ctx context.Context, p prompter) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		results := make(chan promptResult, 1)
		go func() {
			input, err := p.Prompt(Prompt)
			results <- promptResult{input: input, err: err}
		}()

		var r promptResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(sh.out)
			return ctx.Err()
		case r = <-results:
		}

		if r.err != nil {
			if errors.Is(r.err, liner.ErrPromptAborted) || errors.Is(r.err, io.EOF) {
				fmt.Fprintln(sh.out)
				return nil
			}
			return fmt.Errorf("read input: %w", r.err)
		}

		input := strings.TrimSpace(r.input)
		if input == "" {
			continue
		}
		p.AppendHistory(input)

		quit, err := sh.Exec(input)
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one command line. It reports whether the shell should exit.
// Errors describe bad input; the store is left untouched when one is
// returned.
func (sh *Shell) Exec(input string) (quit bool, err error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	if name == "" {
		return false, nil
	}
	name = strings.ToLower(name)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	switch name {
	case "add":
		return false, sh.add(rest)
	case "toggle":
		return false, sh.toggle(strings.Fields(rest))
	case "rm":
		return false, sh.remove(strings.Fields(rest))
	case "ls":
		return false, ui.RenderPlain(sh.out, sh.store.Tasks())
	case "help":
		printHelp(sh.out)
		return false, nil
	case "quit":
		return true, nil
	default:
		return false, fmt.Errorf("%w %q (type 'help' for commands)", ErrUnknownCommand, name)
	}
}

func (sh *Shell) add(title string) error {
	task, err := ui.Submit(sh.store, strings.TrimSpace(title))
	if err != nil {
		return fmt.Errorf("%w: add <title>: %w", ErrUsage, err)
	}
	sh.logger.Debug("task added from shell", "id", task.ID)
	fmt.Fprintf(sh.out, "Added %d. %s\n", sh.store.Len(), task.Title)
	return nil
}

func (sh *Shell) toggle(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: toggle <n>...", ErrUsage)
	}
	rows, err := ParseRows(args, sh.store.Len())
	if err != nil {
		return err
	}

	tasks := sh.store.Tasks()
	for _, row := range rows {
		sh.store.Toggle(tasks[row].ID)
		if updated, ok := sh.store.Task(tasks[row].ID); ok {
			state := "open"
			if updated.IsCompleted {
				state = "done"
			}
			fmt.Fprintf(sh.out, "%d. %s is %s\n", row+1, updated.Title, state)
		}
	}
	return nil
}

func (sh *Shell) remove(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: rm <n>...", ErrUsage)
	}
	rows, err := ParseRows(args, sh.store.Len())
	if err != nil {
		return err
	}

	before := sh.store.Len()
	sh.store.Remove(rows...)
	fmt.Fprintf(sh.out, "Removed %d task(s)\n", before-sh.store.Len())
	return nil
}

// ParseRows converts 1-based row arguments into 0-based positions for a
// list of n tasks. Repeated rows are kept once.
func ParseRows(args []string, n int) ([]int, error) {
	seen := make(map[int]bool, len(args))
	rows := make([]int, 0, len(args))
	for _, arg := range args {
		row, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a row number", ErrUsage, arg)
		}
		if row < 1 || row > n {
			return nil, fmt.Errorf("no task %d (list has %d)", row, n)
		}
		if !seen[row] {
			seen[row] = true
			rows = append(rows, row-1)
		}
	}
	return rows, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <title>      Add a task")
	fmt.Fprintln(w, "  toggle <n>...    Mark tasks done or open again")
	fmt.Fprintln(w, "  rm <n>...        Delete tasks")
	fmt.Fprintln(w, "  ls               List tasks")
	fmt.Fprintln(w, "  help             Show this help")
	fmt.Fprintln(w, "  quit             Exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rows are numbered from 1 as shown by ls.")
}

func complete(line string) []string {
	lower := strings.ToLower(line)
	var out []string
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			out = append(out, cmd)
		}
	}
	return out
}

func (sh *Shell) readHistory(line *liner.State) {
	if sh.historyPath == "" {
		return
	}
	f, err := os.Open(sh.historyPath)
	if err != nil {
		if !os.IsNotExist(err) {
			sh.logger.Warn("reading shell history failed", "path", sh.historyPath, "err", err)
		}
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		sh.logger.Warn("reading shell history failed", "path", sh.historyPath, "err", err)
	}
}

func (sh *Shell) writeHistory(line *liner.State) {
	if sh.historyPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(sh.historyPath), 0o700); err != nil {
		sh.logger.Warn("writing shell history failed", "path", sh.historyPath, "err", err)
		return
	}
	f, err := os.OpenFile(sh.historyPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		sh.logger.Warn("writing shell history failed", "path", sh.historyPath, "err", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		sh.logger.Warn("writing shell history failed", "path", sh.historyPath, "err", err)
	}
}
