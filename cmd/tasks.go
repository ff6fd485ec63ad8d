package cmd

import (
	"fmt"
	"os"

	"github.com/nibzard/donelist/internal/config"
	"github.com/nibzard/donelist/internal/shell"
	"github.com/nibzard/donelist/internal/todo"
	"github.com/nibzard/donelist/internal/ui"
)

func lsCommand(cfg *config.Config, args []string) error {
	fs := newFlagSet("ls")
	asJSON := fs.Bool("json", false, "Print the list as JSON")
	if handled, err := parseCommandFlags(fs, args); handled || err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return withSession(cfg, "ls", func(s *session) error {
		tasks := s.store.Tasks()
		if !*asJSON {
			return ui.RenderPlain(os.Stdout, tasks)
		}
		data, err := todo.Encode(tasks)
		if err != nil {
			return fmt.Errorf("encoding tasks: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	})
}

func addCommand(cfg *config.Config, args []string) error {
	// Everything after the command is the title, dashes included.
	return execOnce(cfg, "add", args)
}

func toggleCommand(cfg *config.Config, args []string) error {
	return execOnce(cfg, "toggle", args)
}

func rmCommand(cfg *config.Config, args []string) error {
	return execOnce(cfg, "rm", args)
}

// execOnce runs a single shell command against the configured store.
func execOnce(cfg *config.Config, command string, args []string) error {
	return withSession(cfg, command, func(s *session) error {
		sh := shell.New(s.store, os.Stdout, shell.WithLogger(s.runLog.Logger))
		_, err := sh.Exec(command + " " + joinArgs(args))
		if err != nil {
			return fmt.Errorf("%s: %w", command, err)
		}
		return nil
	})
}
