// Package cmd implements the CLI command structure for donelist.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nibzard/donelist/internal/appdir"
	"github.com/nibzard/donelist/internal/config"
	"github.com/nibzard/donelist/internal/logging"
	"github.com/nibzard/donelist/internal/prefs"
	"github.com/nibzard/donelist/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the donelist CLI.
func Run(ctx context.Context, args []string) error {
	// Global flags stop at the first command name.
	fs := pflag.NewFlagSet(appdir.Name, pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)
	help := fs.BoolP("help", "h", false, "Show help")
	showVersion := fs.BoolP("version", "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}
	cfg := cws.Config
	for _, w := range cfg.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	// No command opens the interactive list.
	subcommand := ""
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "":
		return interactiveCommand(ctx, cfg, cfg.UI, remainingArgs)
	case "tui":
		return interactiveCommand(ctx, cfg, config.UITUI, remainingArgs)
	case "shell":
		return interactiveCommand(ctx, cfg, config.UIShell, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(cfg, remainingArgs)
	case "rm", "remove":
		return rmCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "logs", "tail":
		return logsCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session is the per-run state shared by every command that touches tasks.
type session struct {
	cfg    *config.Config
	runLog *logging.RunLogger
	prefs  prefs.Store
	store  *store.Store
}

func openSession(cfg *config.Config, command string) (*session, error) {
	runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.LogOptions())
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	logger := runLog.Logger
	logger.Info("donelist started", "command", command, "version", Version, "backend", cfg.Backend, "prefs", cfg.PrefsPath)
	for _, w := range cfg.Warnings {
		logger.Warn("config warning", "warning", w)
	}

	p, err := prefs.Open(cfg.Backend, cfg.PrefsPath)
	if err != nil {
		logger.Error("opening prefs failed", "err", err)
		_ = runLog.Close()
		return nil, fmt.Errorf("opening %s prefs: %w", cfg.Backend, err)
	}

	return &session{
		cfg:    cfg,
		runLog: runLog,
		prefs:  p,
		store:  store.New(p, store.WithKey(cfg.TasksKey), store.WithLogger(logger)),
	}, nil
}

func (s *session) Close() error {
	err := s.prefs.Close()
	if err != nil {
		s.runLog.Logger.Warn("closing prefs failed", "err", err)
	}
	return errors.Join(err, s.runLog.Close())
}

// withSession opens a session, runs fn and closes the session.
func withSession(cfg *config.Config, command string, fn func(*session) error) (err error) {
	sess, err := openSession(cfg, command)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sess.Close())
	}()
	return fn(sess)
}

func versionCommand() error {
	fmt.Printf("donelist version %s\n", Version)
	return nil
}

func printUsage(fs *pflag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "donelist - a single-screen to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  donelist [global options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  (none)          Open the list (tui on a terminal, shell otherwise)")
	fmt.Fprintln(w, "  tui             Open the terminal UI")
	fmt.Fprintln(w, "  shell           Open the line-mode shell")
	fmt.Fprintln(w, "  ls              List tasks")
	fmt.Fprintln(w, "  add <title>     Add a task")
	fmt.Fprintln(w, "  toggle <n>...   Mark tasks done or open again")
	fmt.Fprintln(w, "  rm <n>...       Delete tasks")
	fmt.Fprintln(w, "  doctor          Check state directory, backend and saved list")
	fmt.Fprintln(w, "  logs            Show the latest run log")
	fmt.Fprintln(w, "  config          Show effective configuration")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rows are numbered from 1 as shown by ls.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "      --json       Print the list as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options:")
	fmt.Fprintln(w, "  -v, --verbose    List every stored key")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -f, --follow     Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n, --lines int  Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "      --example    Print an example config file")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Environment: %s and friends override config files; flags override both.\n", config.EnvName("backend"))
}

// newFlagSet returns a flag set for a subcommand.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(appdir.Name+" "+name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseCommandFlags parses args, turning --help into usage on stdout.
func parseCommandFlags(fs *pflag.FlagSet, args []string) (handled bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Printf("Usage of %s:\n%s", fs.Name(), fs.FlagUsages())
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
