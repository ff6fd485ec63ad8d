package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nibzard/donelist/internal/appdir"
	"github.com/nibzard/donelist/internal/config"
	"github.com/nibzard/donelist/internal/shell"
	"github.com/nibzard/donelist/internal/ui"
)

// interactiveCommand opens the list in mode. Auto picks the TUI when both
// stdin and stdout are terminals and the shell otherwise.
func interactiveCommand(ctx context.Context, cfg *config.Config, mode string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if mode == config.UIAuto {
		mode = config.UIShell
		if ui.IsTTY(os.Stdout) && ui.IsTTY(os.Stdin) {
			mode = config.UITUI
		}
	}

	return withSession(cfg, mode, func(s *session) error {
		logger := s.runLog.Logger
		if mode == config.UITUI {
			err := ui.Run(ctx, s.store,
				ui.WithTitle(cfg.Title),
				ui.WithAltScreen(cfg.AltScreen),
				ui.WithLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		}

		sh := shell.New(s.store, os.Stdout,
			shell.WithHistory(appdir.HistoryPath(cfg.StateDir)),
			shell.WithLogger(logger),
		)
		if err := sh.Run(ctx); err != nil {
			return fmt.Errorf("shell: %w", err)
		}
		return nil
	})
}
