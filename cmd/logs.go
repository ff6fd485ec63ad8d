package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nibzard/donelist/internal/config"
	"github.com/nibzard/donelist/internal/logging"
)

func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("logs")
	follow := fs.BoolP("follow", "f", false, "Follow the log (like tail -f)")
	n := fs.IntP("lines", "n", 0, "Number of lines to show (0 = all)")
	if handled, err := parseCommandFlags(fs, args); handled || err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
}
