package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/nibzard/donelist/internal/config"
	"github.com/nibzard/donelist/internal/prefs"
	"github.com/nibzard/donelist/internal/todo"
)

func doctorCommand(cfg *config.Config, args []string) error {
	fs := newFlagSet("doctor")
	verbose := fs.BoolP("verbose", "v", false, "List every stored key")
	if handled, err := parseCommandFlags(fs, args); handled || err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Println("donelist doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	// Config
	fmt.Println("Config:")
	fmt.Printf("  ✅ Backend: %s\n", cfg.Backend)
	fmt.Printf("  ✅ Tasks key: %s\n", cfg.TasksKey)
	for _, w := range cfg.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	fmt.Println()

	// State and log directories
	if !checkDir("State directory", cfg.StateDir) {
		allOK = false
	}
	if !checkDir("Log directory", cfg.LogDir) {
		allOK = false
	}

	// Backend and saved list
	if cfg.Backend == prefs.BackendMemory {
		fmt.Println("Prefs: memory")
		fmt.Println("  ⚠️  Nothing is kept after exit")
		fmt.Println()
	} else if !checkPrefs(cfg, *verbose) {
		allOK = false
	}

	// Terminal
	fmt.Println("Terminal:")
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Println("  ✅ stdout is a terminal (tui available)")
	} else {
		fmt.Println("  ⚠️  stdout is not a terminal (shell will be used)")
	}
	fmt.Println()

	// Overall status
	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. donelist may not keep your list.")
	return fmt.Errorf("doctor checks failed")
}

// checkDir reports on a directory that is created on first use.
func checkDir(label, path string) bool {
	defer fmt.Println()
	fmt.Printf("%s: %s\n", label, path)
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		fmt.Println("  ⚠️  Not found (will be created on first use)")
		return true
	case err != nil:
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	case !info.IsDir():
		fmt.Println("  ❌ Error: path is not a directory")
		return false
	}
	fmt.Println("  ✅ OK")
	return true
}

// checkPrefs opens the backend and validates the saved list.
func checkPrefs(cfg *config.Config, verbose bool) bool {
	defer fmt.Println()
	fmt.Printf("Prefs (%s): %s\n", cfg.Backend, cfg.PrefsPath)

	p, err := prefs.Open(cfg.Backend, cfg.PrefsPath)
	if err != nil {
		fmt.Printf("  ❌ Open error: %v\n", err)
		return false
	}
	defer p.Close()
	fmt.Printf("  ✅ Opened %s\n", prefs.Location(p))

	ok := true
	data, err := p.Data(cfg.TasksKey)
	switch {
	case errors.Is(err, prefs.ErrNotFound):
		fmt.Println("  ⚠️  No saved list yet")
	case err != nil:
		fmt.Printf("  ❌ Read error: %v\n", err)
		ok = false
	default:
		result := todo.Validate(data)
		if result.Valid {
			fmt.Printf("  ✅ Saved list is valid (%d tasks)\n", result.Tasks)
		} else {
			fmt.Println("  ❌ Saved list is not valid (it will be set aside on next start):")
			for _, e := range result.Errors {
				fmt.Printf("     - %v\n", e)
			}
			ok = false
		}
	}

	if _, err := p.Data(cfg.TasksKey + ".corrupt"); err == nil {
		fmt.Printf("  ⚠️  A previously unreadable list is kept under %s.corrupt\n", cfg.TasksKey)
	}

	if verbose {
		keys, err := p.Keys()
		if err != nil {
			fmt.Printf("  ❌ Keys error: %v\n", err)
			return false
		}
		fmt.Printf("  Keys: %d\n", len(keys))
		for _, k := range keys {
			fmt.Printf("    - %s\n", k)
		}
	}
	return ok
}
