package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nibzard/donelist/internal/config"
)

func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if handled, err := parseCommandFlags(fs, args); handled || err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Println("Config files: (none)")
	} else {
		fmt.Println("Config files:")
		for _, f := range cws.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, field := range config.Fields() {
		fmt.Fprintf(tw, "%s\t%s\t(%s)\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	return tw.Flush()
}
