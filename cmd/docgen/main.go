// Command docgen generates CLI reference documentation from the lector
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/commands"
	"github.com/colonyops/lector/internal/lector"
)

func main() {
	root := &cli.Command{
		Name:      "lector",
		Usage:     "Read large plain text documents in the terminal",
		UsageText: "lector [global options] command [command options]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error, fatal, panic)", Sources: cli.EnvVars("LECTOR_LOG_LEVEL"), Value: "info"},
			&cli.StringFlag{Name: "log-file", Usage: "path to log file", Sources: cli.EnvVars("LECTOR_LOG_FILE"), Value: "~/.local/state/lector/lector.log"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to config file", Sources: cli.EnvVars("LECTOR_CONFIG"), Value: "~/.config/lector/config.yaml"},
			&cli.StringFlag{Name: "data-dir", Usage: "path to data directory", Sources: cli.EnvVars("LECTOR_DATA_DIR"), Value: "~/.local/share/lector"},
		},
	}
	root = commands.RegisterAll(root, &commands.Flags{}, &lector.App{})

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
