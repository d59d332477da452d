package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/lector"
	"github.com/colonyops/lector/internal/printer"
	"github.com/colonyops/lector/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags
	app   *lector.App

	// flags
	jsonOutput bool
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *lector.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Add text files to the library",
		UsageText: "lector import [--json] <glob>...",
		Description: `Imports every plain text file matching the given globs. Patterns support
"**" for recursive matches; quote them so the shell does not expand them.

Files imported before are refreshed in place and keep their progress and
bookmarks.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output one JSON line per file",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// importInfo is the JSON output format for lector import --json.
type importInfo struct {
	Path    string `json:"path"`
	ID      string `json:"id,omitempty"`
	Created bool   `json:"created"`
	Error   string `json:"error,omitempty"`
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one file or glob is required")
	}

	results, err := cmd.app.Library.ImportGlob(ctx, c.Args().Slice())
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	if cmd.jsonOutput {
		out := c.Root().Writer
		for _, r := range results {
			info := importInfo{Path: r.Path, ID: r.Document.ID, Created: r.Created}
			if r.Err != nil {
				info.Error = r.Err.Error()
			}
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
		}
	} else {
		p := printer.Ctx(ctx)
		for _, r := range results {
			switch {
			case r.Err != nil:
				p.Errorf("%s: %v", r.Path, r.Err)
			case r.Created:
				p.Successf("%s  %s (%s)", r.Document.ID, r.Document.Title, humanize.Bytes(uint64(r.Document.Size)))
			default:
				p.Infof("%s  %s already in library", r.Document.ID, r.Document.Title)
			}
		}
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
