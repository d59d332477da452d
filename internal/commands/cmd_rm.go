package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/lector"
	"github.com/colonyops/lector/internal/printer"
)

type RmCmd struct {
	flags *Flags
	app   *lector.App

	// flags
	yes bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *lector.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Remove documents from the library",
		UsageText: "lector rm [--yes] <id>...",
		Description: `Forgets documents together with their reading progress and bookmarks.
The files on disk are not touched.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "do not ask for confirmation",
				Destination: &cmd.yes,
			},
		},
		ShellComplete: DocumentIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one document id is required")
	}
	p := printer.Ctx(ctx)

	for _, id := range c.Args().Slice() {
		doc, err := cmd.app.Documents.GetDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("document %q: %w", id, err)
		}

		if !cmd.yes {
			ok, err := confirm(fmt.Sprintf("Remove %q?", doc.Title), "Progress and bookmarks are deleted with it.")
			if err != nil {
				return err
			}
			if !ok {
				p.Infof("Kept %s", doc.Title)
				continue
			}
		}

		if err := cmd.app.Library.Remove(ctx, id); err != nil {
			return err
		}
		p.Successf("Removed %s", doc.Title)
	}

	return nil
}
