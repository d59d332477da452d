package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/lector"
	"github.com/colonyops/lector/internal/printer"
	"github.com/colonyops/lector/pkg/iojson"
)

const previewColumns = 50

type BookmarksCmd struct {
	flags *Flags
	app   *lector.App

	// flags
	jsonOutput bool
	yes        bool
}

// NewBookmarksCmd creates a new bookmarks command
func NewBookmarksCmd(flags *Flags, app *lector.App) *BookmarksCmd {
	return &BookmarksCmd{flags: flags, app: app}
}

// Register adds the bookmarks command to the application
func (cmd *BookmarksCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "bookmarks",
		Usage: "List and delete bookmarks",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List bookmarks",
				UsageText: "lector bookmarks ls [--json] [document-id]",
				Description: `Lists bookmarks of one document, or of every document when no id is given.
Open one with 'lector read <document-id> --at <offset>'.`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				ShellComplete: DocumentIDCompleter(cmd.app),
				Action:        cmd.runList,
			},
			{
				Name:      "rm",
				Usage:     "Delete bookmarks",
				UsageText: "lector bookmarks rm [--yes] <bookmark-id>...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "do not ask for confirmation",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runRemove,
			},
		},
	})

	return app
}

func (cmd *BookmarksCmd) runList(ctx context.Context, c *cli.Command) error {
	bookmarks, err := cmd.app.Documents.ListBookmarks(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}

	if len(bookmarks) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No bookmarks found\n")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, b := range bookmarks {
			if err := iojson.WriteLine(out, b); err != nil {
				return fmt.Errorf("encode bookmark: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDOCUMENT\tOFFSET\tCREATED\tPREVIEW")
	for _, b := range bookmarks {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			b.ID,
			b.DocumentID,
			humanize.Comma(int64(b.StartIndex)),
			humanize.Time(b.CreatedAt),
			truncate.StringWithTail(b.TextPreview, previewColumns, "…"),
		)
	}
	return w.Flush()
}

func (cmd *BookmarksCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one bookmark id is required")
	}
	p := printer.Ctx(ctx)

	if !cmd.yes {
		ok, err := confirm(fmt.Sprintf("Delete %d bookmark(s)?", c.Args().Len()), "")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	for _, id := range c.Args().Slice() {
		if err := cmd.app.Documents.DeleteBookmark(ctx, id); err != nil {
			return fmt.Errorf("delete bookmark %s: %w", id, err)
		}
		p.Successf("Deleted bookmark %s", id)
	}
	return nil
}
