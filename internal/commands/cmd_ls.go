package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/core/document"
	"github.com/colonyops/lector/internal/lector"
	"github.com/colonyops/lector/pkg/iojson"
	"github.com/colonyops/lector/pkg/tmpl"
)

type LsCmd struct {
	flags *Flags
	app   *lector.App

	// flags
	jsonOutput bool
	format     string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *lector.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List documents in the library",
		UsageText: "lector ls [--json | --format TEMPLATE] [query]",
		Description: `Displays a table of imported documents with their reading progress.

An optional query fuzzy-matches titles and paths, best match first.

--format renders each document with a Go template. Fields: .ID .Title .Path
.Size .Percent .Fraction .LastRead .Bookmarks .Imported. Functions: join,
upper, lower, truncate, ago, bytes, comma, percent.

  lector ls --format '{{ .ID }} {{ percent .Fraction }} {{ truncate 40 .Title }}'`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "render each document with a Go template",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

// docInfo is one listed document; also the JSON and template data.
type docInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Percent   int       `json:"percent"`
	Fraction  float64   `json:"-"`
	LastRead  time.Time `json:"last_read,omitzero"`
	Bookmarks int       `json:"bookmarks"`
	Imported  time.Time `json:"imported"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.jsonOutput && cmd.format != "" {
		return fmt.Errorf("--json and --format are mutually exclusive")
	}

	var tpl *tmpl.Template
	if cmd.format != "" {
		var err error
		if tpl, err = tmpl.Parse(cmd.format); err != nil {
			return err
		}
	}

	docs, err := cmd.app.Library.Search(ctx, c.Args().First())
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No documents found\n")
		}
		return nil
	}

	infos := make([]docInfo, 0, len(docs))
	for _, d := range docs {
		info, err := cmd.buildDocInfo(ctx, d)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}

	out := c.Root().Writer

	switch {
	case cmd.jsonOutput:
		for _, info := range infos {
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
		}
	case tpl != nil:
		for _, info := range infos {
			line, err := tpl.Execute(info)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, line)
		}
	default:
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tTITLE\tREAD\tLAST READ\tSIZE")
		for _, info := range infos {
			last := "never"
			if !info.LastRead.IsZero() {
				last = humanize.Time(info.LastRead)
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\n",
				info.ID, info.Title, info.Percent, last, humanize.Bytes(uint64(info.Size)))
		}
		_ = w.Flush()
	}

	return nil
}

func (cmd *LsCmd) buildDocInfo(ctx context.Context, d document.Document) (docInfo, error) {
	info := docInfo{
		ID:       d.ID,
		Title:    d.Title,
		Path:     d.Path,
		Size:     d.Size,
		Imported: d.CreatedAt,
	}

	p, err := cmd.app.Documents.GetProgress(ctx, d.ID)
	switch {
	case err == nil:
		info.Percent = p.Percent
		info.Fraction = float64(p.Percent) / 100
		info.LastRead = p.Timestamp
	case !errors.Is(err, document.ErrNotFound):
		return info, fmt.Errorf("get progress: %w", err)
	}

	bookmarks, err := cmd.app.Documents.ListBookmarks(ctx, d.ID)
	if err != nil {
		return info, fmt.Errorf("list bookmarks: %w", err)
	}
	info.Bookmarks = len(bookmarks)

	return info, nil
}
