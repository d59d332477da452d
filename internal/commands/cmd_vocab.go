package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/data/stores"
	"github.com/colonyops/lector/internal/lector"
	"github.com/colonyops/lector/internal/printer"
	"github.com/colonyops/lector/pkg/iojson"
)

type VocabCmd struct {
	flags *Flags
	app   *lector.App

	// flags
	jsonOutput bool
	input      iojson.FileReader[[]string]
}

// NewVocabCmd creates a new vocab command
func NewVocabCmd(flags *Flags, app *lector.App) *VocabCmd {
	return &VocabCmd{flags: flags, app: app}
}

// Register adds the vocab command to the application
func (cmd *VocabCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "vocab",
		Usage: "Manage the vocabulary underlined while reading",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add terms",
				UsageText: "lector vocab add <term>...\n   lector vocab add -f terms.json",
				Description: `Adds terms to the vocabulary. Without arguments a JSON array of strings is
read from --file or stdin:

  echo '["ineffable", "tabula rasa"]' | lector vocab add`,
				Flags:  []cli.Flag{cmd.input.Flag()},
				Action: cmd.runAdd,
			},
			{
				Name:      "ls",
				Usage:     "List terms",
				UsageText: "lector vocab ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "rm",
				Usage:     "Remove terms",
				UsageText: "lector vocab rm <term>...",
				Action:    cmd.runRemove,
			},
		},
	})

	return app
}

func (cmd *VocabCmd) runAdd(ctx context.Context, c *cli.Command) error {
	terms := c.Args().Slice()
	if len(terms) == 0 {
		var err error
		if terms, err = cmd.input.Read(); err != nil {
			return err
		}
	}

	p := printer.Ctx(ctx)
	added := 0
	for _, term := range terms {
		err := cmd.app.Vocabulary.AddTerm(ctx, term)
		switch {
		case errors.Is(err, stores.ErrEmptyTerm):
			p.Infof("Skipped %q: %v", term, err)
		case err != nil:
			return err
		default:
			added++
		}
	}

	p.Successf("Added %d term(s)", added)
	return nil
}

func (cmd *VocabCmd) runList(ctx context.Context, c *cli.Command) error {
	terms, err := cmd.app.Vocabulary.List(ctx)
	if err != nil {
		return err
	}

	if len(terms) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "Vocabulary is empty\n")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range terms {
			if err := iojson.WriteLine(out, t); err != nil {
				return fmt.Errorf("encode term: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TERM\tADDED")
	for _, t := range terms {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", t.Display, humanize.Time(t.CreatedAt))
	}
	return w.Flush()
}

func (cmd *VocabCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one term is required")
	}
	p := printer.Ctx(ctx)

	for _, term := range c.Args().Slice() {
		err := cmd.app.Vocabulary.Remove(ctx, term)
		if errors.Is(err, stores.ErrTermNotFound) {
			p.Infof("%q is not in the vocabulary", term)
			continue
		}
		if err != nil {
			return err
		}
		p.Successf("Removed %q", term)
	}
	return nil
}
