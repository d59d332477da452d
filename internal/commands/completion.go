package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/lector"
)

// DocumentIDCompleter returns a ShellCompleteFunc that suggests document ids
// with their titles as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func DocumentIDCompleter(app *lector.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Library == nil {
			return
		}
		docs, err := app.Library.Search(ctx, "")
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, d := range docs {
			// zsh and fish read "value:description".
			_, _ = fmt.Fprintf(w, "%s:%s\n", d.ID, d.Title)
		}
	}
}
