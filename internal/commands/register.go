package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/lector"
)

// RegisterAll adds every lector subcommand to root. app may be an empty
// App that the root Before hook fills in.
func RegisterAll(root *cli.Command, flags *Flags, app *lector.App) *cli.Command {
	root = NewReadCmd(flags, app).Register(root)
	root = NewImportCmd(flags, app).Register(root)
	root = NewLsCmd(flags, app).Register(root)
	root = NewRmCmd(flags, app).Register(root)
	root = NewBookmarksCmd(flags, app).Register(root)
	root = NewVocabCmd(flags, app).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)
	return root
}
