package commands

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// confirm asks a yes/no question. An aborted prompt counts as no.
func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Remove").
				Negative("Cancel").
				Value(&ok),
		),
	).WithTheme(huh.ThemeBase16()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("form: %w", err)
	}
	return ok, nil
}
