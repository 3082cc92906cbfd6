package tui

import (
	"context"
	"errors"
	"os"

	"baneslab/guildkeys/internal/domain"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = domain.ErrAborted

// accessible reports whether forms should run in accessible mode.
func accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// RunWithSpinner runs action behind a spinner drawn on stderr.
func RunWithSpinner(title string, action func(ctx context.Context) error) error {
	err := spinner.New().
		Title(title).
		Accessible(accessible()).
		Output(os.Stderr).
		ActionWithErr(action).
		Run()
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return ErrAborted
	}
	return err
}
