package tui

import (
	"context"
	"errors"
	"strings"

	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/util"

	"github.com/charmbracelet/huh"
)

// KeyRequest holds what the new-key wizard collects.
type KeyRequest struct {
	Type keys.EntityType
	Name string
	// ID is the Discord snowflake. Empty when the wizard only previews.
	ID string
}

// KeyPreviewer returns the key name would receive as type t.
type KeyPreviewer func(t keys.EntityType, name string) (string, error)

// NewKeyForm walks the user through picking an entity type and display
// name, showing the resulting key as they type. With askID set the form
// also collects the entity's Discord ID so it can be registered.
func NewKeyForm(prefill KeyRequest, preview KeyPreviewer, askID bool) (*KeyRequest, error) {
	req := prefill
	typ := string(req.Type)
	if typ == "" {
		typ = string(keys.Emoji)
	}

	typeField := huh.NewSelect[string]().
		Title("Entity type").
		Options(typeOptions()...).
		Value(&typ)

	nameField := huh.NewInput().
		Title("Display name").
		Value(&req.Name).
		Validate(func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("name is required")
			}
			return nil
		})

	previewNote := huh.NewNote().
		Title("Key").
		DescriptionFunc(func() string {
			return previewText(preview, keys.EntityType(typ), req.Name)
		}, &req.Name)

	if err := runForm(accessible(),
		huh.NewGroup(typeField),
		huh.NewGroup(nameField, previewNote),
	); err != nil {
		return nil, err
	}
	req.Type = keys.EntityType(typ)
	req.Name = strings.TrimSpace(req.Name)

	if askID {
		idField := huh.NewInput().
			Title("Discord ID").
			Description("The " + typ + "'s snowflake ID").
			Value(&req.ID).
			Validate(func(value string) error {
				return util.ValidateDiscordID(strings.TrimSpace(value))
			})
		if err := runForm(accessible(), huh.NewGroup(idField)); err != nil {
			return nil, err
		}
		req.ID = strings.TrimSpace(req.ID)
	}

	return &req, nil
}

func typeOptions() []huh.Option[string] {
	names := keys.TypeNames()
	options := make([]huh.Option[string], len(names))
	for i, name := range names {
		options[i] = huh.NewOption(name, name)
	}
	return options
}

// previewText renders the preview line shown under the name input.
func previewText(preview KeyPreviewer, t keys.EntityType, name string) string {
	if strings.TrimSpace(name) == "" {
		return "type a name to preview its key"
	}
	if preview == nil {
		preview = func(t keys.EntityType, name string) (string, error) {
			return keys.Normalize(context.Background(), name, t, nil)
		}
	}
	key, err := preview(t, name)
	if err != nil {
		return "error: " + err.Error()
	}
	return key
}
