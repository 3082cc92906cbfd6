package key

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"baneslab/guildkeys/internal/guildstore"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/logging"
	"baneslab/guildkeys/internal/services/registry"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewCommand returns the "key" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Derive and manage entity keys",
		Long: `Derive short, unique keys for guild emojis, channels, roles and webhooks.

Keys have the form <type>_<name>, are at most 32 characters long and
contain only lowercase letters, digits and underscores. When a key is
already taken a numeric suffix is appended (emoji_fire, emoji_fire_1, ...).

Entity types: ` + strings.Join(keys.TypeNames(), ", "),
		SilenceUsage: true,
	}

	cmd.AddCommand(NewKeyCommand())
	cmd.AddCommand(RegisterCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(BrowseCommand())

	return cmd
}

// openService opens the guild store and wraps it in a registry service
// that logs through the command's logger.
func openService(cmd *cobra.Command) (*registry.Service, error) {
	store, err := guildstore.Open()
	if err != nil {
		return nil, err
	}
	return registry.New(store, registry.WithLogger(logging.FromContext(cmd.Context()))), nil
}

func parseType(s string) (keys.EntityType, error) {
	t, err := keys.ParseEntityType(s)
	if err != nil {
		return "", fmt.Errorf("%w (valid: %s)", err, strings.Join(keys.TypeNames(), ", "))
	}
	return t, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func checkOutput(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "", "table":
		return "table", nil
	case "json":
		return output, nil
	}
	return "", fmt.Errorf("unsupported output format %q", output)
}
