// Package text exposes the string normalizers used for display names and
// player-name matching.
package text

import (
	"fmt"
	"strings"

	"baneslab/guildkeys/internal/util"

	"github.com/spf13/cobra"
)

// NewCommand returns the "text" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Apply the text normalizers to a string",
		Long: `Apply the text normalizers to a string. Arguments are joined with a
single space before normalizing.

Examples:
  guildkeys text capitalize clan_war        # Clan War
  guildkeys text snake "Hello  World-Foo"   # hello_world_foo
  guildkeys text loose Iron_Man-99          # iron man 99`,
		SilenceUsage: true,
	}

	cmd.AddCommand(normalizerCommand("capitalize", "Turn an underscored key fragment into a display name", util.Capitalize))
	cmd.AddCommand(normalizerCommand("snake", "Lowercase and join words with underscores", util.SnakeCase))
	cmd.AddCommand(normalizerCommand("loose", "Reduce text to a loosely comparable form", util.LooseMatch))

	return cmd
}

func normalizerCommand(use, short string, fn func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <text...>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), fn(strings.Join(args, " ")))
			return nil
		},
		SilenceUsage: true,
	}
}
