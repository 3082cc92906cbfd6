package config

import (
	"baneslab/guildkeys/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage guildkeys configuration",
		Long: "View and modify persistent guildkeys settings.\n\n" +
			"Configuration is stored at ~/.config/guildkeys/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
