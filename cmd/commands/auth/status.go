package auth

import (
	"errors"
	"fmt"

	"baneslab/guildkeys/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which providers have a stored token",
		Long: `Show which providers have a stored API token.

Example:
  guildkeys auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()
			for _, provider := range auth.Providers {
				_, err := store.GetToken(provider)
				switch {
				case err == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: logged in\n", provider)
				case errors.Is(err, auth.ErrTokenNotFound):
					fmt.Fprintf(cmd.OutOrStdout(), "%s: not logged in\n", provider)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", provider, err)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
