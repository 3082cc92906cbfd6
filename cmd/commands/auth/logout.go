package auth

import (
	"errors"
	"fmt"

	"baneslab/guildkeys/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout [provider]",
		Short: "Remove a stored API token",
		Long: `Remove a stored API token from the local keychain. The provider
defaults to discord.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := providerArg(args)
			if err != nil {
				return err
			}

			err = auth.DefaultStore().DeleteToken(provider)
			if errors.Is(err, auth.ErrTokenNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No token stored for provider %s\n", provider)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed token for provider %s\n", provider)
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
