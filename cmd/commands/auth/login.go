package auth

import (
	"fmt"
	"os"
	"strings"

	"baneslab/guildkeys/internal/services/auth"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// readToken prompts for a token without echoing it.
var readToken = func(cmd *cobra.Command) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no token given: use --token when not running in a terminal")
	}
	fmt.Fprint(cmd.OutOrStdout(), "Enter bot token: ")
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [provider]",
		Short: "Store an API token",
		Long: `Store an API token in the local keychain. The provider defaults to discord.

Example:
  guildkeys auth login
  guildkeys auth login discord --token "$DISCORD_BOT_TOKEN"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := providerArg(args)
			if err != nil {
				return err
			}

			token, _ := cmd.Flags().GetString("token")
			token = strings.TrimSpace(token)
			if token == "" {
				token, err = readToken(cmd)
				if err != nil {
					return err
				}
				token = strings.TrimSpace(token)
			}
			if token == "" {
				return auth.ErrEmptyToken
			}

			if err := auth.DefaultStore().SetToken(provider, token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved token for provider %s\n", provider)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmd
}

func providerArg(args []string) (string, error) {
	if len(args) == 0 {
		return auth.Providers[0], nil
	}
	return auth.ValidateProvider(args[0])
}
