package key

import (
	"errors"
	"fmt"

	"baneslab/guildkeys/internal/domain"

	"github.com/spf13/cobra"
)

// ShowCommand returns the "key show" command.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <type> <key-or-id>",
		Short: "Show a stored entity",
		Long: `Show a stored entity, looked up by key or by Discord ID.

Examples:
  guildkeys key show role role_clan_war
  guildkeys key show emoji 99887766 -o json`,
		Args:         cobra.ExactArgs(2),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	output, err := checkOutput(cmd)
	if err != nil {
		return err
	}
	t, err := parseType(args[0])
	if err != nil {
		return err
	}

	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	e, err := svc.Lookup(cmd.Context(), t, args[1])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no %s stored with key or ID %q", t, args[1])
	}
	if err != nil {
		return err
	}

	if output == "json" {
		return writeJSON(cmd, e)
	}
	printEntity(cmd, e)
	return nil
}
