package key

import (
	"errors"
	"fmt"

	"baneslab/guildkeys/internal/auditlog"
	"baneslab/guildkeys/internal/domain"

	"github.com/spf13/cobra"
)

// DeleteCommand returns the "key delete" command.
func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <type> <key-or-id>",
		Short: "Delete a stored entity and free its key",
		Long: `Delete a stored entity, looked up by key or by Discord ID. Its key
becomes available to the next entity that normalizes to it.

Example:
  guildkeys key delete role role_clan_war`,
		Args:         cobra.ExactArgs(2),
		RunE:         runDelete,
		SilenceUsage: true,
	}
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	t, err := parseType(args[0])
	if err != nil {
		return err
	}

	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	removed, err := svc.Delete(cmd.Context(), t, args[1])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no %s stored with key or ID %q", t, args[1])
	}
	if err != nil {
		return err
	}

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		EntityType: string(removed.Type),
		EntityID:   removed.ID,
		EntityKey:  removed.Key,
	}))

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s %s)\n", removed.Key, removed.Type, removed.ID)
	return nil
}
