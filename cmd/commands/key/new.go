package key

import (
	"fmt"
	"strings"

	"baneslab/guildkeys/internal/auditlog"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/tui"

	"github.com/spf13/cobra"
)

// NewKeyCommand returns the "key new" command.
func NewKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [type] [name...]",
		Short: "Print the key a display name would receive",
		Long: `Print the key a display name would receive right now, taking keys
already stored for that type into account. Nothing is stored.

With no arguments in a terminal, an interactive form shows the key as
you type.

Examples:
  guildkeys key new role "Clan War!!"     # role_clan_war
  guildkeys key new emoji fire            # emoji_fire_1 if emoji_fire is taken
  guildkeys key new`,
		RunE:         runNew,
		SilenceUsage: true,
	}
	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	if len(args) < 2 {
		if !isTerminal() {
			return fmt.Errorf("type and name are required when not running in a terminal")
		}
		prefill := tui.KeyRequest{}
		if len(args) == 1 {
			t, err := parseType(args[0])
			if err != nil {
				return err
			}
			prefill.Type = t
		}
		preview := func(t keys.EntityType, name string) (string, error) {
			return svc.NewKey(cmd.Context(), t, name)
		}
		req, err := tui.NewKeyForm(prefill, preview, false)
		if err != nil {
			return err
		}
		args = []string{string(req.Type), req.Name}
	}

	t, err := parseType(args[0])
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")

	key, err := svc.NewKey(cmd.Context(), t, name)
	if err != nil {
		return err
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		EntityType: string(t),
		EntityKey:  key,
	}))

	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}
