package key

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"baneslab/guildkeys/internal/auditlog"
	"baneslab/guildkeys/internal/discord"
	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/tui"
	"baneslab/guildkeys/internal/util"

	"github.com/spf13/cobra"
)

// RegisterCommand returns the "key register" command.
func RegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <type> <id> <name...>",
		Short: "Allocate a key for an entity and store it",
		Long: `Allocate a key for a guild entity and store it.

An entity already stored under the same ID keeps its key; only its
details are updated. With no arguments in a terminal, an interactive
form collects the type, name and ID.

Examples:
  guildkeys key register role 1234567890 "Clan War"
  guildkeys key register emoji 99887766 party --animated
  guildkeys key register webhook 5550001 Alerts --url https://discord.com/api/webhooks/5550001/abc`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) < 3 {
				return fmt.Errorf("requires <type> <id> <name...>, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE:         runRegister,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("animated", false, "Emoji is animated")
	cmd.Flags().String("category", "", "Channel category name")
	cmd.Flags().Int("channel-type", 0, "Discord channel type number")
	cmd.Flags().Int("color", 0, "Role color as an integer")
	cmd.Flags().String("permissions", "", "Permission bit set as a decimal string")
	cmd.Flags().String("url", "", "Webhook URL")
	cmd.Flags().String("channel", "", "Channel ID a webhook posts to")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	output, err := checkOutput(cmd)
	if err != nil {
		return err
	}

	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	if len(args) == 0 {
		if !isTerminal() {
			return fmt.Errorf("type, id and name are required when not running in a terminal")
		}
		preview := func(t keys.EntityType, name string) (string, error) {
			return svc.NewKey(cmd.Context(), t, name)
		}
		req, err := tui.NewKeyForm(tui.KeyRequest{}, preview, true)
		if err != nil {
			return err
		}
		args = []string{string(req.Type), req.ID, req.Name}
	}

	t, err := parseType(args[0])
	if err != nil {
		return err
	}
	id := strings.TrimSpace(args[1])
	if err := util.ValidateDiscordID(id); err != nil {
		return err
	}

	entity, err := entityFromFlags(cmd, t, id, strings.Join(args[2:], " "))
	if err != nil {
		return err
	}

	stored, err := svc.Register(cmd.Context(), entity)
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", t, err)
	}

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		EntityType: string(stored.Type),
		EntityID:   stored.ID,
		EntityKey:  stored.Key,
	}))

	if output == "json" {
		return writeJSON(cmd, stored)
	}
	printEntity(cmd, stored)
	return nil
}

// entityFromFlags builds the entity to register. Flags that do not apply
// to type t are ignored.
func entityFromFlags(cmd *cobra.Command, t keys.EntityType, id, name string) (domain.GuildEntity, error) {
	e := domain.GuildEntity{Type: t, ID: id, Name: strings.TrimSpace(name)}
	flags := cmd.Flags()

	switch t {
	case keys.Emoji:
		e.Animated, _ = flags.GetBool("animated")
		e.Format = discord.FormatEmoji(e.Name, e.ID, e.Animated)
	case keys.Channel:
		e.Category, _ = flags.GetString("category")
		e.ChannelType, _ = flags.GetInt("channel-type")
		e.Permissions, _ = flags.GetString("permissions")
	case keys.Role:
		e.Color, _ = flags.GetInt("color")
		e.Permissions, _ = flags.GetString("permissions")
	case keys.Webhook:
		e.URL, _ = flags.GetString("url")
		e.ChannelID, _ = flags.GetString("channel")
		if e.URL == "" {
			return e, fmt.Errorf("--url is required for webhooks")
		}
		if e.ChannelID != "" {
			if err := util.ValidateDiscordID(e.ChannelID); err != nil {
				return e, fmt.Errorf("--channel: %w", err)
			}
		}
	}
	return e, nil
}

// printEntity writes a two-column field listing for e.
func printEntity(cmd *cobra.Command, e *domain.GuildEntity) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Key:\t%s\n", e.Key)
	fmt.Fprintf(w, "Type:\t%s\n", e.Type)
	fmt.Fprintf(w, "ID:\t%s\n", e.ID)
	fmt.Fprintf(w, "Name:\t%s\n", e.Name)
	switch e.Type {
	case keys.Emoji:
		fmt.Fprintf(w, "Format:\t%s\n", e.Format)
		fmt.Fprintf(w, "Animated:\t%t\n", e.Animated)
	case keys.Channel:
		fmt.Fprintf(w, "Category:\t%s\n", e.Category)
		fmt.Fprintf(w, "Channel type:\t%d\n", e.ChannelType)
	case keys.Role:
		fmt.Fprintf(w, "Color:\t#%06X\n", e.Color)
		fmt.Fprintf(w, "Permissions:\t%s\n", valueOr(e.Permissions, "0"))
	case keys.Webhook:
		fmt.Fprintf(w, "URL:\t%s\n", e.URL)
		fmt.Fprintf(w, "Channel:\t%s\n", valueOr(e.ChannelID, "-"))
	}
	if !e.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated:\t%s\n", e.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
