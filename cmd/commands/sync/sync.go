// Package sync implements the "sync" command, which pulls guild entities
// from Discord or a snapshot file into the local store.
package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"baneslab/guildkeys/internal/auditlog"
	"baneslab/guildkeys/internal/config"
	"baneslab/guildkeys/internal/discord"
	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/guildstore"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/logging"
	"baneslab/guildkeys/internal/services/auth"
	"baneslab/guildkeys/internal/services/registry"
	"baneslab/guildkeys/internal/snapshot"
	"baneslab/guildkeys/internal/tui"
	"baneslab/guildkeys/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// discordSource builds the live Discord source. Tests replace it.
var discordSource = func() (domain.Source, error) {
	client, err := discord.FromStore(auth.DefaultStore())
	if errors.Is(err, auth.ErrTokenNotFound) {
		return nil, fmt.Errorf("no Discord bot token stored: run 'guildkeys auth login discord'")
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// interactive reports whether progress can be drawn on stderr.
var interactive = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// NewCommand returns the "sync" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull guild entities into the local store",
		Long: `Fetch emojis, channels, roles and webhooks for a guild and store them,
allocating keys for entities seen for the first time. Entities already
stored keep their keys, even when renamed on Discord.

The guild defaults to the guild-id config value. Use --from-file to sync
from a YAML or JSON snapshot instead of the Discord API, and --export to
write what was fetched to a snapshot file.

Examples:
  guildkeys sync --guild 123456789012345678
  guildkeys sync --types emoji,role --prune
  guildkeys sync --from-file guild.yaml
  guildkeys sync --export guild.yaml`,
		Args:         cobra.NoArgs,
		RunE:         runSync,
		SilenceUsage: true,
	}

	cmd.Flags().String("guild", "", "Guild ID (defaults to config guild-id)")
	cmd.Flags().StringSlice("types", nil, "Entity types to sync (default all): "+strings.Join(keys.TypeNames(), ", "))
	cmd.Flags().String("from-file", "", "Read entities from a snapshot file instead of Discord")
	cmd.Flags().String("export", "", "Write the fetched snapshot to this file (.yaml or .json)")
	cmd.Flags().Bool("prune", false, "Delete stored entities that no longer exist in the guild")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	types, err := parseTypes(cmd)
	if err != nil {
		return err
	}

	guildID, err := resolveGuild(cmd)
	if err != nil {
		return err
	}

	fromFile, _ := cmd.Flags().GetString("from-file")
	var source domain.Source
	fetchTypes := types
	if fromFile != "" {
		source = snapshot.NewFileSource(fromFile)
		// Without --types, sync whatever lists the file holds.
		if !cmd.Flag("types").Changed {
			fetchTypes = nil
		}
	} else {
		if guildID == "" {
			return fmt.Errorf("no guild specified: use --guild or set one with 'guildkeys config set guild-id <id>'")
		}
		source, err = discordSource()
		if err != nil {
			return err
		}
	}

	logger := logging.FromContext(cmd.Context())
	logger.Debug("fetching guild snapshot", "guild", guildID, "types", types, "file", fromFile)

	snap, err := fetch(cmd.Context(), source, guildID, fetchTypes)
	if err != nil {
		return fmt.Errorf("failed to fetch guild: %w", err)
	}

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{GuildID: snap.GuildID}))

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := snapshot.Save(exportPath, snap); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot written to %s\n", exportPath)
	}

	store, err := guildstore.Open()
	if err != nil {
		return err
	}
	svc := registry.New(store, registry.WithLogger(logger))
	defer svc.Close()

	prune, _ := cmd.Flags().GetBool("prune")
	results, err := svc.SyncSnapshot(cmd.Context(), snap, types, prune)
	if err != nil {
		return err
	}

	if output == "json" {
		return printJSON(cmd, results)
	}
	printResults(cmd, results)
	return nil
}

func parseTypes(cmd *cobra.Command) ([]keys.EntityType, error) {
	raw, _ := cmd.Flags().GetStringSlice("types")
	if len(raw) == 0 {
		return keys.AllTypes, nil
	}

	seen := make(map[keys.EntityType]bool, len(raw))
	types := make([]keys.EntityType, 0, len(raw))
	for _, name := range raw {
		t, err := keys.ParseEntityType(name)
		if err != nil {
			return nil, fmt.Errorf("--types: %w (valid: %s)", err, strings.Join(keys.TypeNames(), ", "))
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types, nil
}

// resolveGuild returns the --guild flag value, falling back to the
// configured guild-id when the flag was not explicitly passed.
func resolveGuild(cmd *cobra.Command) (string, error) {
	if cmd.Flag("guild").Changed {
		guild, _ := cmd.Flags().GetString("guild")
		guild = strings.TrimSpace(guild)
		if err := util.ValidateDiscordID(guild); err != nil {
			return "", fmt.Errorf("--guild: %w", err)
		}
		return guild, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.GuildID, nil
}

// fetch loads the snapshot, behind a spinner when stderr is a terminal.
func fetch(ctx context.Context, source domain.Source, guildID string, types []keys.EntityType) (*domain.Snapshot, error) {
	if !interactive() {
		return source.Snapshot(ctx, guildID, types)
	}

	var snap *domain.Snapshot
	err := tui.RunWithSpinner("Fetching guild entities...", func(spinCtx context.Context) error {
		fetchCtx, release := mergeCancel(ctx, spinCtx)
		defer release()

		var err error
		snap, err = source.Snapshot(fetchCtx, guildID, types)
		return err
	})
	return snap, err
}

// mergeCancel returns a context carrying parent's values that is also
// cancelled when other is. The returned func releases both links and
// must be called once the context is no longer needed.
func mergeCancel(parent, other context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(other, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
