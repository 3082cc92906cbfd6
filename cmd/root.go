package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"baneslab/guildkeys/cmd/commands/audit"
	"baneslab/guildkeys/cmd/commands/auth"
	cfgcmd "baneslab/guildkeys/cmd/commands/config"
	"baneslab/guildkeys/cmd/commands/key"
	synccmd "baneslab/guildkeys/cmd/commands/sync"
	"baneslab/guildkeys/cmd/commands/text"
	"baneslab/guildkeys/internal/auditlog"
	"baneslab/guildkeys/internal/config"
	"baneslab/guildkeys/internal/database"
	"baneslab/guildkeys/internal/logging"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "guildkeys",
		Short: "Derive short, unique keys for Discord guild entities",
		Long: `guildkeys turns Discord emoji, channel, role and webhook names into short,
database-safe keys such as emoji_fire or role_clan_war, and keeps a local
store of every key it has handed out so that no two entities of a type
ever share one.

Quick start:
  guildkeys auth login                     # Store your Discord bot token
  guildkeys config set guild-id <id>       # Pick the guild to sync
  guildkeys sync                           # Pull entities and allocate keys
  guildkeys key list role                  # See the keys
  guildkeys key new emoji "Party Parrot"   # Preview a key without storing it`,
		PersistentPreRunE: setup,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(key.NewCommand())
	cmd.AddCommand(synccmd.NewCommand())
	cmd.AddCommand(text.NewCommand())

	return cmd
}

// setup loads the config, points the database at the configured path and
// attaches a logger to the command context.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	database.UseConfigured(cfg.DatabasePath)

	logCfg := cfg.LoggingConfig()
	logCfg.Output = cmd.ErrOrStderr()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logCfg.Level = logging.DebugLevel
	}
	logger := logging.New(logCfg)
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithContext(cmd.Context(), logger))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	root := rootCmd()

	start := time.Now()
	executed, err := root.ExecuteC()
	recordAudit(executed, os.Args[1:], err, start)
	if err != nil {
		os.Exit(1)
	}
}

// recordAudit is the central audit writer. Failures to open or write the
// audit log never fail the command.
func recordAudit(cmd *cobra.Command, args []string, runErr error, start time.Time) {
	if !shouldAudit(cmd) {
		return
	}

	repo, err := auditlog.Open()
	if err != nil {
		logging.Default().Debug("audit log unavailable", "err", err)
		return
	}
	defer repo.Close()

	if err := repo.Save(auditEntry(cmd, args, runErr, start)); err != nil {
		logging.Default().Debug("failed to write audit entry", "err", err)
	}
}

func auditEntry(cmd *cobra.Command, args []string, runErr error, start time.Time) *auditlog.AuditEntry {
	meta := auditlog.MetadataFromContext(cmd.Context())
	entry := &auditlog.AuditEntry{
		Timestamp:  start.UTC(),
		Command:    cmd.CommandPath(),
		Args:       strings.Join(auditlog.SanitizeArgs(args), " "),
		GuildID:    meta.GuildID,
		EntityType: meta.EntityType,
		EntityID:   meta.EntityID,
		EntityKey:  meta.EntityKey,
		Outcome:    auditlog.OutcomeSuccess,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if runErr != nil {
		entry.Outcome = auditlog.OutcomeError
		entry.Detail = runErr.Error()
	}
	return entry
}

// shouldAudit skips the root command, help, shell completion, and the
// audit and text groups.
func shouldAudit(cmd *cobra.Command) bool {
	if cmd == nil || !cmd.HasParent() {
		return false
	}
	for c := cmd; c.HasParent(); c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
		if !c.Parent().HasParent() && (c.Name() == "audit" || c.Name() == "text") {
			return false
		}
	}
	return true
}
