package key

import (
	"fmt"
	"path/filepath"

	"baneslab/guildkeys/internal/database"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/tui"

	"github.com/spf13/cobra"
)

// BrowseCommand returns the "key browse" command.
func BrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [type]",
		Short: "Browse stored keys interactively",
		Long: `Open a full-screen browser over stored keys. Switch types with tab,
filter with /, and delete the selected entity with d.`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runBrowse,
		SilenceUsage: true,
	}
	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return fmt.Errorf("key browse requires a terminal; use 'guildkeys key list' instead")
	}

	start := keys.Emoji
	if len(args) == 1 {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}
		start = t
	}

	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	source := ""
	if path, err := database.DefaultPath(); err == nil {
		source = filepath.Base(path)
	}
	return tui.RunKeyBrowser(cmd.Context(), svc, start, source)
}
