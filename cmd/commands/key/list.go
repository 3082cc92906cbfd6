package key

import (
	"fmt"
	"text/tabwriter"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"

	"github.com/spf13/cobra"
)

// ListCommand returns the "key list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [type]",
		Short: "List stored keys",
		Long: `List stored keys, ordered by key. Without a type, every type is listed.

Examples:
  guildkeys key list
  guildkeys key list role
  guildkeys key list emoji -o json`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, err := checkOutput(cmd)
	if err != nil {
		return err
	}

	types := keys.AllTypes
	if len(args) == 1 {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}
		types = []keys.EntityType{t}
	}

	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	entities := make([]domain.GuildEntity, 0)
	for _, t := range types {
		list, err := svc.List(cmd.Context(), t)
		if err != nil {
			return err
		}
		entities = append(entities, list...)
	}

	if output == "json" {
		return writeJSON(cmd, entities)
	}

	if len(entities) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No keys found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tID\tNAME")
	fmt.Fprintln(w, "---\t----\t--\t----")
	for _, e := range entities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Key, e.Type, e.ID, e.Name)
	}
	w.Flush()
	return nil
}
