package sync

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"baneslab/guildkeys/internal/services/registry"

	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, results []registry.SyncResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func printResults(cmd *cobra.Command, results []registry.SyncResult) {
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TYPE\tADDED\tUPDATED\tREMOVED\tSKIPPED")
	fmt.Fprintln(w, "----\t-----\t-------\t-------\t-------")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", r.Type, len(r.Added), r.Updated, r.Removed, r.Skipped)
	}
	w.Flush()

	for _, r := range results {
		for _, e := range r.Added {
			fmt.Fprintf(out, "+ %s (%s)\n", e.Key, e.Name)
		}
	}
}
