// Sync command: refresh the local mirror from the entity service.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull the full entity graph from the service",
		Long: `Sync fetches your complete data from the entity service's /me/data
endpoint, replaces the local mirror, and rewrites the offline snapshot.
The server's state always wins; local snapshots are a cache only.`,
		RunE: runSync,
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, done, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer done()

	data, err := s.coord.Load(ctx)
	if err != nil {
		return reportErr(err)
	}

	if flagJSON {
		return printJSON(data)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d project(s) for %s\n", len(data.Projects), data.Username)
	return nil
}
