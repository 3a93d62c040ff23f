// Projects command: list the mirrored projects.
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List your projects",
		RunE:  runProjects,
	}
}

func runProjects(cmd *cobra.Command, args []string) error {
	s, done, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	data := s.store.Data()
	if flagJSON {
		return printJSON(data.Projects)
	}

	ids := make([]string, 0, len(data.Projects))
	for id := range data.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := data.Projects[id]
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%d characters, %d worlds, %d writings, %d events, %d eras, %d items)\n",
			p.ProjectID, p.Name,
			len(p.Characters), len(p.Worlds), len(p.Writings),
			len(p.Timeline), len(p.Eras), len(p.Catalogue))
	}
	return nil
}
