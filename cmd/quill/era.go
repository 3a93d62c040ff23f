// Era commands: add, set, rm (cascading), order.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quill/internal/coordinator"
	"github.com/mesh-intelligence/quill/pkg/types"
)

func newEraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "era",
		Short: "Manage timeline eras",
	}
	cmd.PersistentFlags().String("project", "", "project ID (required)")
	_ = cmd.MarkPersistentFlagRequired("project")

	cmd.AddCommand(newEraAddCmd())
	cmd.AddCommand(newEraSetCmd())
	cmd.AddCommand(newEraRmCmd())
	cmd.AddCommand(newEraOrderCmd())
	return cmd
}

func newEraAddCmd() *cobra.Command {
	var name, desc string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an era at the end of the sequence",
		Example: `  quill era add --project p1 --name "Third Age"
  quill era add --project p1 --name "Interregnum" --desc "between the crowns"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			era, err := s.coord.CreateEra(cmd.Context(), projectID, &types.Era{Name: name, Description: desc})
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(era)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created era %s at position %d\n", era.ID, era.Order)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "era name (required)")
	cmd.Flags().StringVar(&desc, "desc", "", "era description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newEraSetCmd() *cobra.Command {
	var name, desc string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update an era's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var patch coordinator.EraPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}

			era, err := s.coord.UpdateEra(cmd.Context(), projectID, args[0], patch)
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(era)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated era %s\n", era.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	return cmd
}

func newEraRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an era and every event in it",
		Long: `Rm deletes the era, renumbers the remaining eras densely, and removes
every timeline event that belonged to the era. This cascade cannot be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := s.coord.DeleteEra(cmd.Context(), projectID, args[0]); err != nil {
				return reportErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted era %s and its events\n", args[0])
			return nil
		},
	}
}

func newEraOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order <id> <id> ...",
		Short: "Reorder all eras of a project",
		Long: `Order takes the complete list of the project's era IDs in their new
sequence. Supplying a subset, a duplicate, or a foreign ID is rejected
before any call to the service.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := s.coord.ReorderEras(cmd.Context(), projectID, args); err != nil {
				return reportErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Eras reordered")
			return nil
		},
	}
}
