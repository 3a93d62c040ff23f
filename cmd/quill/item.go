// Catalogue item commands: add, set, rm.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quill/internal/coordinator"
	"github.com/mesh-intelligence/quill/pkg/types"
)

func newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage catalogue items",
	}
	cmd.PersistentFlags().String("project", "", "project ID (required)")
	_ = cmd.MarkPersistentFlagRequired("project")

	cmd.AddCommand(newItemAddCmd())
	cmd.AddCommand(newItemSetCmd())
	cmd.AddCommand(newItemRmCmd())
	return cmd
}

func newItemAddCmd() *cobra.Command {
	var name, category, desc string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a catalogue item",
		Example: `  quill item add --project p1 --name "Sunforged Blade" --category artifact`,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			it, err := s.coord.CreateItem(cmd.Context(), projectID, &types.CatalogueItem{
				Name:        name,
				Category:    category,
				Description: desc,
			})
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(it)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created item %s\n", it.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "item name (required)")
	cmd.Flags().StringVar(&category, "category", "", "item category")
	cmd.Flags().StringVar(&desc, "desc", "", "item description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemSetCmd() *cobra.Command {
	var name, category, desc string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a catalogue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var patch coordinator.CatalogueItemPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}

			it, err := s.coord.UpdateItem(cmd.Context(), projectID, args[0], patch)
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(it)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s\n", it.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	return cmd
}

func newItemRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a catalogue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := s.coord.DeleteItem(cmd.Context(), projectID, args[0]); err != nil {
				return reportErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", args[0])
			return nil
		},
	}
}
