// World commands: add, set, rm.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quill/internal/coordinator"
	"github.com/mesh-intelligence/quill/pkg/types"
)

func newWorldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "world",
		Short: "Manage worlds",
	}
	cmd.PersistentFlags().String("project", "", "project ID (required)")
	_ = cmd.MarkPersistentFlagRequired("project")

	cmd.AddCommand(newWorldAddCmd())
	cmd.AddCommand(newWorldSetCmd())
	cmd.AddCommand(newWorldRmCmd())
	return cmd
}

func newWorldAddCmd() *cobra.Command {
	var name, desc, geography, culture string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a world",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			w, err := s.coord.CreateWorld(cmd.Context(), projectID, &types.World{
				Name:        name,
				Description: desc,
				Geography:   geography,
				Culture:     culture,
			})
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created world %s\n", w.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "world name (required)")
	cmd.Flags().StringVar(&desc, "desc", "", "world description")
	cmd.Flags().StringVar(&geography, "geography", "", "geography notes")
	cmd.Flags().StringVar(&culture, "culture", "", "culture notes")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWorldSetCmd() *cobra.Command {
	var name, desc, geography, culture string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a world's fields",
		Long: `Set merges your changes into the locally mirrored world and sends the
complete object to the service; fields you do not pass keep their current
values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var patch coordinator.WorldPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("geography") {
				patch.Geography = &geography
			}
			if cmd.Flags().Changed("culture") {
				patch.Culture = &culture
			}

			w, err := s.coord.UpdateWorld(cmd.Context(), projectID, args[0], patch)
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated world %s\n", w.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	cmd.Flags().StringVar(&geography, "geography", "", "new geography notes")
	cmd.Flags().StringVar(&culture, "culture", "", "new culture notes")
	return cmd
}

func newWorldRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := s.coord.DeleteWorld(cmd.Context(), projectID, args[0]); err != nil {
				return reportErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted world %s\n", args[0])
			return nil
		},
	}
}
