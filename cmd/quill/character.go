// Character commands: add, set, rm.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quill/internal/coordinator"
	"github.com/mesh-intelligence/quill/pkg/types"
)

func newCharacterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "character",
		Aliases: []string{"char"},
		Short:   "Manage characters",
	}
	cmd.PersistentFlags().String("project", "", "project ID (required)")
	_ = cmd.MarkPersistentFlagRequired("project")

	cmd.AddCommand(newCharacterAddCmd())
	cmd.AddCommand(newCharacterSetCmd())
	cmd.AddCommand(newCharacterRmCmd())
	return cmd
}

func newCharacterAddCmd() *cobra.Command {
	var name, species, world string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a character",
		Example: `  quill character add --project p1 --name "Aria Voss" --species human`,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			ch, err := s.coord.CreateCharacter(cmd.Context(), projectID, &types.Character{
				Name:          name,
				Species:       species,
				LinkedWorldID: world,
			})
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(ch)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created character %s\n", ch.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "character name (required)")
	cmd.Flags().StringVar(&species, "species", "", "species")
	cmd.Flags().StringVar(&world, "world", "", "home world ID")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCharacterSetCmd() *cobra.Command {
	var name, species, world string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a character's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var patch coordinator.CharacterPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("species") {
				patch.Species = &species
			}
			if cmd.Flags().Changed("world") {
				patch.LinkedWorldID = &world
			}

			ch, err := s.coord.UpdateCharacter(cmd.Context(), projectID, args[0], patch)
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(ch)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated character %s\n", ch.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&species, "species", "", "new species")
	cmd.Flags().StringVar(&world, "world", "", "new home world ID")
	return cmd
}

func newCharacterRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := s.coord.DeleteCharacter(cmd.Context(), projectID, args[0]); err != nil {
				return reportErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted character %s\n", args[0])
			return nil
		},
	}
}
