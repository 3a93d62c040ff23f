// Writing commands: add, set, rm.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quill/internal/coordinator"
	"github.com/mesh-intelligence/quill/pkg/types"
)

func newWritingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "writing",
		Short: "Manage writing entries",
	}
	cmd.PersistentFlags().String("project", "", "project ID (required)")
	_ = cmd.MarkPersistentFlagRequired("project")

	cmd.AddCommand(newWritingAddCmd())
	cmd.AddCommand(newWritingSetCmd())
	cmd.AddCommand(newWritingRmCmd())
	return cmd
}

func newWritingAddCmd() *cobra.Command {
	var title, content string
	var tags []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a writing entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			w, err := s.coord.CreateWriting(cmd.Context(), projectID, &types.WritingEntry{
				Title:   title,
				Content: content,
				Tags:    tags,
			})
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created writing %s\n", w.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "entry title (required)")
	cmd.Flags().StringVar(&content, "content", "", "entry body")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newWritingSetCmd() *cobra.Command {
	var title, content string
	var tags []string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a writing entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var patch coordinator.WritingPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = tags
			}

			w, err := s.coord.UpdateWriting(cmd.Context(), projectID, args[0], patch)
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated writing %s\n", w.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new body")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replacement tags (repeatable)")
	return cmd
}

func newWritingRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a writing entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := s.coord.DeleteWriting(cmd.Context(), projectID, args[0]); err != nil {
				return reportErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted writing %s\n", args[0])
			return nil
		},
	}
}
