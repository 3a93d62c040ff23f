// Event commands: add, set, rm, move, order.
package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quill/internal/coordinator"
	"github.com/mesh-intelligence/quill/pkg/types"
)

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage timeline events",
	}
	cmd.PersistentFlags().String("project", "", "project ID (required)")
	_ = cmd.MarkPersistentFlagRequired("project")

	cmd.AddCommand(newEventAddCmd())
	cmd.AddCommand(newEventSetCmd())
	cmd.AddCommand(newEventRmCmd())
	cmd.AddCommand(newEventMoveCmd())
	cmd.AddCommand(newEventOrderCmd())
	return cmd
}

func newEventAddCmd() *cobra.Command {
	var era, title, date, desc string
	var tags []string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create an event at the end of an era",
		Example: `  quill event add --project p1 --era E1 --title "The city falls" --date "Year 412"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			ev, err := s.coord.CreateEvent(cmd.Context(), projectID, &types.TimelineEvent{
				EraID:       era,
				Title:       title,
				DisplayDate: date,
				Description: desc,
				Tags:        tags,
			})
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(ev)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created event %s at position %d in era %s\n", ev.ID, ev.Order, ev.EraID)
			return nil
		},
	}
	cmd.Flags().StringVar(&era, "era", "", "era ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "event title (required)")
	cmd.Flags().StringVar(&date, "date", "", "narrative display date")
	cmd.Flags().StringVar(&desc, "desc", "", "event description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	_ = cmd.MarkFlagRequired("era")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEventSetCmd() *cobra.Command {
	var title, date, desc string
	var tags []string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update an event's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var patch coordinator.EventPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("date") {
				patch.DisplayDate = &date
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = tags
			}

			ev, err := s.coord.UpdateEvent(cmd.Context(), projectID, args[0], patch)
			if err != nil {
				return reportErr(err)
			}
			if flagJSON {
				return printJSON(ev)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated event %s\n", ev.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&date, "date", "", "new display date")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replacement tags (repeatable)")
	return cmd
}

func newEventRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := s.coord.DeleteEvent(cmd.Context(), projectID, args[0]); err != nil {
				return reportErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", args[0])
			return nil
		},
	}
}

func newEventMoveCmd() *cobra.Command {
	var toEra string
	var position int
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move an event to a different era",
		Long: `Move re-homes the event into the destination era at the given 0-based
position (default: end), then renumbers both the origin and the destination
era's events densely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			pos := position
			if !cmd.Flags().Changed("position") {
				pos = math.MaxInt // clamps to the end of the era
			}
			if err := s.coord.MoveEvent(cmd.Context(), projectID, args[0], toEra, pos); err != nil {
				return reportErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved event %s to era %s\n", args[0], toEra)
			return nil
		},
	}
	cmd.Flags().StringVar(&toEra, "to-era", "", "destination era ID (required)")
	cmd.Flags().IntVar(&position, "position", 0, "0-based position in the destination era")
	_ = cmd.MarkFlagRequired("to-era")
	return cmd
}

func newEventOrderCmd() *cobra.Command {
	var era string
	cmd := &cobra.Command{
		Use:   "order <id> <id> ...",
		Short: "Reorder the events of one era",
		Long: `Order takes the complete list of the era's event IDs in their new
sequence. Supplying a subset, a duplicate, or an event from another era is
rejected before any call to the service.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, _ := cmd.Flags().GetString("project")
			s, done, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := s.coord.ReorderEvents(cmd.Context(), projectID, era, args); err != nil {
				return reportErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Events reordered")
			return nil
		},
	}
	cmd.Flags().StringVar(&era, "era", "", "era ID (required)")
	_ = cmd.MarkFlagRequired("era")
	return cmd
}
