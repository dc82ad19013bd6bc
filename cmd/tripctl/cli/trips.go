package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

func newTripsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Manage trips",
		Long:  "List, create and delete trips, add or remove places, and choose the active trip.",
	}

	cmd.AddCommand(newTripsListCommand(e))
	cmd.AddCommand(newTripsCreateCommand(e))
	cmd.AddCommand(newTripsDeleteCommand(e))
	cmd.AddCommand(newTripsAddCommand(e))
	cmd.AddCommand(newTripsRemoveCommand(e))
	cmd.AddCommand(newTripsActivateCommand(e))

	return cmd
}

func newTripsListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trips",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			trips, err := e.trips.List(ctx)
			if err != nil {
				return err
			}
			if e.asJSON {
				return writeJSON(cmd.OutOrStdout(), trips)
			}
			active, _ := e.trips.Active(ctx)
			return printTrips(cmd.OutOrStdout(), trips, active.ID)
		}),
	}
}

func newTripsCreateCommand(e *env) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a trip",
		Long:  "Create an empty trip. Without a name the trip is called \"" + domain.DefaultTripName + "\". The first trip becomes the active one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			trip, err := e.trips.Create(cmdContext(cmd), domain.TripInput{Name: name, Description: description})
			if err != nil {
				return err
			}
			return e.printTrip(cmd.OutOrStdout(), trip)
		}),
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "trip description")

	return cmd
}

func newTripsDeleteCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			if err := e.trips.Delete(cmdContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		}),
	}
}

func newTripsAddCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <trip-id> <place-id>",
		Short: "Add a place to a trip",
		Args:  cobra.ExactArgs(2),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			place, err := e.places.FetchPlaceByID(ctx, domain.PlaceID(args[1]))
			if err != nil {
				return err
			}
			added, err := e.trips.AddPlace(ctx, args[0], place)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already in %s\n", place.Name, args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", place.Name, args[0])
			return nil
		}),
	}
}

func newTripsRemoveCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <trip-id> <place-id>",
		Short: "Remove a place from a trip",
		Args:  cobra.ExactArgs(2),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			removed, err := e.trips.RemovePlace(cmdContext(cmd), args[0], domain.PlaceID(args[1]))
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "place %s is not in %s\n", args[1], args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed place %s from %s\n", args[1], args[0])
			return nil
		}),
	}
}

func newTripsActivateCommand(e *env) *cobra.Command {
	var clearActive bool

	cmd := &cobra.Command{
		Use:   "activate [trip-id]",
		Short: "Choose the active trip",
		Long:  "Make a trip the active one, or clear the active trip with --clear.",
		Args:  cobra.MaximumNArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			if clearActive == (len(args) == 1) {
				return fmt.Errorf("pass either a trip id or --clear")
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
				// The store accepts any id; catch typos here.
				if _, err := e.trips.Get(cmdContext(cmd), id); err != nil {
					return err
				}
			}
			if err := e.trips.SetActive(cmdContext(cmd), id); err != nil {
				return err
			}
			if id == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no active trip")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active trip is %s\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&clearActive, "clear", false, "clear the active trip")

	return cmd
}

func (e *env) printTrip(w io.Writer, t domain.Trip) error {
	if e.asJSON {
		return writeJSON(w, t)
	}
	return printTrips(w, []domain.Trip{t}, "")
}

func printTrips(w io.Writer, trips []domain.Trip, activeID string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tPLACES\tUPDATED")
	for _, t := range trips {
		marker := ""
		if t.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", marker, t.ID, t.Name, len(t.Places), t.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
