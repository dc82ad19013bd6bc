package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkordes/dfw-explorer/internal/share"
)

func newShareCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Create and open share links",
		Long:  "Share links carry the trip title, description and place ids in the URL itself, so they open without the sender's store.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode <trip-id>",
		Short: "Print the share link for a trip",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			link, err := e.shares.Link(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <token>",
		Short: "Show what a share token contains",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			payload, err := share.Decode(args[0])
			if err != nil {
				return err
			}
			if e.asJSON {
				return writeJSON(cmd.OutOrStdout(), payload)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "title: %s\ndescription: %s\nplaces: %v\n",
				payload.Title, payload.Description, payload.PlaceIDs)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "open <token>",
		Short: "Resolve a share token into its places",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			shared, err := e.shares.Resolve(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			if e.asJSON {
				return writeJSON(cmd.OutOrStdout(), shared)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", shared.Title)
			if shared.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", shared.Description)
			}
			return e.printPlaces(cmd.OutOrStdout(), shared.Places)
		}),
	})

	return cmd
}
