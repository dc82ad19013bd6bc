package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/dfw-explorer/internal/service"
)

func newExportCommand(e *env) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every trip to a JSON file",
		Long:  "Write every trip to a JSON file named travel-trips-<date>.json, or to the path given with --out. Use --out - for stdout.",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			if out == "-" {
				return e.exports.Export(ctx, cmd.OutOrStdout())
			}
			if out == "" {
				out = service.FileName(time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := e.exports.Export(ctx, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported trips to %s\n", out)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path")

	return cmd
}

func newImportCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append trips from an exported JSON file",
		Long:  "Append every trip in a file produced by export. Existing trips are kept; nothing is de-duplicated.",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := e.exports.Import(cmdContext(cmd), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d trips\n", n)
			return nil
		}),
	}
}
