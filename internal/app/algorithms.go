package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ditherit/ditherit/pkg/dither"
)

func init() {
	rootCmd.AddCommand(algorithmsCmd)
}

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the dithering algorithms and threshold maps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLABEL\tKIND")
		for _, a := range dither.Algorithms() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a, a.Label(), a.Kind())
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "Threshold maps (ordered):")
		for _, name := range dither.ThresholdMaps() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		return nil
	},
}
