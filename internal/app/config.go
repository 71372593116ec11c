package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ditherit/ditherit/configs"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringP("output", "o", defaultConfigFile, "destination file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the current configuration to a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("output")
		if err := configs.WriteConfig(out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", out)
		return nil
	},
}
