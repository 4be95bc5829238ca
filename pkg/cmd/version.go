package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediadl/dlctl/build"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "The version of this CLI",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
