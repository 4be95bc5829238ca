package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediadl/dlctl/config"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the web UI in a browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.DefaultClient(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Opening browser...")
		return config.NewAuthenticator(cfg, c).OpenBrowser()
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
