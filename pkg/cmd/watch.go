package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mediadl/dlctl/internal/watch"
)

var watchInterval = watch.DefaultInterval

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch downloads live",
	Long: `Shows transfer speeds and the download list, refreshed periodically.

Press 'p' to pause or resume downloading and 'q' to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return watch.Run(cmd.Context(), c, watchInterval)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watch.DefaultInterval, "how often to refresh")
	rootCmd.AddCommand(watchCmd)
}
