package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediadl/dlctl/pkg/webui"
)

func setStateCmd(use, short string, state webui.State) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			next, err := c.SetDownloadState(cmd.Context(), state)
			if err != nil {
				return err
			}
			// The web UI answers with the state it can be switched to next,
			// or echoes the request when nothing changed.
			if next == state {
				fmt.Fprintf(cmd.OutOrStdout(), "Downloads already %s\n", stateName(state))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloads %s\n", stateName(state))
			return nil
		},
	}
}

func stateName(s webui.State) string {
	if s == webui.StatePause {
		return "paused"
	}
	return "running"
}

func init() {
	rootCmd.AddCommand(setStateCmd("pause", "Pause downloading", webui.StatePause))
	rootCmd.AddCommand(setStateCmd("resume", "Resume downloading", webui.StateContinue))
}
