package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/getsavvyinc/upgrade-cli"
	"github.com/spf13/cobra"

	"github.com/mediadl/dlctl/build"
)

const (
	owner = "mediadl"
	repo  = "dlctl"
)

// upgradeCmd upgrade the CLI to the latest version.
var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade dlctl to the latest release",
	Long:  "Upgrade dlctl to the latest release.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if build.IsDev() {
			return errors.New("development builds cannot be upgraded")
		}
		p, err := os.Executable()
		if err != nil {
			return fmt.Errorf("unable to find the current executable: %w", err)
		}
		v := build.BuildVersion

		u := upgrade.NewUpgrader(owner, repo, p)
		if ok, err := u.IsNewVersionAvailable(cmd.Context(), v); err != nil {
			return fmt.Errorf("unable to check for new version: %w", err)
		} else if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Already up to date.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Upgrading dlctl to the latest release...")
		if err := u.Upgrade(cmd.Context(), v); err != nil {
			return fmt.Errorf("unable to upgrade to the latest version: %w", err)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Upgrade complete!")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}
