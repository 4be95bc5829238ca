package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediadl/dlctl/config"
)

var (
	errNoPassword    = errors.New("no password configured, use --password")
	errCheckAndLogin = errors.New("--check verifies the configured password and cannot be combined with --password")
)

var (
	checkOnly     bool
	loginPassword string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the web UI",
	Long: `Logs in to the web UI with the configured password.

With --password the new password is checked against the web UI and stored in
the config file once it is accepted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkOnly && loginPassword != "" {
			return errCheckAndLogin
		}
		c, err := config.DefaultClient(cfg)
		if err != nil {
			return err
		}
		auth := config.NewAuthenticator(cfg, c)

		if loginPassword != "" {
			if err := auth.Authenticate(cmd.Context(), loginPassword); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Authenticated")
			return nil
		}
		if cfg.Password == "" {
			return errNoPassword
		}

		ok, err := auth.Check(cmd.Context())
		if err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("invalid password for %s", cfg.BaseURL)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Authenticated")
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&checkOnly, "check", false, "only check the configured password")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password to verify and store")
	rootCmd.AddCommand(loginCmd)
}
