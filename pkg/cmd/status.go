package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mediadl/dlctl/pkg/webui"
	"github.com/mediadl/dlctl/pretty"
)

type statusOutput struct {
	*webui.Status
	AppVersion string `json:"app_version"`
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show transfer speeds and the downloader version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		out := statusOutput{}
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			s, err := c.DownloadStatus(ctx)
			out.Status = s
			return err
		})
		g.Go(func() error {
			v, err := c.AppVersion(ctx)
			out.AppVersion = v
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if wantJSON() {
			return printJSON(cmd.OutOrStdout(), out)
		}
		pretty.Table{
			Header: pretty.Header{"DOWNLOAD", "UPLOAD", "VERSION"},
			Rows: pretty.Rows{
				{out.DownloadSpeed, out.UploadSpeed, out.AppVersion},
			},
		}.Render(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
