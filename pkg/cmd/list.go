package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediadl/dlctl/pkg/webui"
	"github.com/mediadl/dlctl/pretty"
)

var listDone bool

func buildDownloadHeader() pretty.Header {
	return pretty.Header{
		"CHAT",
		"ID",
		"FILENAME",
		"SIZE",
		"PROGRESS",
		"SPEED",
		"SAVE PATH",
	}
}

func buildDownloadRow(d webui.Download) []interface{} {
	return []interface{}{
		d.Chat,
		d.ID,
		d.Filename,
		d.Size,
		fmt.Sprintf("%.1f%%", d.Progress),
		d.Speed,
		d.SavePath,
	}
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		ds, err := c.DownloadList(cmd.Context(), listDone)
		if err != nil {
			return err
		}

		if wantJSON() {
			if ds == nil {
				ds = []webui.Download{}
			}
			return printJSON(cmd.OutOrStdout(), ds)
		}
		t := pretty.Table{
			Header:     buildDownloadHeader(),
			AlignRight: []string{"SIZE", "PROGRESS", "SPEED"},
		}
		for _, d := range ds {
			t.Rows = append(t.Rows, buildDownloadRow(d))
		}
		t.Render(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listDone, "done", false, "list finished downloads only")
	rootCmd.AddCommand(listCmd)
}
