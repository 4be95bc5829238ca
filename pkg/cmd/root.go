package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/mediadl/dlctl/config"
)

// cfg is the configuration loaded once per invocation before any command runs.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dlctl",
	Short: "dlctl controls a media downloader through its web UI.",
	Long: `The dlctl CLI talks to the downloader web UI the same way its browser page does.

Start by storing the web UI password with 'dlctl login --password <password>'.
`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if err := config.InitLogging(cfg); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		switch config.Output {
		case "":
			config.Output = defaultOutput(cmd.OutOrStdout())
		case outputTable, outputJSON:
		default:
			return fmt.Errorf("unknown output format %q", config.Output)
		}
		return nil
	},
}

// ExecuteContext executes root command with context.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.ConfigFile, "config", "", "Config file (default is $HOME/.dlctl/config.yaml).")
	rootCmd.PersistentFlags().BoolVar(&config.AlsoLogToStderr, "alsologtostderr", false, "Log to standard error as well as files.")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "Enable verbose output.")
	rootCmd.PersistentFlags().StringVarP(&config.Output, "output", "o", "", "Output format, table or json (default is table on a terminal).")
}

// GenerateDocs generates the docs in dir.
func GenerateDocs(dir string) error {
	anchorLinks := func(s string) string {
		s = strings.ReplaceAll(s, "_", "-")
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, ".md", "")
		return fmt.Sprintf("#%s", s)
	}
	emptyStr := func(s string) string { return "" }
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	files, err := genMarkdownTreeCustom(rootCmd, dir, emptyStr, anchorLinks)
	if err != nil {
		return err
	}
	var combined strings.Builder
	for _, file := range files {
		f, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		combined.Write(f)
		combined.WriteString("\n\n")
	}
	if err = os.WriteFile(files[0], []byte(combined.String()), 0644); err != nil {
		return err
	}
	for _, file := range files[1:] {
		os.Remove(file)
	}
	return nil
}

var docsCmd = &cobra.Command{
	Use:    "gen-docs [dir]",
	Short:  "Generate markdown docs for this CLI",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./docs"
		if len(args) > 0 {
			dir = args[0]
		}
		return GenerateDocs(dir)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func genMarkdownTreeCustom(
	cmd *cobra.Command,
	dir string,
	filePrepender, linkHandler func(string) string,
) ([]string, error) {
	slog.Debug("Generating docs", "command", cmd.CommandPath())
	basename := strings.ReplaceAll(cmd.CommandPath(), " ", "_") + ".mdx"
	filename := filepath.Join(dir, basename)
	f, err := os.Create(filename)
	if err != nil {
		return []string{}, err
	}
	defer f.Close()

	if _, err := io.WriteString(f, filePrepender(filename)); err != nil {
		return []string{}, err
	}
	if err := doc.GenMarkdownCustom(cmd, f, linkHandler); err != nil {
		return []string{}, err
	}

	newFiles := []string{filename}
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		if files, err := genMarkdownTreeCustom(c, dir, filePrepender, linkHandler); err != nil {
			return newFiles, err
		} else {
			newFiles = append(newFiles, files...)
		}
	}
	return newFiles, nil
}
