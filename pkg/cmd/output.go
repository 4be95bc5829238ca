package cmd

import (
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"

	"github.com/mediadl/dlctl/config"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// defaultOutput picks tables for terminals and JSON for everything else.
func defaultOutput(w io.Writer) string {
	if f, ok := w.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return outputTable
		}
	}
	return outputJSON
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func wantJSON() bool {
	return config.Output == outputJSON
}
