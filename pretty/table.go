// Package pretty renders command output for terminals.
package pretty

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type (
	Header []string
	Rows   [][]interface{}
)

type Style int

const (
	StyleDefault Style = iota
	StyleWithBorder
)

type Table struct {
	Header Header
	Rows   Rows
	Style  Style
	// Columns aligned to the right, by header name.
	AlignRight []string
}

// Render writes the table to w.
func (t Table) Render(w io.Writer) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.Style{
		Box: table.BoxStyle{
			PaddingRight: "   ",
		},
		Options: table.Options{
			DrawBorder:      t.Style == StyleWithBorder,
			SeparateColumns: t.Style == StyleWithBorder,
			SeparateFooter:  t.Style == StyleWithBorder,
			SeparateHeader:  t.Style == StyleWithBorder,
			SeparateRows:    t.Style == StyleWithBorder,
		},
	})
	tbl.SetOutputMirror(w)
	header := table.Row{}
	for _, h := range t.Header {
		header = append(header, h)
	}
	tbl.AppendHeader(header)
	var configs []table.ColumnConfig
	for _, name := range t.AlignRight {
		configs = append(configs, table.ColumnConfig{Name: name, Align: text.AlignRight})
	}
	tbl.SetColumnConfigs(configs)
	for _, row := range t.Rows {
		tbl.AppendRow(row)
	}
	tbl.Render()
}
