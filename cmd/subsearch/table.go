package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// releaseWidth caps release-name columns; longer names wrap onto the next line.
const releaseWidth = 72

// tableColumn describes one rendered column.
type tableColumn struct {
	Header   string
	Align    text.Align
	MinWidth int
	MaxWidth int
}

func textColumn(header string) tableColumn {
	return tableColumn{Header: header, Align: text.AlignLeft}
}

func numberColumn(header string) tableColumn {
	return tableColumn{Header: header, Align: text.AlignRight}
}

// scoreColumn is wide enough for "100" under any header so scores line up
// across tables.
func scoreColumn() tableColumn {
	return tableColumn{Header: "Score", Align: text.AlignRight, MinWidth: 5}
}

func releaseColumn() tableColumn {
	return tableColumn{Header: "Release", Align: text.AlignLeft, MaxWidth: releaseWidth}
}

func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		cfg := table.ColumnConfig{
			Number:      i + 1,
			Align:       col.Align,
			AlignHeader: col.Align,
			WidthMin:    col.MinWidth,
		}
		if col.MaxWidth > 0 {
			cfg.WidthMax = col.MaxWidth
			cfg.WidthMaxEnforcer = text.WrapHard
		}
		configs = append(configs, cfg)
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
