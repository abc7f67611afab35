package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/icon"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/style"
	"github.com/quietstream/quietstream/util"
	"github.com/samber/lo"
)

// linkWidth bounds the link column so rows fit a normal terminal.
const linkWidth = 60

func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       lo.Ternary(lo.Contains(rightAligned, i), text.AlignRight, text.AlignLeft),
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

var recordHeaders = []string{"ID", "Name", "Kind", "Categories", "Link"}

func recordRows(records []stream.Record) [][]string {
	return lo.Map(records, func(r stream.Record, _ int) []string {
		return []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Kind.String(),
			strings.Join(r.Tags(), ", "),
			util.Shorten(r.Link, linkWidth),
		}
	})
}

func printSuccess(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}
