package main

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) wantTable() bool {
	return a.v.GetString("output") == outputTable
}

func (a *app) newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}
