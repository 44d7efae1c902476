package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// printResult renders a result either as compact JSON (default) or a
// rendered table. rows carry one value row per line under headers.
func printResult(asTable bool, v any, headers []any, rows [][]any) error {
	if !asTable {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(v)
	}
	tbl := table.NewWriter()
	tbl.AppendHeader(headers)
	for _, row := range rows {
		tbl.AppendRow(row)
	}
	fmt.Println(tbl.Render())
	return nil
}
