package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"
)

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("adminctl: unknown format %q", format)
	}
}

// writeTable prints rows under headers given as snake_case keys.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	titles := make([]string, len(headers))
	for i, h := range headers {
		titles[i] = strcase.ToPascal(h)
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if len(rows) == 0 {
		fmt.Fprintln(tw, "(no rows)")
	}
	return tw.Flush()
}

func itoa(v int) string { return strconv.Itoa(v) }

func joinComma(values []string) string { return strings.Join(values, ", ") }
