package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// OutputConfig holds global output settings
type OutputConfig struct {
	JSON  bool
	Quiet bool
}

var outputCfg OutputConfig

// parseGlobalFlags extracts --json and --quiet from args, returns remaining args
func parseGlobalFlags(args []string) []string {
	var remaining []string
	for _, arg := range args {
		switch arg {
		case "--json":
			outputCfg.JSON = true
		case "--quiet", "-q":
			outputCfg.Quiet = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining
}

func writeJSON(data interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// PrintResult outputs one command result. Commands hand in maps (or slices
// of maps), which render as key: value lines unless --json was given.
func PrintResult(data interface{}) {
	if outputCfg.JSON {
		writeJSON(data)
		return
	}
	if m, ok := data.(map[string]interface{}); ok {
		for k, val := range m {
			fmt.Printf("%s: %v\n", k, val)
		}
		return
	}
	writeJSON(data)
}

// PrintTable outputs tabular data, or the same rows as JSON objects keyed by
// header when --json was given.
func PrintTable(headers []string, rows [][]string) {
	if outputCfg.JSON {
		result := make([]map[string]string, len(rows))
		for i, row := range rows {
			m := make(map[string]string)
			for j, h := range headers {
				if j < len(row) {
					m[h] = row[j]
				}
			}
			result[i] = m
		}
		writeJSON(result)
		return
	}

	widths := columnWidths(headers, rows)

	for i, h := range headers {
		fmt.Printf("%-*s  ", widths[i], h)
	}
	fmt.Println()
	for i := range headers {
		fmt.Print(strings.Repeat("-", widths[i]), "  ")
	}
	fmt.Println()
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Printf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println()
	}
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

// PrintInfo prints info message if not quiet
func PrintInfo(format string, args ...interface{}) {
	if !outputCfg.Quiet {
		fmt.Printf(format, args...)
	}
}

// PrintError prints error to stderr
func PrintError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}
