package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func handleRunsCommand(args []string) {
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			PrintError("Invalid limit: %s\n", args[0])
			os.Exit(1)
		}
		limit = n
	}

	database, err := openDB()
	if err != nil {
		PrintError("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	runs, err := database.ListRuns(limit)
	if err != nil {
		PrintError("Error querying runs: %v\n", err)
		os.Exit(1)
	}

	var rowsData [][]string
	var jsonData []map[string]interface{}
	for _, r := range runs {
		finished := "-"
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Format(time.DateTime)
		}
		rowsData = append(rowsData, []string{
			r.JobName,
			r.StartedAt.Format(time.DateTime),
			finished,
			r.Duration.Round(time.Millisecond).String(),
			fmt.Sprintf("%.1f", r.PeakMemoryMB),
		})
		jsonData = append(jsonData, map[string]interface{}{
			"job":          r.JobName,
			"started":      r.StartedAt.Format(time.DateTime),
			"finished":     finished,
			"duration":     r.Duration.Seconds(),
			"peakMemoryMb": r.PeakMemoryMB,
		})
	}

	if outputCfg.JSON {
		PrintResult(jsonData)
	} else {
		PrintTable([]string{"JOB", "STARTED", "FINISHED", "DURATION", "PEAK MB"}, rowsData)
	}
}
