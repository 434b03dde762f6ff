package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"avmux/internal/batch"
)

func renderReport(report batch.Report) string {
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		rows = append(rows, []string{
			strconv.Itoa(res.Pair.Index + 1),
			filepath.Base(res.Pair.Video),
			filepath.Base(res.Pair.Audio),
			filepath.Base(res.Pair.Output),
			string(res.Status),
			formatBytes(res.OutputBytes),
			formatElapsed(res.Elapsed),
		})
	}
	return renderTable([]string{"#", "Video", "Audio", "Output", "Status", "Size", "Time"}, rows, 0, 5, 6)
}

func reportSummary(report batch.Report) string {
	summary := fmt.Sprintf("%d pairs: %d done, %d failed, %d skipped in %s",
		report.Total(), report.Done(), report.Failed(), report.Skipped(), formatElapsed(report.Elapsed()))
	if report.RunID != "" {
		summary += fmt.Sprintf(" (run %s)", shortID(report.RunID))
	}
	return summary
}
