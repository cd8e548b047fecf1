package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/podium-picks/internal/service"
)

// printReports writes reports in the selected format and passes runErr through
func printReports(cmd *cobra.Command, runErr error, reports ...*service.RunReport) error {
	out := cmd.OutOrStdout()
	var err error
	switch outputFormat {
	case "json":
		err = writeJSON(out, reports)
	default:
		for _, r := range reports {
			if r == nil {
				continue
			}
			if err = writeTable(out, r); err != nil {
				break
			}
		}
	}
	if runErr != nil {
		return runErr
	}
	return err
}

type jsonReport struct {
	*service.RunReport
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func writeJSON(w io.Writer, reports []*service.RunReport) error {
	rows := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			continue
		}
		row := jsonReport{RunReport: r, Status: r.Status()}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeTable(w io.Writer, r *service.RunReport) error {
	fmt.Fprintf(w, "%s  %s  %s\n", r.Context.String(), r.Status(), r.Duration.Round(time.Millisecond))
	if r.Err != nil {
		fmt.Fprintf(w, "  error: %v\n\n", r.Err)
		return nil
	}
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  issue: %s\n", issue.Error())
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  RANK\tUSER\tPOINTS\tAVG\tCHANGE")
	if r.Leaderboard != nil {
		for _, e := range r.Leaderboard.Entries {
			rank := fmt.Sprintf("%d", e.Rank)
			if e.Tied {
				rank = "T" + rank
			}
			change := fmt.Sprintf("%+d", e.PositionChange)
			if e.IsNew {
				change = "new"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\n", rank, e.UserID, e.TotalPoints, e.AveragePoints.StringFixed(2), change)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	tables := make([]string, 0, len(r.RowsWritten))
	for table := range r.RowsWritten {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(w, "  wrote %d rows to %s\n", r.RowsWritten[table], table)
	}
	fmt.Fprintln(w)
	return nil
}
