package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
)

func parseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table":
		return FormatTable
	case "json", "jsonl":
		return FormatJSON
	default:
		return ""
	}
}

func coloredStatus(passed bool) string {
	if passed {
		return colorGreen + "PASS" + colorReset
	}
	return colorRed + "FAIL" + colorReset
}

func printResults(cmd *cobra.Command, results []caseResult, format OutputFormat, threshold float64) error {
	switch format {
	case FormatJSON:
		return printResultsJSON(cmd, results, threshold)
	default:
		cmd.Print(formatResultsTable(results, threshold))
		return nil
	}
}

type jsonRunReport struct {
	Threshold   float64      `json:"threshold"`
	TotalCases  int          `json:"total_cases"`
	PassedCases int          `json:"passed_cases"`
	FailedCases int          `json:"failed_cases"`
	AvgScore    float64      `json:"avg_score"`
	Cases       []caseResult `json:"cases"`
}

func buildRunReport(results []caseResult, threshold float64) jsonRunReport {
	report := jsonRunReport{
		Threshold: threshold,
		Cases:     results,
	}
	report.TotalCases = len(results)
	for _, r := range results {
		if r.Passed {
			report.PassedCases++
		} else {
			report.FailedCases++
		}
		report.AvgScore += r.Score
	}
	if report.TotalCases > 0 {
		report.AvgScore /= float64(report.TotalCases)
	}
	return report
}

func printResultsJSON(cmd *cobra.Command, results []caseResult, threshold float64) error {
	b, err := json.Marshal(buildRunReport(results, threshold))
	if err != nil {
		return fmt.Errorf("run: encode results: %w", err)
	}
	cmd.Println(string(b))
	return nil
}

func formatResultsTable(results []caseResult, threshold float64) string {
	report := buildRunReport(results, threshold)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Cases: %d passed=%d failed=%d threshold=%.2f avg_score=%.3f\n",
		report.TotalCases, report.PassedCases, report.FailedCases, threshold, report.AvgScore)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUITE\tCASE\tRESULT\tSCORE\tSTATUS\tITER\tTOKENS\tCOST\tERROR")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\t%s\t%d\t%d\t$%.4f\t%s\n",
			r.Suite, r.CaseID, coloredStatus(r.Passed), r.Score, r.Status, r.Iterations, r.Tokens, r.Cost, r.Error)
	}
	_ = tw.Flush()
	buf.WriteByte('\n')
	return buf.String()
}
