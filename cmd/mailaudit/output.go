package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/optimode/mailaudit"
)

// writeResults renders results in the requested format.
func writeResults(w io.Writer, format string, results []mailaudit.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "ndjson":
		enc := json.NewEncoder(w)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case "csv":
		return writeCSV(w, results)
	default:
		return writeHuman(w, results)
	}
}

func writeCSV(w io.Writer, results []mailaudit.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "valid", "existence", "confidence", "mx_host", "detail"}); err != nil {
		return err
	}
	for _, r := range results {
		existence, confidence, mxHost := "", "", ""
		if probe, ok := r.CheckFor(mailaudit.LevelProbe); ok {
			existence = probe.Existence
			confidence = strconv.FormatFloat(probe.Confidence, 'f', 2, 64)
			mxHost = probe.MXHost
		}
		row := []string{r.Email, strconv.FormatBool(r.Valid), existence, confidence, mxHost, detailFor(r)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeHuman(w io.Writer, results []mailaudit.Result) error {
	for _, r := range results {
		verdict := "INVALID"
		if r.Valid {
			verdict = "VALID"
		}
		if _, err := fmt.Fprintf(w, "%-40s %s\n", r.Email, verdict); err != nil {
			return err
		}
		for _, c := range r.Checks {
			mark := "✗"
			if c.Passed {
				mark = "✓"
			}
			line := fmt.Sprintf("  %s %-7s %s", mark, c.Level, c.Details)
			if c.Suggestion != "" {
				line += " (did you mean " + c.Suggestion + "?)"
			}
			if c.Existence != "" {
				line += fmt.Sprintf(" [%s %.2f]", c.Existence, c.Confidence)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// detailFor picks the one-line summary for a result: the first failed
// check's details, or the last check's when everything passed.
func detailFor(r mailaudit.Result) string {
	for _, c := range r.Checks {
		if !c.Passed {
			return c.Details
		}
	}
	if len(r.Checks) > 0 {
		return r.Checks[len(r.Checks)-1].Details
	}
	return ""
}
