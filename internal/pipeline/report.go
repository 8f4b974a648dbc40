// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/predictlab/matpredict/pkg/types"
)

// tableColumns are the ranked-table headings, shared between the console
// table and the CSV export.
var tableColumns = []string{
	"#",
	"Formula",
	"MP ID",
	"Formation Energy (eV/atom)",
	"Band Gap (eV)",
	"Density (g/cm³)",
}

// tableRow renders one ranked candidate into display cells. Numeric fields
// the database left empty display as 0.000; the ranking sentinel never
// appears in output.
func tableRow(rc types.RankedCandidate) []string {
	rec := rc.Record

	energy := 0.0
	if rec.FormationEnergyPerAtom != nil {
		energy = *rec.FormationEnergyPerAtom
	}
	id := rec.MaterialID
	if id == "" {
		id = "N/A"
	}

	return []string{
		fmt.Sprintf("%d", rc.Rank),
		rec.DisplayFormula(rc.Formula),
		id,
		fmt.Sprintf("%.3f", energy),
		fmt.Sprintf("%.3f", rec.BandGap),
		fmt.Sprintf("%.3f", rec.Density),
	}
}

// FormatTable writes the run outcome as a human-readable table: the
// per-provider suggestions, the consensus list, and the ranking.
func FormatTable(report *types.Report, w io.Writer) {
	fmt.Fprintf(w, "Goal: %s\n\n", report.Goal)

	for _, pl := range report.Suggestions {
		fmt.Fprintf(w, "%s suggested: %s\n", pl.Provider, joinOrNone(pl.Formulas))
	}
	fmt.Fprintf(w, "Consensus: %s\n\n", joinOrNone(report.Consensus))

	if len(report.Ranked) == 0 {
		fmt.Fprintln(w, "No suitable material found.")
		return
	}

	FormatRanked(report.Ranked, w)

	fmt.Fprintf(w, "\n%d candidates ranked", len(report.Ranked))
	if n := len(report.Diagnostics); n > 0 {
		fmt.Fprintf(w, " (%d warnings)", n)
	}
	fmt.Fprintln(w)
}

// FormatRanked writes just the ranked-candidate table.
func FormatRanked(ranked []types.RankedCandidate, w io.Writer) {
	const rowFormat = "%-3s  %-14s  %-10s  %-26s  %-13s  %s\n"
	fmt.Fprintf(w, rowFormat, tableColumns[0], tableColumns[1], tableColumns[2],
		tableColumns[3], tableColumns[4], tableColumns[5])
	fmt.Fprintln(w, strings.Repeat("-", 88))
	for _, rc := range ranked {
		row := tableRow(rc)
		fmt.Fprintf(w, rowFormat, row[0], row[1], row[2], row[3], row[4], row[5])
	}
}

// FormatJSON writes the full report as indented JSON.
func FormatJSON(report *types.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// FormatYAML writes the full report as YAML.
func FormatYAML(report *types.Report, w io.Writer) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// FormatCSV writes the ranked table as CSV, the same cells the console
// table shows.
func FormatCSV(report *types.Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableColumns); err != nil {
		return err
	}
	for _, rc := range report.Ranked {
		if err := cw.Write(tableRow(rc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinOrNone(formulas []string) string {
	if len(formulas) == 0 {
		return "(none)"
	}
	return strings.Join(formulas, ", ")
}
