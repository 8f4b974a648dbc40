// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/predictlab/matpredict/internal/pipeline"
	"github.com/predictlab/matpredict/internal/render"
	"github.com/predictlab/matpredict/internal/secrets"
	"github.com/predictlab/matpredict/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <goal>",
	Short: "Run the full discovery pipeline for a design goal",
	Long: `Discover asks both model providers for candidate formulas matching the
goal, screens the pooled candidates with both providers again, resolves the
consensus against the Materials Project, and prints the top candidates
ranked by formation energy per atom.

Progress and warnings go to stderr; the report goes to stdout. Structure
files for the ranked candidates can be written with --out-dir.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().Bool("json", false, "print the full report as JSON instead of a table")
	discoverCmd.Flags().String("yaml", "", "also write the report as YAML to this path")
	discoverCmd.Flags().String("csv", "", "also write the ranked table as CSV to this path")
	discoverCmd.Flags().Int("top", 0, "number of ranked candidates to keep (default 3)")
	discoverCmd.Flags().String("out-dir", "", "write per-candidate CIF and POSCAR files to this directory")
	discoverCmd.Flags().String("supercell", "", "supercell expansion as nx,ny,nz (default 2,2,2)")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf(`provide a design goal, e.g. matpredict discover "transparent conductor"`)
	}
	if err := loadedKeys.Require(secrets.EnvOpenAI, secrets.EnvGoogle, secrets.EnvMaterials); err != nil {
		return err
	}

	cfg := pipelineConfig()
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.TopN = top
	}
	if arg, _ := cmd.Flags().GetString("supercell"); arg != "" {
		sc, err := parseSupercell(arg)
		if err != nil {
			return err
		}
		cfg.Supercell = sc
	}

	ctx := cmd.Context()
	runner, _, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	runner.Events = printEvents(os.Stderr)

	report, err := runner.Run(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if err := pipeline.FormatJSON(report, os.Stdout); err != nil {
			return err
		}
	} else {
		pipeline.FormatTable(report, os.Stdout)
	}

	if path, _ := cmd.Flags().GetString("yaml"); path != "" {
		if err := writeReport(path, report, pipeline.FormatYAML); err != nil {
			return err
		}
	}
	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		if err := writeReport(path, report, pipeline.FormatCSV); err != nil {
			return err
		}
	}
	if dir, _ := cmd.Flags().GetString("out-dir"); dir != "" {
		if err := writeStructures(dir, report.Ranked); err != nil {
			return err
		}
	}
	return nil
}

// printEvents renders pipeline events to w as they happen, one line each.
func printEvents(w io.Writer) func(types.Event) {
	return func(ev types.Event) {
		if ev.Level == types.LevelWarning {
			fmt.Fprintf(w, "warning: [%s] %s\n", ev.Stage, ev.Message)
			return
		}
		fmt.Fprintf(w, "[%s] %s\n", ev.Stage, ev.Message)
	}
}

// parseSupercell parses a comma-separated nx,ny,nz triple.
func parseSupercell(arg string) ([3]int, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("supercell must be three comma-separated integers, got %q", arg)
	}
	var sc [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return [3]int{}, fmt.Errorf("supercell factor %q must be a positive integer", p)
		}
		sc[i] = n
	}
	return sc, nil
}

// writeReport writes the report to path in the given format.
func writeReport(path string, report *types.Report, format func(*types.Report, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := format(report, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}

// writeStructures writes the per-candidate structure files into dir, one
// .cif and one _POSCAR.vasp per ranked candidate that has the export.
func writeStructures(dir string, ranked []types.RankedCandidate) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	written := 0
	for _, rc := range ranked {
		name := rc.Record.DisplayFormula(rc.Formula)
		if rc.CIF != "" {
			path := filepath.Join(dir, render.SanitizeFilename(name+".cif"))
			if err := os.WriteFile(path, []byte(rc.CIF), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			written++
		}
		if rc.POSCAR != "" {
			path := filepath.Join(dir, render.SanitizeFilename(name+"_POSCAR.vasp"))
			if err := os.WriteFile(path, []byte(rc.POSCAR), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			written++
		}
	}

	fmt.Fprintf(os.Stderr, "Wrote %d structure file(s) to %s\n", written, dir)
	return nil
}
