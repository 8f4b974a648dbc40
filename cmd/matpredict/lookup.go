package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/predictlab/matpredict/internal/matproj"
	"github.com/predictlab/matpredict/internal/pipeline"
	"github.com/predictlab/matpredict/internal/secrets"
	"github.com/predictlab/matpredict/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <formula>...",
	Short: "Resolve formulas against the Materials Project",
	Long: `Lookup queries the Materials Project for each formula and prints the best
entry (lowest formation energy per atom) without involving the model
providers. Formulas with no database entry are reported on stderr.`,
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().Bool("json", false, "print the matched records as JSON")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more formulas, e.g. matpredict lookup TiO2 ZnO")
	}
	if err := loadedKeys.Require(secrets.EnvMaterials); err != nil {
		return err
	}

	cfg := pipelineConfig()
	db := matproj.NewCachedClient(matproj.NewClient(cfg.Materials))

	ctx := cmd.Context()
	var found []types.RankedCandidate
	for _, f := range args {
		rec, err := db.LookupBestByFormula(ctx, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: lookup for %s failed: %v\n", f, err)
			continue
		}
		if rec == nil {
			fmt.Fprintf(os.Stderr, "warning: no database entry for %s\n", f)
			continue
		}
		found = append(found, types.RankedCandidate{Rank: len(found) + 1, Formula: f, Record: *rec})
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		records := make([]types.MaterialRecord, len(found))
		for i, rc := range found {
			records[i] = rc.Record
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(found) == 0 {
		fmt.Println("No entries found.")
		return nil
	}
	pipeline.FormatRanked(found, os.Stdout)
	return nil
}
