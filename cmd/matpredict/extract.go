package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/predictlab/matpredict/internal/formula"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract formula tokens from raw model output",
	Long: `Extract runs the formula parser over text from a file (or stdin when the
argument is missing or "-") and prints the tokens it finds, one per line.
This is the same parser the pipeline applies to model responses; use it to
see what a given reply would contribute.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("json", false, "print the token list as JSON")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	formulas := formula.Extract(string(data))

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(formulas)
	}

	if len(formulas) == 0 {
		fmt.Fprintln(os.Stderr, "no formula list found")
		return nil
	}
	for _, f := range formulas {
		fmt.Println(f)
	}
	return nil
}
