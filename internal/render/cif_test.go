// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"
	"testing"
)

func TestCIF(t *testing.T) {
	s := parseTestStructure(t, cubicTiO2)
	got := CIF(s, "TiO2")

	for _, want := range []string{
		"data_TiO2",
		"_symmetry_space_group_name_H-M   'P 1'",
		"_cell_length_a   4.00000000",
		"_cell_angle_gamma   90.00000000",
		"_symmetry_Int_Tables_number   1",
		"_chemical_formula_structural   TiO2",
		"_chemical_formula_sum   'Ti1 O2'",
		"_cell_volume   64.00000000",
		"  1  'x, y, z'",
		"  Ti  Ti0  1  0.00000000  0.00000000  0.00000000  1",
		"  O  O1  1  0.50000000  0.50000000  0.00000000  1",
		"  O  O2  1  0.00000000  0.50000000  0.50000000  1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CIF missing %q:\n%s", want, got)
		}
	}
}

func TestCIFSiteCount(t *testing.T) {
	s := parseTestStructure(t, cubicTiO2)
	big := Supercell(s, 2, 2, 2)
	got := CIF(big, "TiO2")

	if n := strings.Count(got, "\n  Ti  "); n != 8 {
		t.Errorf("CIF has %d Ti sites, want 8", n)
	}
	if n := strings.Count(got, "\n  O  "); n != 16 {
		t.Errorf("CIF has %d O sites, want 16", n)
	}
}

func TestFormulaSum(t *testing.T) {
	s := parseTestStructure(t, cubicTiO2)

	if got := formulaSum(s); got != "Ti1 O2" {
		t.Errorf("formulaSum = %q, want %q", got, "Ti1 O2")
	}
	if got := formulaSum(Supercell(s, 2, 1, 1)); got != "Ti2 O4" {
		t.Errorf("formulaSum of supercell = %q, want %q", got, "Ti2 O4")
	}
}
