// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"math"
	"strings"
)

// POSCAR writes the structure in VASP POSCAR format with direct (fractional)
// coordinates. The format has no occupancy column, so disordered structures
// (shared or partially occupied sites) cannot be written and return an
// error; CIF export still works for those. VASP requires each element's
// sites to be contiguous, so sites are grouped by element in order of first
// appearance; within one element the original site order is kept.
func POSCAR(s *Structure, name string) (string, error) {
	var order []string
	grouped := make(map[string][]Site)
	for _, site := range s.Sites {
		if len(site.Species) > 1 || math.Abs(site.Occupancy()-1) > 1e-6 {
			return "", fmt.Errorf("site %s is not fully occupied", site.Element())
		}
		el := site.Element()
		if _, ok := grouped[el]; !ok {
			order = append(order, el)
		}
		grouped[el] = append(grouped[el], site)
	}

	var w strings.Builder
	fmt.Fprintf(&w, "%s\n", name)
	w.WriteString("1.0\n")
	for r := 0; r < 3; r++ {
		fmt.Fprintf(&w, "  %12.10f  %12.10f  %12.10f\n",
			s.Lattice.Matrix[r][0], s.Lattice.Matrix[r][1], s.Lattice.Matrix[r][2])
	}

	symbols := make([]string, len(order))
	counts := make([]string, len(order))
	for i, el := range order {
		symbols[i] = el
		counts[i] = fmt.Sprintf("%d", len(grouped[el]))
	}
	fmt.Fprintf(&w, "%s\n", strings.Join(symbols, " "))
	fmt.Fprintf(&w, "%s\n", strings.Join(counts, " "))

	w.WriteString("direct\n")
	for _, el := range order {
		for _, site := range grouped[el] {
			fmt.Fprintf(&w, "  %12.10f  %12.10f  %12.10f %s\n",
				site.Abc[0], site.Abc[1], site.Abc[2], el)
		}
	}
	return w.String(), nil
}
