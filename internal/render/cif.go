// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"
)

// CIF writes the structure as a P1 CIF block named after name. All sites
// are emitted explicitly with identity symmetry, which is what structure
// viewers expect for database exports.
func CIF(s *Structure, name string) string {
	a, b, c := s.Lattice.Lengths()
	alpha, beta, gamma := s.Lattice.Angles()

	var w strings.Builder
	fmt.Fprintf(&w, "data_%s\n", name)
	fmt.Fprintf(&w, "_symmetry_space_group_name_H-M   'P 1'\n")
	fmt.Fprintf(&w, "_cell_length_a   %.8f\n", a)
	fmt.Fprintf(&w, "_cell_length_b   %.8f\n", b)
	fmt.Fprintf(&w, "_cell_length_c   %.8f\n", c)
	fmt.Fprintf(&w, "_cell_angle_alpha   %.8f\n", alpha)
	fmt.Fprintf(&w, "_cell_angle_beta   %.8f\n", beta)
	fmt.Fprintf(&w, "_cell_angle_gamma   %.8f\n", gamma)
	fmt.Fprintf(&w, "_symmetry_Int_Tables_number   1\n")
	fmt.Fprintf(&w, "_chemical_formula_structural   %s\n", name)
	fmt.Fprintf(&w, "_chemical_formula_sum   '%s'\n", formulaSum(s))
	fmt.Fprintf(&w, "_cell_volume   %.8f\n", s.Lattice.Volume())
	w.WriteString("loop_\n")
	w.WriteString(" _symmetry_equiv_pos_site_id\n")
	w.WriteString(" _symmetry_equiv_pos_as_xyz\n")
	w.WriteString("  1  'x, y, z'\n")
	w.WriteString("loop_\n")
	w.WriteString(" _atom_site_type_symbol\n")
	w.WriteString(" _atom_site_label\n")
	w.WriteString(" _atom_site_symmetry_multiplicity\n")
	w.WriteString(" _atom_site_fract_x\n")
	w.WriteString(" _atom_site_fract_y\n")
	w.WriteString(" _atom_site_fract_z\n")
	w.WriteString(" _atom_site_occupancy\n")
	for i, site := range s.Sites {
		fmt.Fprintf(&w, "  %s  %s%d  1  %.8f  %.8f  %.8f  %g\n",
			site.Element(), site.Element(), i,
			site.Abc[0], site.Abc[1], site.Abc[2], site.Occupancy())
	}
	return w.String()
}

// formulaSum renders the element counts of the cell, e.g. "Ti2 O4".
// Elements appear in site order.
func formulaSum(s *Structure) string {
	var order []string
	counts := make(map[string]int)
	for _, site := range s.Sites {
		el := site.Element()
		if _, ok := counts[el]; !ok {
			order = append(order, el)
		}
		counts[el]++
	}

	parts := make([]string, len(order))
	for i, el := range order {
		parts[i] = fmt.Sprintf("%s%d", el, counts[el])
	}
	return strings.Join(parts, " ")
}
