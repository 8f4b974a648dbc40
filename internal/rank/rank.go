// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders candidate materials by formation energy per atom.
//
// Lower formation energy means a more thermodynamically favorable compound,
// so ordering is always ascending. Records without a reported energy carry
// the sentinel value and therefore sink to the bottom rather than being
// dropped.
package rank

import (
	"sort"

	"github.com/predictlab/matpredict/pkg/types"
)

// Candidate pairs a consensus formula with its best database record.
type Candidate struct {
	Formula string
	Record  types.MaterialRecord
}

// Best returns the index of the record with the lowest formation energy per
// atom. Earlier records win ties, so a caller that passes records in
// database order keeps the database's preference. Returns -1 for an empty
// slice.
func Best(records []types.MaterialRecord) int {
	best := -1
	for i, r := range records {
		if best < 0 || r.FormationEnergy() < records[best].FormationEnergy() {
			best = i
		}
	}
	return best
}

// Top sorts candidates ascending by formation energy and returns up to n.
// The sort is stable: candidates with equal energy keep their input order,
// which for the pipeline is consensus order. n <= 0 means no limit.
func Top(candidates []Candidate, n int) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Record.FormationEnergy() < ranked[j].Record.FormationEnergy()
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
