// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the matpredict pipeline.
package types

import "encoding/json"

// MissingEnergySentinel substitutes for an absent formation-energy value so
// that ranking remains a total order. Records carrying the sentinel sort
// after every real measurement.
const MissingEnergySentinel = 9999.0

// MaterialRecord is one entry returned by the materials database for a
// formula query. Field names follow the summary endpoint's JSON so the
// client can decode responses directly.
type MaterialRecord struct {
	// MaterialID is the database identifier (e.g. "mp-390").
	MaterialID string `json:"material_id" yaml:"material_id"`

	// Formula is the canonical display formula (e.g. "TiO2").
	Formula string `json:"formula_pretty" yaml:"formula"`

	// FormationEnergyPerAtom is the formation energy in eV/atom. Nil when
	// the database has no value for this entry.
	FormationEnergyPerAtom *float64 `json:"formation_energy_per_atom" yaml:"formation_energy_per_atom,omitempty"`

	// BandGap is the electronic band gap in eV. Reported alongside ranking,
	// never used as a ranking key.
	BandGap float64 `json:"band_gap" yaml:"band_gap"`

	// Density is the mass density in g/cm³.
	Density float64 `json:"density" yaml:"density"`

	// Structure is the crystal structure as returned by the database. The
	// pipeline never interprets it; it is forwarded opaquely to the
	// rendering stage.
	Structure json.RawMessage `json:"structure,omitempty" yaml:"-"`
}

// FormationEnergy returns the formation energy per atom, or the sentinel
// when the database reported none.
func (r *MaterialRecord) FormationEnergy() float64 {
	if r == nil || r.FormationEnergyPerAtom == nil {
		return MissingEnergySentinel
	}
	return *r.FormationEnergyPerAtom
}

// DisplayFormula returns the canonical formula, falling back to the query
// formula when the record carries none.
func (r *MaterialRecord) DisplayFormula(query string) string {
	if r == nil || r.Formula == "" {
		return query
	}
	return r.Formula
}
