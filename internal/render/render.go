// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns the database's opaque structure documents into
// viewer markup and downloadable structure files.
//
// The database returns crystal structures as JSON documents with a lattice
// matrix and fractional site coordinates. This package parses the subset of
// that document the exporters need, expands structures into supercells, and
// writes CIF and POSCAR text. Every operation is best-effort from the
// pipeline's point of view: a structure that fails to parse degrades the
// affected candidate's exports, never the run.
package render

import (
	"encoding/json"
	"fmt"
	"math"
)

// Structure is the subset of a structure document the exporters need.
type Structure struct {
	Lattice Lattice `json:"lattice"`
	Sites   []Site  `json:"sites"`
}

// Lattice holds the three lattice vectors as rows of a 3x3 matrix, in
// angstroms.
type Lattice struct {
	Matrix [3][3]float64 `json:"matrix"`
}

// Site is one atomic site with fractional coordinates.
type Site struct {
	Species []Species  `json:"species"`
	Abc     [3]float64 `json:"abc"`
}

// Species is one element occupying a site.
type Species struct {
	Element string  `json:"element"`
	Occu    float64 `json:"occu"`
}

// Element returns the site's element symbol. Sites with partial occupancy
// report the first listed species.
func (s Site) Element() string {
	if len(s.Species) == 0 {
		return ""
	}
	return s.Species[0].Element
}

// Occupancy returns the first species' occupancy, defaulting to 1.
func (s Site) Occupancy() float64 {
	if len(s.Species) == 0 || s.Species[0].Occu == 0 {
		return 1
	}
	return s.Species[0].Occu
}

// ParseStructure decodes a structure document. It fails on documents with
// no sites, a degenerate lattice, or sites without an element symbol.
func ParseStructure(raw json.RawMessage) (*Structure, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty structure document")
	}

	var s Structure
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing structure document: %w", err)
	}

	if len(s.Sites) == 0 {
		return nil, fmt.Errorf("structure has no sites")
	}
	if s.Lattice.Volume() <= 0 {
		return nil, fmt.Errorf("structure has a degenerate lattice")
	}
	for i, site := range s.Sites {
		if site.Element() == "" {
			return nil, fmt.Errorf("site %d has no element", i)
		}
	}
	return &s, nil
}

// Supercell replicates the structure nx x ny x nz times. Fractional
// coordinates are rescaled into the enlarged cell, with site order
// preserved per image so element grouping survives. Factors below 1 are
// treated as 1.
func Supercell(s *Structure, nx, ny, nz int) *Structure {
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	if nz < 1 {
		nz = 1
	}

	factors := [3]float64{float64(nx), float64(ny), float64(nz)}

	var out Structure
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out.Lattice.Matrix[r][c] = s.Lattice.Matrix[r][c] * factors[r]
		}
	}
	for _, site := range s.Sites {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				for k := 0; k < nz; k++ {
					image := Site{Species: site.Species}
					offsets := [3]float64{float64(i), float64(j), float64(k)}
					for ax := 0; ax < 3; ax++ {
						image.Abc[ax] = (site.Abc[ax] + offsets[ax]) / factors[ax]
					}
					out.Sites = append(out.Sites, image)
				}
			}
		}
	}
	return &out
}

// Lengths returns the lattice vector lengths a, b, c.
func (l Lattice) Lengths() (a, b, c float64) {
	return norm(l.Matrix[0]), norm(l.Matrix[1]), norm(l.Matrix[2])
}

// Angles returns the cell angles alpha, beta, gamma in degrees. Alpha is
// the angle between b and c, beta between a and c, gamma between a and b.
func (l Lattice) Angles() (alpha, beta, gamma float64) {
	return angle(l.Matrix[1], l.Matrix[2]),
		angle(l.Matrix[0], l.Matrix[2]),
		angle(l.Matrix[0], l.Matrix[1])
}

// Volume returns the cell volume, the absolute value of the matrix
// determinant.
func (l Lattice) Volume() float64 {
	m := l.Matrix
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	return math.Abs(det)
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func angle(u, v [3]float64) float64 {
	nu, nv := norm(u), norm(v)
	if nu == 0 || nv == 0 {
		return 0
	}
	cos := (u[0]*v[0] + u[1]*v[1] + u[2]*v[2]) / (nu * nv)
	// Clamp against floating-point drift before acos.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
