// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package matproj queries the Materials Project summary API and memoizes
// per-formula results for the life of the process.
package matproj

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/predictlab/matpredict/internal/httputil"
	"github.com/predictlab/matpredict/internal/rank"
	"github.com/predictlab/matpredict/pkg/types"
)

// matprojAPIBase is the summary search endpoint. Package-level var for test
// substitution.
var matprojAPIBase = "https://api.materialsproject.org/materials/summary/"

// summaryFields is the field subset requested from the API. Everything the
// report and the structure exports need, nothing more.
const summaryFields = "material_id,formula_pretty,formation_energy_per_atom,band_gap,density,structure"

// Client queries the Materials Project API.
type Client struct {
	APIKey string
	Client *http.Client

	// StableOnly restricts lookups to thermodynamically stable entries.
	StableOnly bool

	UserAgent string
}

// NewClient builds a client from the materials database configuration.
func NewClient(cfg types.MaterialsConfig) *Client {
	return &Client{
		APIKey:     cfg.APIKey,
		Client:     httputil.NewClient(cfg.HTTPConfig),
		StableOnly: cfg.StableOnly,
		UserAgent:  cfg.UserAgent,
	}
}

// summaryResponse is the envelope the summary endpoint wraps results in.
type summaryResponse struct {
	Data []types.MaterialRecord `json:"data"`
}

// SearchByFormula returns all summary records for formula in API order. An
// empty slice means the database knows no such material.
func (c *Client) SearchByFormula(ctx context.Context, formula string) ([]types.MaterialRecord, error) {
	params := url.Values{
		"formula": {formula},
		"_fields": {summaryFields},
	}
	if c.StableOnly {
		params.Set("is_stable", "true")
	}

	header := http.Header{}
	header.Set("X-API-KEY", c.APIKey)
	if c.UserAgent != "" {
		header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	var sr summaryResponse
	if err := httputil.GetJSON(ctx, client, matprojAPIBase+"?"+params.Encode(), header, &sr); err != nil {
		return nil, fmt.Errorf("Materials Project query for %s: %w", formula, err)
	}
	return sr.Data, nil
}

// LookupBestByFormula returns the record with the lowest formation energy
// per atom for formula, or nil when the database has no entry.
func (c *Client) LookupBestByFormula(ctx context.Context, formula string) (*types.MaterialRecord, error) {
	records, err := c.SearchByFormula(ctx, formula)
	if err != nil {
		return nil, err
	}

	i := rank.Best(records)
	if i < 0 {
		return nil, nil
	}
	best := records[i]
	return &best, nil
}
