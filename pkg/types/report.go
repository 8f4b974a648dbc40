// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Pipeline stage names, used in progress events and diagnostics.
const (
	StageSuggest  = "suggest"
	StageEvaluate = "evaluate"
	StageLookup   = "lookup"
	StageRank     = "rank"
	StageRender   = "render"
	StageDone     = "done"
)

// Event severity levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// Event is one progress or diagnostic message emitted by a pipeline run.
type Event struct {
	// Stage names the pipeline stage that produced the event.
	Stage string `json:"stage" yaml:"stage"`

	// Level is "info" for progress and "warning" for a degraded step.
	Level string `json:"level" yaml:"level"`

	// Formula scopes the event to one candidate formula, when applicable.
	Formula string `json:"formula,omitempty" yaml:"formula,omitempty"`

	// Message is the human-readable event text.
	Message string `json:"message" yaml:"message"`
}

// ProviderList pairs a provider name with the formulas it produced at one
// stage (suggestion or approval).
type ProviderList struct {
	Provider string   `json:"provider" yaml:"provider"`
	Formulas []string `json:"formulas" yaml:"formulas"`
}

// RankedCandidate is one entry of the final ranking, together with its
// exported structure files when rendering succeeded.
type RankedCandidate struct {
	// Rank is the 1-based position in the final ordering.
	Rank int `json:"rank" yaml:"rank"`

	// Formula is the consensus token that was looked up.
	Formula string `json:"formula" yaml:"formula"`

	// Record is the best database entry for this formula.
	Record MaterialRecord `json:"record" yaml:"record"`

	// CIF is the exported structure in CIF format. Empty when export failed.
	CIF string `json:"cif,omitempty" yaml:"cif,omitempty"`

	// POSCAR is the exported structure in VASP POSCAR format. Empty when
	// export failed.
	POSCAR string `json:"poscar,omitempty" yaml:"poscar,omitempty"`
}

// Report is the complete outcome of one discovery run. Every stage's
// intermediate lists are retained so the consensus can be audited.
type Report struct {
	// Goal is the user's design goal as entered.
	Goal string `json:"goal" yaml:"goal"`

	// Suggestions holds each provider's extracted suggestion list.
	Suggestions []ProviderList `json:"suggestions" yaml:"suggestions"`

	// Union is the order-preserving deduplicated union of all suggestions.
	Union []string `json:"union" yaml:"union"`

	// Approvals holds each provider's extracted compliance-approval list.
	Approvals []ProviderList `json:"approvals" yaml:"approvals"`

	// Consensus is the subsequence of Union approved by every provider.
	Consensus []string `json:"consensus" yaml:"consensus"`

	// Ranked is the final top-N ordering by formation energy.
	Ranked []RankedCandidate `json:"ranked" yaml:"ranked"`

	// Diagnostics lists every degraded step encountered during the run.
	Diagnostics []Event `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}
