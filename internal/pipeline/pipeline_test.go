// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/predictlab/matpredict/internal/llm"
	"github.com/predictlab/matpredict/pkg/types"
)

// --- mocks ---

type mockProvider struct {
	name        string
	suggestText string
	suggestErr  error
	evalText    string
	evalErr     error

	evalGot []string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Suggest(_ context.Context, _ string) (string, error) {
	return m.suggestText, m.suggestErr
}

func (m *mockProvider) Evaluate(_ context.Context, formulas []string, _ string) (string, error) {
	m.evalGot = formulas
	return m.evalText, m.evalErr
}

type mockDB struct {
	records map[string]*types.MaterialRecord
	errs    map[string]error
	calls   []string
}

func (db *mockDB) LookupBestByFormula(_ context.Context, formula string) (*types.MaterialRecord, error) {
	db.calls = append(db.calls, formula)
	if err := db.errs[formula]; err != nil {
		return nil, err
	}
	return db.records[formula], nil
}

const testStructure = `{
	"lattice": {"matrix": [[4,0,0],[0,4,0],[0,0,4]]},
	"sites": [
		{"species": [{"element": "Zn", "occu": 1}], "abc": [0, 0, 0]},
		{"species": [{"element": "O", "occu": 1}], "abc": [0.5, 0.5, 0.5]}
	]
}`

func record(id, formula string, energy float64) *types.MaterialRecord {
	e := energy
	return &types.MaterialRecord{
		MaterialID:             id,
		Formula:                formula,
		FormationEnergyPerAtom: &e,
		BandGap:                3.3,
		Density:                5.6,
		Structure:              json.RawMessage(testStructure),
	}
}

func wantStrings(t *testing.T, label string, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

// --- validation ---

func TestRunRejectsBlankGoal(t *testing.T) {
	r := &Runner{Providers: []llm.Provider{&mockProvider{name: "a"}}, DB: &mockDB{}}
	for _, goal := range []string{"", "   ", "\n\t"} {
		if _, err := r.Run(context.Background(), goal); err == nil {
			t.Errorf("Run(%q) accepted a blank goal", goal)
		}
	}
}

func TestRunRejectsMisconfiguredRunner(t *testing.T) {
	noProviders := &Runner{DB: &mockDB{}}
	if _, err := noProviders.Run(context.Background(), "magnet"); err == nil {
		t.Error("Run accepted a runner with no providers")
	}

	noDB := &Runner{Providers: []llm.Provider{&mockProvider{name: "a"}}}
	if _, err := noDB.Run(context.Background(), "magnet"); err == nil {
		t.Error("Run accepted a runner with no database")
	}
}

// --- end to end ---

func TestRunTransparentConductor(t *testing.T) {
	a := &mockProvider{
		name:        "openai",
		suggestText: "```python\n['ZnO', 'SnO2']\n```",
		evalText:    "['ZnO', 'In2O3']",
	}
	b := &mockProvider{
		name:        "gemini",
		suggestText: "Here you go: ['ZnO', 'In2O3']",
		evalText:    "After checking each formula: ['ZnO', 'In2O3']",
	}
	db := &mockDB{records: map[string]*types.MaterialRecord{
		"ZnO":   record("mp-2133", "ZnO", -1.8),
		"In2O3": record("mp-22598", "In2O3", -1.2),
	}}

	var events []types.Event
	r := &Runner{
		Providers: []llm.Provider{a, b},
		DB:        db,
		Events:    func(ev types.Event) { events = append(events, ev) },
	}

	report, err := r.Run(context.Background(), "transparent conductor")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Goal != "transparent conductor" {
		t.Errorf("Goal = %q", report.Goal)
	}
	wantStrings(t, "Union", report.Union, []string{"ZnO", "SnO2", "In2O3"})
	wantStrings(t, "Consensus", report.Consensus, []string{"ZnO", "In2O3"})

	// Both providers screened the pooled union, not their own lists.
	wantStrings(t, "openai eval input", a.evalGot, []string{"ZnO", "SnO2", "In2O3"})
	wantStrings(t, "gemini eval input", b.evalGot, []string{"ZnO", "SnO2", "In2O3"})

	wantStrings(t, "lookups", db.calls, []string{"ZnO", "In2O3"})

	if len(report.Ranked) != 2 {
		t.Fatalf("len(Ranked) = %d, want 2", len(report.Ranked))
	}
	first, second := report.Ranked[0], report.Ranked[1]
	if first.Rank != 1 || first.Record.MaterialID != "mp-2133" {
		t.Errorf("rank 1 = %d %s, want 1 mp-2133", first.Rank, first.Record.MaterialID)
	}
	if second.Rank != 2 || second.Record.MaterialID != "mp-22598" {
		t.Errorf("rank 2 = %d %s, want 2 mp-22598", second.Rank, second.Record.MaterialID)
	}
	if first.CIF == "" || first.POSCAR == "" {
		t.Error("rank 1 should carry CIF and POSCAR exports")
	}

	if len(report.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", report.Diagnostics)
	}
	if len(events) == 0 || events[len(events)-1].Stage != types.StageDone {
		t.Errorf("last event should be %q, got %v", types.StageDone, events)
	}
}

// --- degradation ---

func TestRunContinuesAfterSuggestFailure(t *testing.T) {
	a := &mockProvider{name: "openai", suggestErr: fmt.Errorf("quota exceeded")}
	b := &mockProvider{
		name:        "gemini",
		suggestText: "['ZnO']",
		evalText:    "['ZnO']",
	}
	// The failed provider still screens the pooled candidates.
	a.evalText = "['ZnO']"

	db := &mockDB{records: map[string]*types.MaterialRecord{
		"ZnO": record("mp-2133", "ZnO", -1.8),
	}}
	r := &Runner{Providers: []llm.Provider{a, b}, DB: db}

	report, err := r.Run(context.Background(), "transparent conductor")
	if err != nil {
		t.Fatalf("Run should degrade, not fail: %v", err)
	}

	wantStrings(t, "Union", report.Union, []string{"ZnO"})
	wantStrings(t, "Consensus", report.Consensus, []string{"ZnO"})
	if len(report.Ranked) != 1 {
		t.Errorf("len(Ranked) = %d, want 1", len(report.Ranked))
	}

	if len(report.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want one warning", report.Diagnostics)
	}
	d := report.Diagnostics[0]
	if d.Stage != types.StageSuggest || !strings.Contains(d.Message, "openai") {
		t.Errorf("diagnostic = %+v, want suggest-stage warning naming openai", d)
	}
}

func TestRunEvaluateFailureEmptiesConsensus(t *testing.T) {
	a := &mockProvider{
		name:        "openai",
		suggestText: "['ZnO']",
		evalErr:     fmt.Errorf("timeout"),
	}
	b := &mockProvider{
		name:        "gemini",
		suggestText: "['ZnO']",
		evalText:    "['ZnO']",
	}
	db := &mockDB{}
	r := &Runner{Providers: []llm.Provider{a, b}, DB: db}

	report, err := r.Run(context.Background(), "conductor")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// A failed evaluator approves nothing, so nothing survives consensus.
	if len(report.Consensus) != 0 {
		t.Errorf("Consensus = %v, want empty", report.Consensus)
	}
	if len(db.calls) != 0 {
		t.Errorf("lookups = %v, want none", db.calls)
	}

	var msgs []string
	for _, d := range report.Diagnostics {
		msgs = append(msgs, d.Message)
	}
	joined := strings.Join(msgs, "; ")
	if !strings.Contains(joined, "timeout") || !strings.Contains(joined, "no materials passed both evaluations") {
		t.Errorf("diagnostics = %q, want evaluator failure and empty-consensus warnings", joined)
	}
}

func TestRunUnparsableReplyIsEmptyContribution(t *testing.T) {
	a := &mockProvider{
		name:        "openai",
		suggestText: "Sure! Great formulas include TiO2 and ZnO.",
	}
	b := &mockProvider{
		name:        "gemini",
		suggestText: "['ZnO']",
		evalText:    "['ZnO']",
	}
	a.evalText = "['ZnO']"

	db := &mockDB{records: map[string]*types.MaterialRecord{
		"ZnO": record("mp-2133", "ZnO", -1.8),
	}}
	r := &Runner{Providers: []llm.Provider{a, b}, DB: db}

	report, err := r.Run(context.Background(), "conductor")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantStrings(t, "Union", report.Union, []string{"ZnO"})

	if len(report.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want one warning", report.Diagnostics)
	}
	if !strings.Contains(report.Diagnostics[0].Message, "Sure! Great formulas") {
		t.Errorf("diagnostic should quote the unparsable reply, got %q", report.Diagnostics[0].Message)
	}
}

func TestRunStopsEarlyWhenNothingSuggested(t *testing.T) {
	a := &mockProvider{name: "openai", suggestErr: fmt.Errorf("down")}
	b := &mockProvider{name: "gemini", suggestErr: fmt.Errorf("down")}
	r := &Runner{Providers: []llm.Provider{a, b}, DB: &mockDB{}}

	report, err := r.Run(context.Background(), "conductor")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Union) != 0 || len(report.Ranked) != 0 {
		t.Errorf("report should be empty, got %+v", report)
	}
	// Evaluation never ran.
	if a.evalGot != nil || b.evalGot != nil {
		t.Error("Evaluate should not be called when no formulas were suggested")
	}
}

func TestRunLookupFailuresDropFormulas(t *testing.T) {
	a := &mockProvider{
		name:        "openai",
		suggestText: "['ZnO', 'SnO2', 'In2O3']",
		evalText:    "['ZnO', 'SnO2', 'In2O3']",
	}
	b := &mockProvider{
		name:        "gemini",
		suggestText: "['ZnO', 'SnO2', 'In2O3']",
		evalText:    "['ZnO', 'SnO2', 'In2O3']",
	}
	db := &mockDB{
		records: map[string]*types.MaterialRecord{
			"ZnO": record("mp-2133", "ZnO", -1.8),
		},
		errs: map[string]error{
			"SnO2": fmt.Errorf("HTTP 500"),
		},
	}
	r := &Runner{Providers: []llm.Provider{a, b}, DB: db}

	report, err := r.Run(context.Background(), "conductor")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Ranked) != 1 || report.Ranked[0].Record.MaterialID != "mp-2133" {
		t.Fatalf("Ranked = %+v, want just mp-2133", report.Ranked)
	}

	// One warning for the failed lookup, one for the miss, each naming
	// its formula.
	byFormula := make(map[string]string)
	for _, d := range report.Diagnostics {
		if d.Stage == types.StageLookup {
			byFormula[d.Formula] = d.Message
		}
	}
	if !strings.Contains(byFormula["SnO2"], "HTTP 500") {
		t.Errorf("SnO2 diagnostic = %q, want lookup failure", byFormula["SnO2"])
	}
	if !strings.Contains(byFormula["In2O3"], "no database entry") {
		t.Errorf("In2O3 diagnostic = %q, want lookup miss", byFormula["In2O3"])
	}
}

func TestRunTopNTruncates(t *testing.T) {
	formulas := "['A1', 'B2', 'C3', 'D4']"
	a := &mockProvider{name: "openai", suggestText: formulas, evalText: formulas}
	b := &mockProvider{name: "gemini", suggestText: formulas, evalText: formulas}
	db := &mockDB{records: map[string]*types.MaterialRecord{
		"A1": record("mp-1", "A1", -0.5),
		"B2": record("mp-2", "B2", -2.0),
		"C3": record("mp-3", "C3", -1.0),
		"D4": record("mp-4", "D4", -1.5),
	}}
	r := &Runner{Providers: []llm.Provider{a, b}, DB: db, TopN: 2}

	report, err := r.Run(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Ranked) != 2 {
		t.Fatalf("len(Ranked) = %d, want 2", len(report.Ranked))
	}
	if report.Ranked[0].Record.MaterialID != "mp-2" || report.Ranked[1].Record.MaterialID != "mp-4" {
		t.Errorf("ranking = %s, %s; want mp-2, mp-4",
			report.Ranked[0].Record.MaterialID, report.Ranked[1].Record.MaterialID)
	}
}

func TestRunMissingStructureKeepsCandidate(t *testing.T) {
	a := &mockProvider{name: "openai", suggestText: "['ZnO']", evalText: "['ZnO']"}
	b := &mockProvider{name: "gemini", suggestText: "['ZnO']", evalText: "['ZnO']"}

	rec := record("mp-2133", "ZnO", -1.8)
	rec.Structure = nil
	db := &mockDB{records: map[string]*types.MaterialRecord{"ZnO": rec}}
	r := &Runner{Providers: []llm.Provider{a, b}, DB: db}

	report, err := r.Run(context.Background(), "conductor")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.Ranked) != 1 {
		t.Fatalf("len(Ranked) = %d, want 1", len(report.Ranked))
	}
	rc := report.Ranked[0]
	if rc.CIF != "" || rc.POSCAR != "" {
		t.Error("exports should be empty without a structure")
	}

	found := false
	for _, d := range report.Diagnostics {
		if d.Stage == types.StageRender && d.Formula == "ZnO" {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %v, want a render warning for ZnO", report.Diagnostics)
	}
}

func TestExcerptTruncates(t *testing.T) {
	long := strings.Repeat("formula ", 30)
	got := excerpt(long)
	if len(got) != 80 || !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt length = %d (%q), want 80 ending in ...", len(got), got)
	}
	if got := excerpt("short\nreply"); got != "short reply" {
		t.Errorf("excerpt = %q, want newline collapsed", got)
	}
}
