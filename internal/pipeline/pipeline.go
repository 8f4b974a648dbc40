// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one discovery run: every provider suggests
// formulas for the goal, the pooled candidates go back to every provider
// for compliance screening, the consensus survivors are resolved against
// the materials database, and the best few are ranked and exported.
//
// Stage failures never abort a run. A failed provider contributes nothing,
// a failed lookup drops one formula, a failed export drops one file; each
// is reported as a warning event and the run carries on. The worst case is
// a report whose result lists are all empty.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/predictlab/matpredict/internal/formula"
	"github.com/predictlab/matpredict/internal/llm"
	"github.com/predictlab/matpredict/internal/rank"
	"github.com/predictlab/matpredict/internal/render"
	"github.com/predictlab/matpredict/pkg/types"
)

// DefaultTopN is how many ranked candidates a run keeps when the runner
// does not say otherwise.
const DefaultTopN = 3

// DefaultSupercell is the replication applied to structures before export,
// chosen so viewers show more than a single unit cell.
var DefaultSupercell = [3]int{2, 2, 2}

// Database resolves a formula to its best database record. A nil record
// with a nil error means the database knows nothing about the formula.
type Database interface {
	LookupBestByFormula(ctx context.Context, formula string) (*types.MaterialRecord, error)
}

// Runner executes discovery runs against a fixed set of model providers
// and one materials database. Zero values for TopN and Supercell fall back
// to the defaults.
type Runner struct {
	Providers []llm.Provider
	DB        Database
	TopN      int
	Supercell [3]int

	// Events receives every progress and warning event as it happens.
	// May be nil. Warnings are additionally collected into the report's
	// diagnostics.
	Events func(types.Event)
}

// Run executes the full pipeline for goal. The returned error covers only
// a blank goal or a misconfigured runner; every downstream failure instead
// degrades the affected stage and lands in the report's diagnostics.
func (r *Runner) Run(ctx context.Context, goal string) (*types.Report, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("design goal is empty: describe the material you are looking for")
	}
	if len(r.Providers) == 0 {
		return nil, fmt.Errorf("no model providers configured")
	}
	if r.DB == nil {
		return nil, fmt.Errorf("no materials database configured")
	}

	report := &types.Report{Goal: goal}

	report.Suggestions = r.consult(ctx, report, types.StageSuggest, "proposed",
		func(ctx context.Context, p llm.Provider) (string, error) {
			return p.Suggest(ctx, goal)
		})
	report.Union = formula.Union(lists(report.Suggestions)...)
	if len(report.Union) == 0 {
		r.warnf(report, types.StageSuggest, "", "no provider produced a candidate formula")
		return r.finish(report), nil
	}
	r.infof(report, types.StageSuggest, "", "pooled %d candidate formulas", len(report.Union))

	report.Approvals = r.consult(ctx, report, types.StageEvaluate, "approved",
		func(ctx context.Context, p llm.Provider) (string, error) {
			return p.Evaluate(ctx, report.Union, goal)
		})
	report.Consensus = formula.Intersect(report.Union, lists(report.Approvals)...)
	if len(report.Consensus) == 0 {
		r.warnf(report, types.StageEvaluate, "", "no materials passed both evaluations")
		return r.finish(report), nil
	}
	r.infof(report, types.StageEvaluate, "", "%d formulas approved by every provider", len(report.Consensus))

	found := r.lookup(ctx, report, report.Consensus)

	topN := r.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	top := rank.Top(found, topN)
	if len(top) == 0 {
		r.warnf(report, types.StageRank, "", "no suitable material found")
		return r.finish(report), nil
	}
	r.infof(report, types.StageRank, "", "ranked %d candidates, keeping %d", len(found), len(top))

	report.Ranked = r.export(report, top)
	return r.finish(report), nil
}

// consult puts the same question to every provider concurrently and
// extracts each raw answer into a formula list. Answers are folded in
// provider order regardless of completion order, so reports and unions are
// deterministic. A provider error, or an answer with no parsable list,
// degrades to an empty contribution plus a warning.
func (r *Runner) consult(ctx context.Context, report *types.Report, stage, verb string, ask func(context.Context, llm.Provider) (string, error)) []types.ProviderList {
	type answer struct {
		raw string
		err error
	}
	answers := make([]answer, len(r.Providers))

	var wg sync.WaitGroup
	for i, p := range r.Providers {
		wg.Add(1)
		go func(i int, p llm.Provider) {
			defer wg.Done()
			raw, err := ask(ctx, p)
			answers[i] = answer{raw: raw, err: err}
		}(i, p)
	}
	wg.Wait()

	out := make([]types.ProviderList, len(r.Providers))
	for i, p := range r.Providers {
		name := p.Name()
		out[i] = types.ProviderList{Provider: name}
		if answers[i].err != nil {
			r.warnf(report, stage, "", "provider %s failed: %v", name, answers[i].err)
			continue
		}
		tokens := formula.Extract(answers[i].raw)
		if len(tokens) == 0 {
			r.warnf(report, stage, "", "no formula list in %s reply: %q", name, excerpt(answers[i].raw))
			continue
		}
		out[i].Formulas = tokens
		r.infof(report, stage, "", "%s %s %d formulas", name, verb, len(tokens))
	}
	return out
}

// lookup resolves each consensus formula to its best database record.
// Lookups run one at a time; the database client memoizes outcomes for the
// life of the process, so repeated runs skip the network for formulas
// already seen.
func (r *Runner) lookup(ctx context.Context, report *types.Report, consensus []string) []rank.Candidate {
	var found []rank.Candidate
	for _, f := range consensus {
		rec, err := r.DB.LookupBestByFormula(ctx, f)
		if err != nil {
			r.warnf(report, types.StageLookup, f, "lookup for %s failed: %v", f, err)
			continue
		}
		if rec == nil {
			r.warnf(report, types.StageLookup, f, "no database entry for %s", f)
			continue
		}
		r.infof(report, types.StageLookup, f, "%s resolved to %s", f, rec.MaterialID)
		found = append(found, rank.Candidate{Formula: f, Record: *rec})
	}
	return found
}

// export renders structure files for the ranked candidates. The supercell
// is applied before export so downloads match what the viewers show. CIF
// and POSCAR degrade independently: a disordered structure still gets a
// CIF.
func (r *Runner) export(report *types.Report, top []rank.Candidate) []types.RankedCandidate {
	sc := r.Supercell
	if sc == [3]int{} {
		sc = DefaultSupercell
	}

	ranked := make([]types.RankedCandidate, 0, len(top))
	for i, c := range top {
		rc := types.RankedCandidate{Rank: i + 1, Formula: c.Formula, Record: c.Record}
		name := c.Record.DisplayFormula(c.Formula)

		s, err := render.ParseStructure(c.Record.Structure)
		if err != nil {
			r.warnf(report, types.StageRender, c.Formula, "no structure for %s: %v", name, err)
			ranked = append(ranked, rc)
			continue
		}
		big := render.Supercell(s, sc[0], sc[1], sc[2])
		rc.CIF = render.CIF(big, name)
		poscar, err := render.POSCAR(big, name)
		if err != nil {
			r.warnf(report, types.StageRender, c.Formula, "no POSCAR for %s: %v", name, err)
		} else {
			rc.POSCAR = poscar
		}
		ranked = append(ranked, rc)
	}
	return ranked
}

// finish emits the closing event and returns the report.
func (r *Runner) finish(report *types.Report) *types.Report {
	msg := fmt.Sprintf("run complete: %d ranked candidates", len(report.Ranked))
	if n := len(report.Diagnostics); n > 0 {
		msg += fmt.Sprintf(" (%d warnings)", n)
	}
	r.emit(report, types.Event{Stage: types.StageDone, Level: types.LevelInfo, Message: msg})
	return report
}

func (r *Runner) emit(report *types.Report, ev types.Event) {
	if ev.Level == types.LevelWarning {
		report.Diagnostics = append(report.Diagnostics, ev)
	}
	if r.Events != nil {
		r.Events(ev)
	}
}

func (r *Runner) infof(report *types.Report, stage, token, format string, args ...any) {
	r.emit(report, types.Event{Stage: stage, Level: types.LevelInfo, Formula: token, Message: fmt.Sprintf(format, args...)})
}

func (r *Runner) warnf(report *types.Report, stage, token, format string, args ...any) {
	r.emit(report, types.Event{Stage: stage, Level: types.LevelWarning, Formula: token, Message: fmt.Sprintf(format, args...)})
}

// lists strips the provider names off per-provider lists.
func lists(pls []types.ProviderList) [][]string {
	out := make([][]string, len(pls))
	for i, pl := range pls {
		out[i] = pl.Formulas
	}
	return out
}

// excerpt collapses raw model output onto one line and truncates it for
// use in a diagnostic message.
func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= 80 {
		return s
	}
	return s[:77] + "..."
}
