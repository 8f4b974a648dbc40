// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package formula extracts candidate chemical formulas from model responses
// and combines per-provider lists into unions and consensus subsets.
//
// Model output is untrusted text. A response is expected to contain a flat
// Python-style or JSON list of formula strings, usually wrapped in prose or
// a Markdown code fence. Extraction strips fences, slices out the first
// square-bracketed segment, parses it, and keeps only tokens that look like
// formulas. Anything that fails along the way yields an empty list rather
// than an error; the pipeline treats an empty list as a degraded provider.
package formula

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencePattern matches Markdown code fences, with or without the language
// tags models habitually emit around list output.
var fencePattern = regexp.MustCompile("```(?:python|text)?\n|```")

// tokenPattern is the shape a candidate formula must have: ASCII letters,
// digits, and parentheses only. Everything else is discarded unvalidated.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9()]+$`)

// Extract pulls the first square-bracketed list out of a model response and
// returns its well-formed formula tokens, deduplicated in order of first
// appearance. A response with no parsable list yields nil.
func Extract(text string) []string {
	cleaned := fencePattern.ReplaceAllString(text, "")

	segment, ok := firstBracketed(cleaned)
	if !ok {
		return nil
	}

	items, err := parseLiteralList(segment)
	if err != nil {
		items = parseJSONList(segment)
	}

	var formulas []string
	seen := make(map[string]bool)
	for _, item := range items {
		token := strings.TrimSpace(item)
		if !tokenPattern.MatchString(token) {
			continue
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		formulas = append(formulas, token)
	}
	return formulas
}

// Union merges per-provider suggestion lists into one deduplicated list.
// Order follows first appearance across the lists in the order given, so the
// first provider's ordering dominates.
func Union(lists ...[]string) []string {
	var union []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, f := range list {
			if seen[f] {
				continue
			}
			seen[f] = true
			union = append(union, f)
		}
	}
	return union
}

// Intersect returns the candidates approved by every provider, preserving
// candidate order. With no approval lists all candidates survive.
func Intersect(candidates []string, approvals ...[]string) []string {
	sets := make([]map[string]bool, len(approvals))
	for i, list := range approvals {
		set := make(map[string]bool, len(list))
		for _, f := range list {
			set[f] = true
		}
		sets[i] = set
	}

	var consensus []string
	for _, f := range candidates {
		approved := true
		for _, set := range sets {
			if !set[f] {
				approved = false
				break
			}
		}
		if approved {
			consensus = append(consensus, f)
		}
	}
	return consensus
}

// firstBracketed returns the substring from the first '[' through the next
// ']', brackets included. The scan is blind to quoting, so a ']' inside a
// string literal still terminates the segment; such segments simply fail to
// parse.
func firstBracketed(s string) (string, bool) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return "", false
	}
	end := strings.IndexByte(s[open+1:], ']')
	if end < 0 {
		return "", false
	}
	return s[open : open+2+end], true
}

// parseJSONList is the fallback for segments that are valid JSON but not
// list-literal syntax. Only string elements are kept; numbers, nulls, and
// nested containers can never be formulas.
func parseJSONList(segment string) []string {
	var raw []any
	if err := json.Unmarshal([]byte(segment), &raw); err != nil {
		return nil
	}

	var items []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			items = append(items, s)
		}
	}
	return items
}
