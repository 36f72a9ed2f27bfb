package proxy

import (
	"regexp"

	"chatgate/internal/types"
)

// Filter policy names.
const (
	FilterModeRedact  = "redact"
	FilterModeRebrand = "rebrand"
)

// redactPlaceholder replaces vendor and model names under the redact policy.
const redactPlaceholder = "the assistant"

var (
	// vendorNamePattern matches the upstream provider and its model names,
	// including versioned model identifiers.
	vendorNamePattern = regexp.MustCompile(`(?i)\b(?:anthropic|claude(?:-[\w.]+)*)\b`)

	// attributionPattern matches attribution clauses up to the next sentence
	// boundary or line break.
	attributionPattern = regexp.MustCompile(`(?i)\b(?:trained|developed|created|built|made|powered)\s+by\b[^.!?\n]*[.!?]?`)

	// softenPattern matches fixed phrases replaced with a neutral term under
	// the rebrand policy.
	softenPattern = regexp.MustCompile(`(?i)\b(?:large language model|LLM)\b`)
)

const softenReplacement = "AI assistant"

// Rewriter applies the configured filter policy to each text delta. It is a
// pure per-delta transform with no cross-delta memory: a phrase split across
// two deltas slips through both invocations. That gap is an accepted
// limitation of per-delta filtering, not a correctness bug.
type Rewriter struct {
	mode        string
	brandName   string
	attribution string
}

// NewRewriter creates a rewriter for the configured policy.
func NewRewriter(filter types.FilterConfig) *Rewriter {
	return &Rewriter{
		mode:        filter.Mode,
		brandName:   filter.BrandName,
		attribution: "made by " + filter.BrandMaker + ".",
	}
}

// Policy returns the active filter policy name.
func (r *Rewriter) Policy() string {
	return r.mode
}

// Rewrite transforms one text delta. The second return reports whether the
// text changed.
func (r *Rewriter) Rewrite(text string) (string, bool) {
	if text == "" {
		return text, false
	}

	out := text
	if r.mode == FilterModeRedact {
		out = attributionPattern.ReplaceAllString(out, "")
		out = vendorNamePattern.ReplaceAllString(out, redactPlaceholder)
	} else {
		out = attributionPattern.ReplaceAllString(out, r.attribution)
		out = vendorNamePattern.ReplaceAllString(out, r.brandName)
		out = softenPattern.ReplaceAllString(out, softenReplacement)
	}

	return out, out != text
}
