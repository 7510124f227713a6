// internal/search/nlparse/merge.go
package nlparse

import (
	"strings"

	"jobsearch-gateway/internal/search/state"
	"jobsearch-gateway/internal/search/vocab"
)

// MergePolicy selects how a parse proposal combines with existing state.
type MergePolicy string

const (
	// MergeOverwrite resets every facet before applying the proposal.
	MergeOverwrite MergePolicy = "overwrite"
	// MergeOverlay applies only the proposal's fields on top of existing state.
	MergeOverlay MergePolicy = "overlay"
)

// Apply merges a parse proposal into the filter state under the given policy
// and resets the cursor to page 1. The caller guarantees the proposal came
// from a successful parse; a failed parse must never reach this function.
// Facet values outside the vocabulary are dropped rather than stored.
func Apply(s *state.FilterState, proposal Filters, policy MergePolicy) {
	if policy == MergeOverwrite {
		applyOverwrite(s, proposal)
	} else {
		applyOverlay(s, proposal)
	}
	s.Page = 1
}

func applyOverwrite(s *state.FilterState, proposal Filters) {
	// Everything resets first; only fields present in the proposal survive.
	s.FreeText = ""
	s.Seniority = []string{}
	s.JobFunction = []string{}
	s.RemoteType = []string{}
	s.SalaryMin = nil
	s.SalaryMax = nil
	s.Location = state.Location{}

	if !proposal.HasStructured() {
		// Nothing structured at all: the raw term is the whole query.
		if proposal.Q != nil {
			s.FreeText = strings.TrimSpace(*proposal.Q)
		}
		return
	}

	applyFields(s, proposal)
	if proposal.Q != nil {
		s.FreeText = strings.TrimSpace(*proposal.Q)
	}
}

func applyOverlay(s *state.FilterState, proposal Filters) {
	if !hasNonLocationStructured(proposal) {
		// A bare term, whether q or a lone location, is routed into free
		// text rather than a facet in this variant.
		if proposal.Q != nil && strings.TrimSpace(*proposal.Q) != "" {
			s.FreeText = strings.TrimSpace(*proposal.Q)
			return
		}
		if term := bareLocationTerm(proposal); term != "" {
			s.FreeText = term
			return
		}
		return
	}

	applyFields(s, proposal)
	if proposal.Q != nil && strings.TrimSpace(*proposal.Q) != "" {
		s.FreeText = strings.TrimSpace(*proposal.Q)
	}
}

// applyFields writes each present proposal field over its facet, leaving
// absent fields untouched.
func applyFields(s *state.FilterState, proposal Filters) {
	if len(proposal.Seniority) > 0 {
		s.SetFacet(vocab.FacetSeniority, proposal.Seniority)
	}
	if len(proposal.JobFunction) > 0 {
		s.SetFacet(vocab.FacetFunction, proposal.JobFunction)
	}
	if len(proposal.RemoteType) > 0 {
		s.SetFacet(vocab.FacetRemote, proposal.RemoteType)
	}
	if proposal.SalaryMin != nil {
		v := *proposal.SalaryMin
		s.SalaryMin = &v
	}
	if proposal.SalaryMax != nil {
		v := *proposal.SalaryMax
		s.SalaryMax = &v
	}
	if proposal.City != nil && strings.TrimSpace(*proposal.City) != "" {
		s.Location.CityState = ""
		s.Location.City = strings.TrimSpace(*proposal.City)
	}
	if proposal.State != nil && strings.TrimSpace(*proposal.State) != "" {
		s.Location.CityState = ""
		s.Location.State = strings.TrimSpace(*proposal.State)
	}
	if proposal.Country != nil && strings.TrimSpace(*proposal.Country) != "" {
		s.Location.Country = strings.TrimSpace(*proposal.Country)
	}
}

// hasNonLocationStructured reports whether the proposal carries structured
// content other than location fields.
func hasNonLocationStructured(f Filters) bool {
	return len(f.Seniority) > 0 ||
		len(f.JobFunction) > 0 ||
		len(f.RemoteType) > 0 ||
		f.SalaryMin != nil || f.SalaryMax != nil ||
		f.Company != nil
}

func bareLocationTerm(f Filters) string {
	parts := []string{}
	for _, p := range []*string{f.City, f.State, f.Country} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, ", ")
}
