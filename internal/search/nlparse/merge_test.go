// internal/search/nlparse/merge_test.go
package nlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobsearch-gateway/internal/search/state"
	"jobsearch-gateway/internal/search/vocab"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func populatedState() *state.FilterState {
	s := state.New()
	s.FreeText = "marketing"
	s.ToggleFacet(vocab.FacetFunction, "sales")
	s.ToggleFacet(vocab.FacetRemote, "hybrid")
	min := 90000
	s.SalaryMin = &min
	s.Page = 4
	return s
}

func TestApply_Overwrite_ResetsEverythingFirst(t *testing.T) {
	s := populatedState()

	Apply(s, Filters{
		Seniority: []string{"senior"},
		City:      strPtr("NYC"),
	}, MergeOverwrite)

	assert.Equal(t, "", s.FreeText, "prior free text must be cleared")
	assert.Equal(t, []string{"senior"}, s.Seniority)
	assert.Equal(t, "NYC", s.Location.City)
	assert.Empty(t, s.JobFunction, "facets absent from the proposal reset")
	assert.Empty(t, s.RemoteType)
	assert.Nil(t, s.SalaryMin)
	assert.Equal(t, 1, s.Page, "page resets after a merge")
}

func TestApply_Overwrite_BareQFallsBackToFreeText(t *testing.T) {
	s := populatedState()

	Apply(s, Filters{Q: strPtr("kubernetes platform")}, MergeOverwrite)

	assert.Equal(t, "kubernetes platform", s.FreeText)
	assert.Empty(t, s.Seniority)
	assert.Empty(t, s.JobFunction)
	assert.Equal(t, 1, s.Page)
}

func TestApply_Overwrite_EmptyProposalClearsAll(t *testing.T) {
	s := populatedState()
	Apply(s, Filters{}, MergeOverwrite)
	assert.True(t, s.Empty())
}

func TestApply_Overlay_LeavesUnrelatedFacetsAlone(t *testing.T) {
	s := populatedState()

	Apply(s, Filters{
		Seniority: []string{"staff"},
		SalaryMax: intPtr(250000),
	}, MergeOverlay)

	assert.Equal(t, []string{"staff"}, s.Seniority)
	assert.Equal(t, 250000, *s.SalaryMax)
	// untouched by the proposal
	assert.Equal(t, []string{"sales"}, s.JobFunction)
	assert.Equal(t, []string{"hybrid"}, s.RemoteType)
	assert.Equal(t, 90000, *s.SalaryMin)
	assert.Equal(t, "marketing", s.FreeText)
	assert.Equal(t, 1, s.Page)
}

func TestApply_Overlay_BareQGoesToFreeText(t *testing.T) {
	s := populatedState()

	Apply(s, Filters{Q: strPtr("fintech")}, MergeOverlay)

	assert.Equal(t, "fintech", s.FreeText)
	assert.Equal(t, []string{"sales"}, s.JobFunction, "facets stay put")
}

func TestApply_Overlay_BareLocationRoutesToFreeText(t *testing.T) {
	s := state.New()

	Apply(s, Filters{City: strPtr("Austin"), State: strPtr("TX")}, MergeOverlay)

	assert.Equal(t, "Austin, TX", s.FreeText)
	assert.Equal(t, state.Location{}, s.Location, "no location facet set for a bare location term")
}

func TestApply_Overlay_LocationWithOtherFieldsUsesFacet(t *testing.T) {
	s := state.New()

	Apply(s, Filters{
		Seniority: []string{"senior"},
		City:      strPtr("Austin"),
	}, MergeOverlay)

	assert.Equal(t, "Austin", s.Location.City)
	assert.Equal(t, "", s.FreeText)
}

func TestApply_UnknownVocabularyValuesDropped(t *testing.T) {
	s := state.New()

	Apply(s, Filters{
		Seniority:   []string{"senior", "galactic"},
		JobFunction: []string{"wizardry"},
	}, MergeOverwrite)

	assert.Equal(t, []string{"senior"}, s.Seniority)
	assert.Empty(t, s.JobFunction)
}

func TestApply_ProposalCityReplacesCompositeLocation(t *testing.T) {
	s := state.New()
	s.Location.CityState = "Denver, CO"

	Apply(s, Filters{Seniority: []string{"mid"}, City: strPtr("Seattle")}, MergeOverlay)

	assert.Equal(t, "Seattle", s.Location.City)
	assert.Equal(t, "", s.Location.CityState, "composite field yields to the parsed city")
}

func TestFilters_HasStructured(t *testing.T) {
	assert.False(t, Filters{}.HasStructured())
	assert.False(t, Filters{Q: strPtr("x")}.HasStructured())
	assert.True(t, Filters{City: strPtr("NYC")}.HasStructured())
	assert.True(t, Filters{SalaryMin: intPtr(1)}.HasStructured())
	assert.True(t, Filters{RemoteType: []string{"remote"}}.HasStructured())
}
