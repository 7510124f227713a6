// internal/search/query/serializer_test.go
package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobsearch-gateway/internal/search/state"
)

func keys(params []Param) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.Key)
	}
	return out
}

func TestSerialize_EmptyStateEmitsOnlyPagination(t *testing.T) {
	params := Serialize(state.New(), 20)

	assert.Equal(t, []Param{
		{Key: "page", Value: "1"},
		{Key: "page_size", Value: "20"},
	}, params)
}

func TestSerialize_OmitsEmptyConstraints(t *testing.T) {
	s := state.New()
	s.FreeText = "   " // whitespace-only must not emit q
	s.Location.City = "  "

	params := Serialize(s, 24)
	assert.NotContains(t, keys(params), "q")
	assert.NotContains(t, keys(params), "city")
}

func TestSerialize_FullState(t *testing.T) {
	s := state.New()
	s.FreeText = "growth"
	s.Seniority = []string{"senior", "staff"}
	s.JobFunction = []string{"marketing"}
	s.RemoteType = []string{"remote"}
	min, max := 120000, 200000
	s.SalaryMin = &min
	s.SalaryMax = &max
	s.Location.Country = "USA"
	s.Skills = []state.SkillRef{{ID: "1", Name: "SQL"}, {ID: "2", Name: "Looker"}}
	s.Page = 3

	params := Serialize(s, 20)

	assert.Equal(t, []Param{
		{Key: "q", Value: "growth"},
		{Key: "seniority", Value: "senior"},
		{Key: "seniority", Value: "staff"},
		{Key: "function", Value: "marketing"},
		{Key: "remote_type", Value: "remote"},
		{Key: "country", Value: "USA"},
		{Key: "salary_min", Value: "120000"},
		{Key: "salary_max", Value: "200000"},
		{Key: "skill", Value: "SQL"},
		{Key: "skill", Value: "Looker"},
		{Key: "page", Value: "3"},
		{Key: "page_size", Value: "20"},
	}, params)
}

func TestSerialize_SkillsUseNameNotID(t *testing.T) {
	s := state.New()
	s.Skills = []state.SkillRef{{ID: "1", Name: "SQL"}}
	s.Seniority = []string{"senior"}
	s.Page = 3

	params := Serialize(s, 20)
	assert.Contains(t, params, Param{Key: "skill", Value: "SQL"})
	assert.Contains(t, params, Param{Key: "seniority", Value: "senior"})
	assert.Contains(t, params, Param{Key: "page", Value: "3"})
	assert.Equal(t, []string{"seniority", "skill", "page", "page_size"}, keys(params))
}

func TestSerialize_CompositeLocation(t *testing.T) {
	tests := []struct {
		name      string
		composite string
		wantCity  string
		wantState string
	}{
		{"city and state", "Austin, TX", "Austin", "TX"},
		{"extra whitespace", "  New York ,  NY ", "New York", "NY"},
		{"city only", "Denver", "Denver", ""},
		{"state side empty", "Boston, ", "Boston", ""},
		{"city side empty", ", CA", "", "CA"},
		{"second comma kept in state", "A, B, C", "A", "B, C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := state.New()
			s.Location.CityState = tt.composite

			params := Serialize(s, 20)
			found := map[string]string{}
			for _, p := range params {
				found[p.Key] = p.Value
			}

			if tt.wantCity == "" {
				assert.NotContains(t, found, "city")
			} else {
				assert.Equal(t, tt.wantCity, found["city"])
			}
			if tt.wantState == "" {
				assert.NotContains(t, found, "state")
			} else {
				assert.Equal(t, tt.wantState, found["state"])
			}
		})
	}
}

func TestSerialize_CompositeWinsOverIndependentFields(t *testing.T) {
	s := state.New()
	s.Location.CityState = "Austin, TX"
	s.Location.City = "Chicago"
	s.Location.State = "IL"

	params := Serialize(s, 20)
	assert.Contains(t, params, Param{Key: "city", Value: "Austin"})
	assert.Contains(t, params, Param{Key: "state", Value: "TX"})
}

func TestEncode_PreservesOrderAndEscapes(t *testing.T) {
	encoded := Encode([]Param{
		{Key: "q", Value: "growth marketing"},
		{Key: "city", Value: "São Paulo"},
		{Key: "page", Value: "1"},
	})
	assert.Equal(t, "q=growth+marketing&city=S%C3%A3o+Paulo&page=1", encoded)
}

func TestSerialize_Deterministic(t *testing.T) {
	s := state.New()
	s.Seniority = []string{"staff", "senior"}
	s.JobFunction = []string{"data"}

	first := Serialize(s, 20)
	second := Serialize(s, 20)
	assert.Equal(t, first, second)
	// selection order, not sorted order
	assert.Equal(t, "staff", first[0].Value)
	assert.Equal(t, "senior", first[1].Value)
}
