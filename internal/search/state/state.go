// internal/search/state/state.go
package state

import "jobsearch-gateway/internal/search/vocab"

// SkillRef is one selected canonical skill. Serialization uses Name;
// ID only identifies the entry for removal.
type SkillRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Location holds the structured location facet. CityState carries the
// composite "City, State" input variant; when it is set it takes precedence
// over City/State at serialization time.
type Location struct {
	CityState string `json:"cityState,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
}

// FilterState is the canonical record of every active search constraint plus
// the pagination cursor. One instance per session, mutated only through the
// controller. Facet selections keep insertion order so serialized output is
// deterministic.
type FilterState struct {
	FreeText     string     `json:"freeText"`
	NaturalQuery string     `json:"naturalQuery"`
	Seniority    []string   `json:"seniority"`
	JobFunction  []string   `json:"jobFunction"`
	RemoteType   []string   `json:"remoteType"`
	SalaryMin    *int       `json:"salaryMin,omitempty"`
	SalaryMax    *int       `json:"salaryMax,omitempty"`
	Location     Location   `json:"location"`
	Skills       []SkillRef `json:"skills"`
	Page         int        `json:"page"`
}

// New returns an empty FilterState positioned on page 1.
func New() *FilterState {
	return &FilterState{
		Seniority:   []string{},
		JobFunction: []string{},
		RemoteType:  []string{},
		Skills:      []SkillRef{},
		Page:        1,
	}
}

// Reset clears every constraint and returns the cursor to page 1.
// Calling it on an already-empty state is a no-op.
func (s *FilterState) Reset() {
	*s = *New()
}

// Clone returns a deep copy safe to hand to readers outside the
// controller's lock.
func (s *FilterState) Clone() *FilterState {
	c := *s
	c.Seniority = append([]string{}, s.Seniority...)
	c.JobFunction = append([]string{}, s.JobFunction...)
	c.RemoteType = append([]string{}, s.RemoteType...)
	c.Skills = append([]SkillRef{}, s.Skills...)
	if s.SalaryMin != nil {
		v := *s.SalaryMin
		c.SalaryMin = &v
	}
	if s.SalaryMax != nil {
		v := *s.SalaryMax
		c.SalaryMax = &v
	}
	return &c
}

func (s *FilterState) facetSlice(f vocab.Facet) *[]string {
	switch f {
	case vocab.FacetSeniority:
		return &s.Seniority
	case vocab.FacetFunction:
		return &s.JobFunction
	case vocab.FacetRemote:
		return &s.RemoteType
	}
	return nil
}

// ReplaceFacet discards the facet's prior selection and selects value alone.
// Unknown values clear the facet.
func (s *FilterState) ReplaceFacet(f vocab.Facet, value string) {
	slot := s.facetSlice(f)
	if slot == nil {
		return
	}
	if value == "" || !vocab.Valid(f, value) {
		*slot = []string{}
		return
	}
	*slot = []string{value}
}

// ToggleFacet adds value to the facet's selection, or removes it when already
// selected. Unknown values are ignored.
func (s *FilterState) ToggleFacet(f vocab.Facet, value string) {
	slot := s.facetSlice(f)
	if slot == nil || !vocab.Valid(f, value) {
		return
	}
	for i, v := range *slot {
		if v == value {
			*slot = append((*slot)[:i], (*slot)[i+1:]...)
			return
		}
	}
	*slot = append(*slot, value)
}

// SetFacet replaces the facet's selection with the given values in order,
// dropping anything outside the vocabulary.
func (s *FilterState) SetFacet(f vocab.Facet, values []string) {
	slot := s.facetSlice(f)
	if slot == nil {
		return
	}
	next := []string{}
	for _, v := range values {
		if vocab.Valid(f, v) {
			next = append(next, v)
		}
	}
	*slot = next
}

// AddSkill appends a skill unless one with the same id is already selected.
func (s *FilterState) AddSkill(skill SkillRef) {
	for _, existing := range s.Skills {
		if existing.ID == skill.ID {
			return
		}
	}
	s.Skills = append(s.Skills, skill)
}

// RemoveSkill drops the skill with the given id, if selected.
func (s *FilterState) RemoveSkill(id string) {
	for i, existing := range s.Skills {
		if existing.ID == id {
			s.Skills = append(s.Skills[:i], s.Skills[i+1:]...)
			return
		}
	}
}

// SetPage moves the cursor. Moves before page 1 are no-ops; when totalPages
// is known (> -1) moves past it are no-ops too. Returns whether the cursor
// moved.
func (s *FilterState) SetPage(page, totalPages int) bool {
	if page < 1 {
		return false
	}
	if totalPages >= 0 && page > totalPages && page != 1 {
		return false
	}
	if page == s.Page {
		return false
	}
	s.Page = page
	return true
}

// Empty reports whether no constraint is active (pagination aside).
func (s *FilterState) Empty() bool {
	return s.FreeText == "" &&
		s.NaturalQuery == "" &&
		len(s.Seniority) == 0 &&
		len(s.JobFunction) == 0 &&
		len(s.RemoteType) == 0 &&
		s.SalaryMin == nil &&
		s.SalaryMax == nil &&
		s.Location == (Location{}) &&
		len(s.Skills) == 0
}
