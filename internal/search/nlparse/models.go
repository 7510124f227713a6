// internal/search/nlparse/models.go
package nlparse

// Filters is the structured proposal returned by the parse collaborator.
// Every field is optional; the parser is a best-effort classifier and nothing
// here may be assumed present.
type Filters struct {
	Q           *string  `json:"q,omitempty"`
	Seniority   []string `json:"seniority,omitempty"`
	JobFunction []string `json:"job_function,omitempty"`
	RemoteType  []string `json:"remote_type,omitempty"`
	City        *string  `json:"city,omitempty"`
	State       *string  `json:"state,omitempty"`
	Country     *string  `json:"country,omitempty"`
	SalaryMin   *int     `json:"salary_min,omitempty"`
	SalaryMax   *int     `json:"salary_max,omitempty"`
	Company     *string  `json:"company,omitempty"`
}

// HasStructured reports whether the proposal contains anything beyond a bare
// text term. A proposal without structured fields falls back to free text.
func (f Filters) HasStructured() bool {
	return len(f.Seniority) > 0 ||
		len(f.JobFunction) > 0 ||
		len(f.RemoteType) > 0 ||
		f.City != nil || f.State != nil || f.Country != nil ||
		f.SalaryMin != nil || f.SalaryMax != nil ||
		f.Company != nil
}

// Response is the parse collaborator's reply.
type Response struct {
	OriginalQuery string  `json:"original_query"`
	Filters       Filters `json:"filters"`
	Explanation   string  `json:"explanation"`
}
