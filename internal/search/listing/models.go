// internal/search/listing/models.go
package listing

// Job is one row of the listing API's search results. Field names mirror the
// API's JSON exactly; the gateway passes these through untouched.
type Job struct {
	ID              string  `json:"id"`
	RoleTitle       string  `json:"role_title"`
	CompanyName     string  `json:"company_name"`
	CompanyID       string  `json:"company_id"`
	LocationCity    *string `json:"location_city,omitempty"`
	LocationState   *string `json:"location_state,omitempty"`
	LocationCountry *string `json:"location_country,omitempty"`
	RemoteType      string  `json:"remote_type"`
	SeniorityLevel  string  `json:"seniority_level"`
	JobFunction     string  `json:"job_function"`
	EmploymentType  string  `json:"employment_type"`
	SalaryMinUSD    *int    `json:"salary_min_usd,omitempty"`
	SalaryMaxUSD    *int    `json:"salary_max_usd,omitempty"`
	Confidence      float64 `json:"confidence"`
}

// Result is a successful listing fetch. Jobs and Total always move together;
// the controller never commits one without the other.
type Result struct {
	Jobs  []Job `json:"jobs"`
	Total int   `json:"total"`
}

// LocationOption is one entry of the location facet vocabulary.
type LocationOption struct {
	Name string `json:"name"`
}
