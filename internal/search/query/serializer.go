// internal/search/query/serializer.go
package query

import (
	"net/url"
	"strconv"
	"strings"

	"jobsearch-gateway/internal/search/state"
)

// Param is one (key, value) pair of the serialized request. Order is
// significant: the serializer emits parameters deterministically so two equal
// filter states always produce the same request.
type Param struct {
	Key   string
	Value string
}

// Serialize maps a filter state to the listing API's parameter sequence.
// Absent and empty constraints emit nothing; only the pagination pair is
// unconditional. Multi-valued facets emit one occurrence per selected value
// in selection order.
func Serialize(s *state.FilterState, pageSize int) []Param {
	params := []Param{}

	if q := strings.TrimSpace(s.FreeText); q != "" {
		params = append(params, Param{Key: "q", Value: q})
	}
	for _, v := range s.Seniority {
		params = append(params, Param{Key: "seniority", Value: v})
	}
	for _, v := range s.JobFunction {
		params = append(params, Param{Key: "function", Value: v})
	}
	for _, v := range s.RemoteType {
		params = append(params, Param{Key: "remote_type", Value: v})
	}

	city, st := splitLocation(s.Location)
	if city != "" {
		params = append(params, Param{Key: "city", Value: city})
	}
	if st != "" {
		params = append(params, Param{Key: "state", Value: st})
	}
	if country := strings.TrimSpace(s.Location.Country); country != "" {
		params = append(params, Param{Key: "country", Value: country})
	}

	if s.SalaryMin != nil {
		params = append(params, Param{Key: "salary_min", Value: strconv.Itoa(*s.SalaryMin)})
	}
	if s.SalaryMax != nil {
		params = append(params, Param{Key: "salary_max", Value: strconv.Itoa(*s.SalaryMax)})
	}

	for _, skill := range s.Skills {
		if skill.Name != "" {
			params = append(params, Param{Key: "skill", Value: skill.Name})
		}
	}

	params = append(params,
		Param{Key: "page", Value: strconv.Itoa(s.Page)},
		Param{Key: "page_size", Value: strconv.Itoa(pageSize)},
	)
	return params
}

// splitLocation resolves the two location input variants. The composite
// "City, State" field wins when populated: it is split on the first comma and
// each side trimmed, with empty sides dropped.
func splitLocation(loc state.Location) (city, st string) {
	if composite := strings.TrimSpace(loc.CityState); composite != "" {
		before, after, found := strings.Cut(composite, ",")
		city = strings.TrimSpace(before)
		if found {
			st = strings.TrimSpace(after)
		}
		return city, st
	}
	return strings.TrimSpace(loc.City), strings.TrimSpace(loc.State)
}

// Encode renders the parameter sequence as a query string, preserving order.
func Encode(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
