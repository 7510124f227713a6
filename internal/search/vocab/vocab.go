// internal/search/vocab/vocab.go
package vocab

import "strings"

// Facet identifies one structured search dimension.
type Facet string

const (
	FacetFunction  Facet = "function"
	FacetSeniority Facet = "seniority"
	FacetRemote    Facet = "remote_type"
)

// Entry is one valid facet value with its display label.
type Entry struct {
	Value string
	Label string
}

var seniorityEntries = []Entry{
	{Value: "intern", Label: "Intern"},
	{Value: "junior", Label: "Junior"},
	{Value: "mid", Label: "Mid-Level"},
	{Value: "senior", Label: "Senior"},
	{Value: "staff", Label: "Staff"},
	{Value: "principal", Label: "Principal"},
	{Value: "manager", Label: "Manager"},
	{Value: "director", Label: "Director"},
	{Value: "vp", Label: "VP"},
	{Value: "cxo", Label: "CXO"},
}

var functionEntries = []Entry{
	{Value: "sales", Label: "Sales"},
	{Value: "marketing", Label: "Marketing"},
	{Value: "engineering", Label: "Engineering"},
	{Value: "data", Label: "Data"},
	{Value: "product_marketing", Label: "Product Marketing"},
	{Value: "customer_success", Label: "Customer Success"},
	{Value: "hr", Label: "HR"},
	{Value: "finance", Label: "Finance"},
	{Value: "operations", Label: "Operations"},
	{Value: "other", Label: "Other"},
}

var remoteEntries = []Entry{
	{Value: "remote", Label: "Remote"},
	{Value: "hybrid", Label: "Hybrid"},
	{Value: "onsite", Label: "On-site"},
}

// Seniority returns the seniority vocabulary in display order.
func Seniority() []Entry { return seniorityEntries }

// Function returns the job-function vocabulary in display order.
func Function() []Entry { return functionEntries }

// Remote returns the work-arrangement vocabulary in display order.
func Remote() []Entry { return remoteEntries }

func entriesFor(f Facet) []Entry {
	switch f {
	case FacetFunction:
		return functionEntries
	case FacetSeniority:
		return seniorityEntries
	case FacetRemote:
		return remoteEntries
	}
	return nil
}

// Valid reports whether value is a member of the facet's vocabulary.
func Valid(f Facet, value string) bool {
	for _, e := range entriesFor(f) {
		if e.Value == value {
			return true
		}
	}
	return false
}

// Match tests term against the facet's vocabulary, case-insensitively,
// by value or by label. The term is trimmed before comparison.
func Match(f Facet, term string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return "", false
	}
	for _, e := range entriesFor(f) {
		if needle == strings.ToLower(e.Value) || needle == strings.ToLower(e.Label) {
			return e.Value, true
		}
	}
	return "", false
}

// InferencePriority is the fixed order smart-match tests vocabularies in.
// Function wins over seniority, seniority over work arrangement.
var InferencePriority = []Facet{FacetFunction, FacetSeniority, FacetRemote}
