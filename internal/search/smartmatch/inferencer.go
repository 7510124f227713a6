// internal/search/smartmatch/inferencer.go
package smartmatch

import "jobsearch-gateway/internal/search/vocab"

// Inference is the result of promoting a free-text term into a facet value.
type Inference struct {
	Facet vocab.Facet
	Value string
}

// Infer tests a settled free-text term against the facet vocabularies in
// fixed priority order (function, then seniority, then work arrangement) and
// returns the first exact match. Matching is case-insensitive against labels
// and values, with the term trimmed first. A miss means the term stays a
// keyword search.
func Infer(term string) (Inference, bool) {
	for _, facet := range vocab.InferencePriority {
		if value, ok := vocab.Match(facet, term); ok {
			return Inference{Facet: facet, Value: value}, true
		}
	}
	return Inference{}, false
}
