// internal/search/paging/window.go
package paging

// TotalPages returns ceil(totalCount / pageSize). Zero for an empty result
// set or a non-positive page size.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Window computes the direct-jump page indices shown around the current page:
// at most maxVisible consecutive pages, centered on currentPage where the
// bounds allow, hugging the edges otherwise. An empty result set yields an
// empty window.
func Window(currentPage, totalCount, pageSize, maxVisible int) []int {
	totalPages := TotalPages(totalCount, pageSize)
	if totalPages == 0 || maxVisible <= 0 {
		return []int{}
	}

	start := currentPage - maxVisible/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisible - 1
	if end > totalPages {
		end = totalPages
	}
	if end-start+1 < maxVisible {
		start = end - maxVisible + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
