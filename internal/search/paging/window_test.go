// internal/search/paging/window_test.go
package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		totalCount  int
		pageSize    int
		maxVisible  int
		expected    []int
	}{
		{"fewer pages than window", 1, 37, 20, 5, []int{1, 2}},
		{"centered mid-range", 7, 400, 20, 5, []int{5, 6, 7, 8, 9}},
		{"left edge", 1, 400, 20, 5, []int{1, 2, 3, 4, 5}},
		{"second page still hugs left edge", 2, 400, 20, 5, []int{1, 2, 3, 4, 5}},
		{"right edge re-derives start", 20, 400, 20, 5, []int{16, 17, 18, 19, 20}},
		{"near right edge", 19, 400, 20, 5, []int{16, 17, 18, 19, 20}},
		{"single page", 1, 5, 20, 5, []int{1}},
		{"exact page boundary", 1, 40, 20, 5, []int{1, 2}},
		{"empty result set", 1, 0, 20, 5, []int{}},
		{"negative total", 1, -3, 20, 5, []int{}},
		{"page size 24 variant", 3, 100, 24, 5, []int{1, 2, 3, 4, 5}},
		{"window of one", 7, 400, 20, 1, []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Window(tt.currentPage, tt.totalCount, tt.pageSize, tt.maxVisible))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 2, TotalPages(37, 20))
	assert.Equal(t, 20, TotalPages(400, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 0, TotalPages(10, 0))
}
