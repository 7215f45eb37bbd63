package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 250, TotalPages(5000, 20))
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name                    string
		target                  string
		total                   int
		current, next, previous int
	}{
		{"no param", "/", 5, 1, 2, 0},
		{"middle", "/?page=3", 5, 3, 4, 2},
		{"last", "/?page=5", 5, 5, 0, 4},
		{"clipped high", "/?page=99", 5, 5, 0, 4},
		{"clipped low", "/?page=-2", 5, 1, 2, 0},
		{"garbage", "/?page=abc", 5, 1, 2, 0},
		{"single page", "/", 1, 1, 0, 0},
		{"empty", "/?page=2", 0, 2, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(httptest.NewRequest("GET", tt.target, nil), tt.total)
			assert.Equal(t, tt.current, p.Current)
			assert.Equal(t, tt.next, p.Next)
			assert.Equal(t, tt.previous, p.Previous)
		})
	}
}

func TestPaginationWindow(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		current string
		want    []int
	}{
		{"one page", 1, "1", nil},
		{"few pages", 4, "2", []int{1, 2, 3, 4}},
		{"start", 30, "1", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"middle", 30, "15", []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}},
		{"end", 30, "30", []int{21, 22, 23, 24, 25, 26, 27, 28, 29, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(httptest.NewRequest("GET", "/?page="+tt.current, nil), tt.total)
			assert.Equal(t, tt.want, p.Window())
			assert.LessOrEqual(t, len(p.Window()), maxPageLinks)
		})
	}
}

func TestOpenPagination(t *testing.T) {
	p := NewOpenPagination(httptest.NewRequest("GET", "/search?q=go&page=2", nil), true)
	assert.Equal(t, 2, p.Current)
	assert.Equal(t, 3, p.Next)
	assert.Equal(t, 1, p.Previous)
	assert.Nil(t, p.Window())
	assert.True(t, p.Visible())
	assert.Equal(t, "/search?page=3&q=go", p.Link(p.Next))

	p = NewOpenPagination(httptest.NewRequest("GET", "/search?q=go", nil), false)
	assert.False(t, p.Visible())
}

func TestPaginationSlice(t *testing.T) {
	p := NewPagination(httptest.NewRequest("GET", "/?page=2", nil), 3)
	lo, hi := p.Slice(45, 20)
	assert.Equal(t, 20, lo)
	assert.Equal(t, 40, hi)

	p = NewPagination(httptest.NewRequest("GET", "/?page=3", nil), 3)
	lo, hi = p.Slice(45, 20)
	assert.Equal(t, 40, lo)
	assert.Equal(t, 45, hi)

	p = NewPagination(httptest.NewRequest("GET", "/", nil), 0)
	lo, hi = p.Slice(0, 20)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 0, hi)
}
