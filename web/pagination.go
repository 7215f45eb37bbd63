package web

import (
	"net/http"
	"net/url"
	"strconv"
)

// maxPageLinks is the most numbered links a pagination bar shows.
const maxPageLinks = 10

// Pagination is the page state of a listing.
type Pagination struct {
	// Total is the number of pages, or 0 when the listing is open-ended.
	Total    int
	Current  int
	Next     int // 0 on the last page
	Previous int // 0 on the first page

	path  string
	query url.Values
}

// NewPagination reads the page parameter of r for a listing of total pages,
// clipping it to 1..total.
func NewPagination(r *http.Request, total int) *Pagination {
	p := newPagination(r)
	p.Total = total
	if total > 0 && p.Current > total {
		p.Current = total
	}
	if total > 0 && p.Current < total {
		p.Next = p.Current + 1
	}
	if p.Current > 1 {
		p.Previous = p.Current - 1
	}
	return p
}

// NewOpenPagination reads the page parameter of r for a listing whose size
// is unknown. hasMore decides whether a next page is offered.
func NewOpenPagination(r *http.Request, hasMore bool) *Pagination {
	p := newPagination(r)
	if hasMore {
		p.Next = p.Current + 1
	}
	if p.Current > 1 {
		p.Previous = p.Current - 1
	}
	return p
}

// CurrentPage returns the clipped page parameter of r without a known total.
func CurrentPage(r *http.Request) int {
	return newPagination(r).Current
}

func newPagination(r *http.Request) *Pagination {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return &Pagination{Current: page, path: r.URL.Path, query: q}
}

// TotalPages returns ceil(count / perPage).
func TotalPages(count, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// Window returns the numbered pages to link: at most ten, starting up to five
// before the current page. It is empty when there is at most one page.
func (p *Pagination) Window() []int {
	if p.Total <= 1 {
		return nil
	}
	from := max(1, p.Current-5)
	to := min(from+maxPageLinks-1, p.Total)
	from = max(1, min(from, to-maxPageLinks+1))
	pages := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		pages = append(pages, n)
	}
	return pages
}

// Visible reports whether a pagination bar is worth rendering.
func (p *Pagination) Visible() bool {
	return p.Total > 1 || p.Next > 0 || p.Previous > 0
}

// Link returns the current URL with its page parameter replaced.
func (p *Pagination) Link(page int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return (&url.URL{Path: p.path, RawQuery: q.Encode()}).String()
}

// Slice returns the bounds of the current page within count items.
func (p *Pagination) Slice(count, perPage int) (lo, hi int) {
	lo = min((p.Current-1)*perPage, count)
	hi = min(lo+perPage, count)
	return lo, hi
}
