package queue

const (
	DefaultPageSize = 10

	// quantidade de botões numéricos na navegação
	maxVisiblePages = 5
)

// Paginator exposes one page of data at a time. The current page is
// always kept inside [1, TotalPages()]. Not safe for concurrent use.
type Paginator[T any] struct {
	data         []T
	itemsPerPage int
	currentPage  int
}

func NewPaginator[T any](data []T, itemsPerPage int) *Paginator[T] {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultPageSize
	}
	return &Paginator[T]{
		data:         data,
		itemsPerPage: itemsPerPage,
		currentPage:  1,
	}
}

// SetData swaps the underlying collection and goes back to page 1.
func (p *Paginator[T]) SetData(data []T) {
	p.data = data
	p.currentPage = 1
}

func (p *Paginator[T]) CurrentPage() int {
	return p.currentPage
}

func (p *Paginator[T]) ItemsPerPage() int {
	return p.itemsPerPage
}

func (p *Paginator[T]) TotalItems() int {
	return len(p.data)
}

func (p *Paginator[T]) TotalPages() int {
	pages := (len(p.data) + p.itemsPerPage - 1) / p.itemsPerPage
	if pages < 1 {
		return 1
	}
	return pages
}

func (p *Paginator[T]) PaginatedData() []T {
	start := (p.currentPage - 1) * p.itemsPerPage
	if start >= len(p.data) {
		return []T{}
	}
	end := start + p.itemsPerPage
	if end > len(p.data) {
		end = len(p.data)
	}
	return p.data[start:end]
}

func (p *Paginator[T]) GoToPage(n int) {
	total := p.TotalPages()
	switch {
	case n < 1:
		n = 1
	case n > total:
		n = total
	}
	p.currentPage = n
}

func (p *Paginator[T]) GoToNextPage() {
	p.GoToPage(p.currentPage + 1)
}

func (p *Paginator[T]) GoToPreviousPage() {
	p.GoToPage(p.currentPage - 1)
}

func (p *Paginator[T]) HasNextPage() bool {
	return p.currentPage < p.TotalPages()
}

func (p *Paginator[T]) HasPreviousPage() bool {
	return p.currentPage > 1
}

// FirstItemIndex and LastItemIndex are 1-based, for "Mostrando X a Y de N".
// Both are 0 when there is no data.
func (p *Paginator[T]) FirstItemIndex() int {
	if len(p.data) == 0 {
		return 0
	}
	return (p.currentPage-1)*p.itemsPerPage + 1
}

func (p *Paginator[T]) LastItemIndex() int {
	last := p.currentPage * p.itemsPerPage
	if last > len(p.data) {
		return len(p.data)
	}
	return last
}

// ===============================
// Page number window
// ===============================

type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Active   bool `json:"active,omitempty"`
}

// PageNumbers returns the navigation buttons: up to five pages around the
// current one, plus the first and last page, with ellipsis for gaps.
func (p *Paginator[T]) PageNumbers() []PageItem {
	return pageWindow(p.currentPage, p.TotalPages())
}

func pageWindow(current, total int) []PageItem {
	start := current - maxVisiblePages/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisiblePages - 1
	if end > total {
		end = total
	}
	if end-start < maxVisiblePages-1 {
		start = end - maxVisiblePages + 1
		if start < 1 {
			start = 1
		}
	}

	items := make([]PageItem, 0, maxVisiblePages+4)

	if start > 1 {
		items = append(items, PageItem{Number: 1})
		if start > 2 {
			items = append(items, PageItem{Ellipsis: true})
		}
	}

	for page := start; page <= end; page++ {
		items = append(items, PageItem{Number: page, Active: page == current})
	}

	if end < total {
		if end < total-1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Number: total})
	}

	return items
}
