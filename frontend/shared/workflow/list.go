package workflow

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultPageSizes are the page size choices of every list screen.
var DefaultPageSizes = []int{5, 10, 15}

// Filter keeps items where any of fields(item) contains query,
// case-insensitively. An empty query returns items unchanged.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Column compares two items by one sortable column.
type Column[T any] func(a, b T) int

// SortBy orders a copy of items by column. Columns missing from sortable
// leave the order untouched.
func SortBy[T any](items []T, column string, dir Direction, sortable map[string]Column[T]) []T {
	cmp, ok := sortable[column]
	if !ok || cmp == nil {
		return items
	}
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		if dir == Desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

// Page is one page of a list.
type Page[T any] struct {
	Items  []T
	Number int // 1-based
	Size   int
	Total  int
	Pages  int
	Sizes  []int
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.Pages }

// Paginate slices items into page number (1-based) of size. A size not in
// sizes falls back to sizes[0]; the page number is clamped to the range.
func Paginate[T any](items []T, number, size int, sizes []int) Page[T] {
	if len(sizes) == 0 {
		sizes = DefaultPageSizes
	}
	if !slices.Contains(sizes, size) {
		size = sizes[0]
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	start := (number - 1) * size
	end := min(start+size, total)
	if start > total {
		start = total
	}
	return Page[T]{
		Items:  items[start:end],
		Number: number,
		Size:   size,
		Total:  total,
		Pages:  pages,
		Sizes:  sizes,
	}
}

// ListState is the list screen state carried in the query string.
type ListState struct {
	Query  string
	Page   int
	Size   int
	Sort   string
	Dir    Direction
	Dialog Dialog
	// Extra carries screen-specific keys such as a date range.
	Extra url.Values
}

// ParseListState reads q, page, size, sort, dir and the dialog from values.
// extraKeys are copied into Extra.
func ParseListState(values url.Values, extraKeys ...string) ListState {
	st := ListState{
		Query:  values.Get("q"),
		Page:   atoiOr(values.Get("page"), 1),
		Size:   atoiOr(values.Get("size"), DefaultPageSizes[0]),
		Sort:   values.Get("sort"),
		Dir:    Asc,
		Dialog: ParseDialog(values),
		Extra:  url.Values{},
	}
	if Direction(values.Get("dir")) == Desc {
		st.Dir = Desc
	}
	for _, k := range extraKeys {
		if v := values.Get(k); v != "" {
			st.Extra.Set(k, v)
		}
	}
	return st
}

// Values encodes the state back into query values.
func (s ListState) Values() url.Values {
	v := url.Values{}
	for k, vals := range s.Extra {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	if s.Size != 0 && s.Size != DefaultPageSizes[0] {
		v.Set("size", strconv.Itoa(s.Size))
	}
	if s.Sort != "" {
		v.Set("sort", s.Sort)
		if s.Dir == Desc {
			v.Set("dir", string(Desc))
		}
	}
	s.Dialog.Encode(v)
	return v
}

// URL renders base with the encoded state.
func (s ListState) URL(base string) string {
	if enc := s.Values().Encode(); enc != "" {
		return base + "?" + enc
	}
	return base
}

// WithDialog returns a copy with d open.
func (s ListState) WithDialog(d Dialog) ListState {
	s.Dialog = d
	return s
}

// WithPage returns a copy showing page n.
func (s ListState) WithPage(n int) ListState {
	s.Page = n
	return s
}

// WithSize returns a copy with page size n, back on the first page.
func (s ListState) WithSize(n int) ListState {
	s.Size = n
	s.Page = 1
	return s
}

// ToggleSort returns a copy sorted by column, flipping the direction when
// column is already the sort column.
func (s ListState) ToggleSort(column string) ListState {
	if s.Sort == column && s.Dir == Asc {
		s.Dir = Desc
	} else {
		s.Dir = Asc
	}
	s.Sort = column
	s.Page = 1
	return s
}

// Closed returns the list URL state without a dialog.
func (s ListState) Closed() ListState {
	s.Dialog = None()
	return s
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
