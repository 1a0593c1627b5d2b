// Package paging holds the page request and result shapes shared by the list
// operations of the services.
package paging

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
)

const (
	DefaultSize = 10
	MaxSize     = 100
	// MaxPage keeps Page*Size within a 32-bit offset.
	MaxPage = math.MaxInt32 / MaxSize
)

// Request asks for a zero-based page. Sort is an API field name; the service
// owning the data maps it to a column.
type Request struct {
	Page int
	Size int
	Sort string
	Desc bool
}

// Normalize fills defaults and clamps page and size into range.
func (r Request) Normalize() Request {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Page > MaxPage {
		r.Page = MaxPage
	}
	if r.Size < 1 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	return r
}

func (r Request) Offset() int {
	return r.Page * r.Size
}

// OrderBy resolves the sort field against the allowed columns. An empty sort
// falls back to the given default clause.
func (r Request) OrderBy(columns map[string]string, fallback string) (string, error) {
	if r.Sort == "" {
		return fallback, nil
	}
	column, ok := columns[r.Sort]
	if !ok {
		return "", apperr.BadRequest("cannot sort by %q", r.Sort)
	}
	direction := "ASC"
	if r.Desc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s", column, direction), nil
}

// ParseSort splits "field" or "field,asc|desc".
func ParseSort(raw string) (field string, desc bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, nil
	}

	field, dir, found := strings.Cut(raw, ",")
	field = strings.TrimSpace(field)
	if field == "" {
		return "", false, apperr.BadRequest("sort field is empty")
	}
	if !found {
		return field, false, nil
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return field, false, nil
	case "desc":
		return field, true, nil
	default:
		return "", false, apperr.BadRequest("sort direction must be asc or desc")
	}
}

type Page[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int64
}

func NewPage[T any](items []T, req Request, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: req.Page, Size: req.Size, Total: total}
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) First() bool {
	return p.Page == 0
}

func (p Page[T]) Last() bool {
	return p.Page >= p.TotalPages()-1
}

// Map converts the items while keeping the page metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[U]{Items: out, Page: p.Page, Size: p.Size, Total: p.Total}
}
