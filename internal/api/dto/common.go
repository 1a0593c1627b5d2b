package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/paging"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// PageResponse is the paged list envelope.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func NewPageResponse[T, U any](p paging.Page[T], fn func(T) U) PageResponse[U] {
	mapped := paging.Map(p, fn)
	return PageResponse[U]{
		Content:       mapped.Items,
		Page:          mapped.Page,
		Size:          mapped.Size,
		TotalElements: mapped.Total,
		TotalPages:    mapped.TotalPages(),
		First:         mapped.First(),
		Last:          mapped.Last(),
	}
}

// ParsePaging reads page, size and sort from the query string. Missing
// values take the defaults; malformed ones are a BadRequest.
func ParsePaging(q url.Values) (paging.Request, error) {
	var req paging.Request

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, apperr.BadRequest("page must be a non-negative integer")
		}
		if n > paging.MaxPage {
			return req, apperr.BadRequest("page must be at most %d", paging.MaxPage)
		}
		req.Page = n
	}

	if raw := strings.TrimSpace(q.Get("size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return req, apperr.BadRequest("size must be a positive integer")
		}
		req.Size = n
	}

	field, desc, err := paging.ParseSort(q.Get("sort"))
	if err != nil {
		return req, err
	}
	req.Sort = field
	req.Desc = desc

	return req.Normalize(), nil
}
