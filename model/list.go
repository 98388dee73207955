package model

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 50
)

// Sortable fields. Anything else silently falls back to createdAt.
var sortFields = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"title":     "title",
	"author":    "author",
}

// ListBooksRequest is the resolved form of the listing query parameters.
type ListBooksRequest struct {
	OwnerID string
	Page    int
	Limit   int
	SortBy  string
	Order   string
	Search  string
	Status  ReadingStatus
}

// TextSort reports whether the resolved sort field needs locale-aware,
// case-insensitive comparison.
func (r *ListBooksRequest) TextSort() bool {
	return r.SortBy == "title" || r.SortBy == "author"
}

// Offset is the number of records skipped before the requested page.
func (r *ListBooksRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// ResolveListRequest sanitizes raw query parameters into a ListBooksRequest.
// Out-of-range numbers are clamped, unknown enum values fall back to their
// defaults, search is trimmed.
func ResolveListRequest(ownerID string, query url.Values) *ListBooksRequest {
	req := &ListBooksRequest{
		OwnerID: ownerID,
		Page:    defaultPage,
		Limit:   defaultLimit,
		SortBy:  "createdAt",
		Order:   "desc",
		Status:  StatusAll,
	}

	if v, err := strconv.Atoi(query.Get("page")); err == nil && v >= 1 {
		req.Page = v
	}
	if v, err := strconv.Atoi(query.Get("limit")); err == nil {
		switch {
		case v < 1:
			req.Limit = 1
		case v > maxLimit:
			req.Limit = maxLimit
		default:
			req.Limit = v
		}
	}
	if field, ok := sortFields[query.Get("sort")]; ok {
		req.SortBy = field
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		req.Order = order
	}
	req.Search = strings.TrimSpace(query.Get("search"))

	switch ReadingStatus(query.Get("status")) {
	case StatusUnread:
		req.Status = StatusUnread
	case StatusReading:
		req.Status = StatusReading
	case StatusCompleted:
		req.Status = StatusCompleted
	}

	return req
}

// PageMeta is the pagination metadata reported alongside a page of records.
// Counts reflect the owner+search predicate only: the status post-filter
// runs after pagination and does not feed back into these numbers.
type PageMeta struct {
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Total      int64    `json:"total"`
	TotalPages int64    `json:"totalPages"`
	HasNext    bool     `json:"hasNext"`
	HasPrev    bool     `json:"hasPrev"`
	Sort       SortMeta `json:"sort"`
}

type SortMeta struct {
	By    string `json:"by"`
	Order string `json:"order"`
}

// NewPageMeta computes pagination metadata for a pre-status-filter total.
func NewPageMeta(req *ListBooksRequest, total int64) PageMeta {
	totalPages := total / int64(req.Limit)
	if total%int64(req.Limit) != 0 {
		totalPages++
	}
	return PageMeta{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(req.Page)*int64(req.Limit) < total,
		HasPrev:    req.Page > 1,
		Sort:       SortMeta{By: req.SortBy, Order: req.Order},
	}
}

// BookPage is the result of one listing query.
type BookPage struct {
	Info  PageMeta `json:"info"`
	Count int      `json:"count"`
	Books []*Book  `json:"books"`
}
