// Package http holds the REST handlers for the catalog API. Each write
// operation decodes into a typed input schema and validates it before
// any store interaction.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookreview/internal/catalog"
	"bookreview/internal/httpx"
)

const dateLayout = "2006-01-02"

type pageParams struct {
	Page     int
	PageSize int
}

func (p pageParams) limitOffset() (int, int) {
	return p.PageSize, (p.Page - 1) * p.PageSize
}

func parsePageParams(r *http.Request) pageParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return pageParams{Page: page, PageSize: pageSize}
}

func pageMeta(p pageParams, total int) map[string]interface{} {
	return map[string]interface{}{
		"page":        p.Page,
		"page_size":   p.PageSize,
		"total":       total,
		"total_pages": (total + p.PageSize - 1) / p.PageSize,
	}
}

// parseOrdering splits an "ordering" query value of the form
// "field" or "-field" into a column and direction.
func parseOrdering(r *http.Request, defaultSort string, defaultDesc bool) (string, bool) {
	ordering := r.URL.Query().Get("ordering")
	if ordering == "" {
		return defaultSort, defaultDesc
	}
	if ordering[0] == '-' {
		return ordering[1:], true
	}
	return ordering, false
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// writeLookupError maps catalog errors for read/delete paths, where a
// missing entity is a plain 404.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrAuthorNotFound),
		errors.Is(err, catalog.ErrBookNotFound),
		errors.Is(err, catalog.ErrReviewNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Not found", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
	}
}

// writeWriteError maps catalog errors for create/update paths: a
// dangling referent is a client error naming the missing entity, and a
// duplicate ISBN is a conflict identifying the field.
func writeWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrAuthorNotFound):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeReferentNotFound,
			"Referenced author does not exist", nil)
	case errors.Is(err, catalog.ErrBookNotFound):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeReferentNotFound,
			"Referenced book does not exist", nil)
	case errors.Is(err, catalog.ErrDuplicateISBN):
		httpx.JSONError(w, r, http.StatusConflict, httpx.CodeDuplicate,
			"A book with this ISBN already exists", []httpx.ErrorDetail{
				{Field: "isbn", Message: "must be unique"},
			})
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternal, "Server error", nil)
	}
}
