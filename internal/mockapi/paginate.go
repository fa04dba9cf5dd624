package mockapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/stackclone/internal/model"
)

const maxPageSize = 100

// paginate slices items according to ?page and ?page_size and builds the
// envelope with absolute next/previous links. A page past the end is an error.
func paginate[T any](r *http.Request, items []T, defaultSize int) (model.Page[T], error) {
	q := r.URL.Query()
	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return model.Page[T]{}, detailError(http.StatusNotFound, "Invalid page.")
		}
		page = n
	}
	size := defaultSize
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 {
		size = min(n, maxPageSize)
	}

	start := (page - 1) * size
	if start > 0 && start >= len(items) {
		return model.Page[T]{}, detailError(http.StatusNotFound, "Invalid page.")
	}
	end := min(start+size, len(items))

	p := model.Page[T]{Count: len(items), Results: make([]T, 0, end-start)}
	p.Results = append(p.Results, items[start:end]...)
	if end < len(items) {
		p.Next = pageLink(r, page+1)
	}
	if page > 1 {
		p.Previous = pageLink(r, page-1)
	}
	return p, nil
}

func pageLink(r *http.Request, page int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T, defaultSize int) {
	p, err := paginate(r, items, defaultSize)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
