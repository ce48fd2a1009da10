package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/creative-analytics/internal/pkg/httputil"
	"github.com/ignite/creative-analytics/internal/service/override"
)

// UpsertOverride stores a manual override. Mappings pick it up on the next
// sync or reconcile run.
//
//	POST /api/unmapped-ads/override
func (h *Handlers) UpsertOverride(w http.ResponseWriter, r *http.Request) {
	var in override.Input
	if !httputil.Decode(w, r, &in) {
		return
	}
	o, err := h.overrides.Upsert(r.Context(), in)
	if errors.Is(err, override.ErrKeyRequired) {
		httputil.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"ok": true, "override": o})
}

// ListUnmapped returns the unmapped-ad queue, most recently seen first.
//
//	GET /api/unmapped-ads?search=&page=&limit=
func (h *Handlers) ListUnmapped(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r, 50, 500)
	rows, total, err := h.overrides.ListUnmapped(r.Context(), override.ListFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(rows, p, int64(total)))
}

// ListOverrides returns stored overrides.
//
//	GET /api/overrides?search=&page=&limit=
func (h *Handlers) ListOverrides(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r, 50, 500)
	rows, total, err := h.overrides.List(r.Context(), override.ListFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, NewPaginatedResponse(rows, p, int64(total)))
}

// GetOverride returns one override.
//
//	GET /api/overrides/{id}
func (h *Handlers) GetOverride(w http.ResponseWriter, r *http.Request) {
	o, err := h.overrides.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, override.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, o)
}

// DeleteOverride removes an override.
//
//	DELETE /api/overrides/{id}
func (h *Handlers) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	err := h.overrides.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, override.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.NoContent(w)
}
