package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/creative-analytics/internal/pkg/httputil"
	"github.com/ignite/creative-analytics/internal/service/metrics"
)

// parseRange reads start/end (YYYY-MM-DD). It writes a 400 and returns false
// when they are invalid.
func (h *Handlers) parseRange(w http.ResponseWriter, r *http.Request) (metrics.Range, bool) {
	q := r.URL.Query()
	rng, err := metrics.ParseRange(q.Get("start"), q.Get("end"), h.now())
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return metrics.Range{}, false
	}
	return rng, true
}

// GetOverview returns totals, launch counts and top creatives.
//
//	GET /api/metrics/overview?start=&end=
func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	out, err := h.metrics.Overview(r.Context(), rng)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, out)
}

// ListCreatives returns one page of creatives with metrics.
//
//	GET /api/metrics/creatives?start=&end=&search=&status=&winner=&angle=&format=&style=&type=&targetTraffic=&createdBy=&page=&limit=
func (h *Handlers) ListCreatives(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	p := ParsePagination(r, 25, 200)
	page, err := h.metrics.CreativeRows(r.Context(), rng, metrics.CreativeFilter{
		Search:        q.Get("search"),
		Status:        q.Get("status"),
		Winner:        q.Get("winner"),
		Angle:         q.Get("angle"),
		Format:        q.Get("format"),
		Style:         q.Get("style"),
		Type:          q.Get("type"),
		TargetTraffic: q.Get("targetTraffic"),
		CreatedBy:     q.Get("createdBy"),
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"rows":  page.Rows,
		"total": page.Total,
		"pages": page.Pages,
		"page":  p.Page,
	})
}

// GetCreative returns one creative with its timeline and ad breakdown.
//
//	GET /api/metrics/creatives/{id}?start=&end=
func (h *Handlers) GetCreative(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	detail, err := h.metrics.CreativeDetail(r.Context(), chi.URLParam(r, "id"), rng)
	if errors.Is(err, metrics.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, detail)
}

// GetAnalysis groups creatives by one dimension.
//
//	GET /api/metrics/analysis?dimension=angle&start=&end=
func (h *Handlers) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	out, err := h.metrics.Analysis(r.Context(), rng, r.URL.Query().Get("dimension"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, out)
}

// GetFilterOptions returns the distinct values of each creative filter.
//
//	GET /api/metrics/filters
func (h *Handlers) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	out, err := h.metrics.FilterOptions(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, out)
}
