package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/capsulahaus/shop/internal/domain"
)

// apiProducts answers the listing query. Filters arrive as query
// params; the price band is a 0-based index into the fixed band list,
// never a free min/max pair.
func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	q := domain.ProductQuery{
		Category: qv.Get("category"),
		Search:   qv.Get("q"),
		Sort:     domain.SortKey(qv.Get("sort")),
	}
	if v := qv.Get("band"); v != "" {
		idx, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "band", http.StatusBadRequest)
			return
		}
		band, ok := domain.PriceBandAt(idx)
		if !ok {
			http.Error(w, "band", http.StatusBadRequest)
			return
		}
		q.Band = &band
	}
	if v := qv.Get("guests"); v != "" {
		g, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "guests", http.StatusBadRequest)
			return
		}
		q.Guests = &g
	}
	q.Page, _ = strconv.Atoi(qv.Get("page"))
	q.PageSize, _ = strconv.Atoi(qv.Get("pageSize"))

	res, err := s.catalog.Query(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("product query")
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	p, err := s.catalog.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": domain.Categories,
		"priceBands": domain.PriceBands,
	})
}

func (s *Server) apiBrochures(w http.ResponseWriter, r *http.Request) {
	list, err := s.brochures.List(r.Context())
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"brochures": list})
}

// apiPage returns one page's structured content plus its full block
// list. Disabled blocks are included; hiding them is the renderer's
// concern.
func (s *Server) apiPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	blocks, err := s.content.ListBlocks(r.Context(), slug)
	if err != nil {
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	resp := map[string]any{"slug": slug, "blocks": blocks}
	c, err := s.content.GetContent(r.Context(), slug)
	switch {
	case err == nil:
		resp["kind"] = c.Kind
		resp["data"] = c.Data
	case errors.Is(err, domain.ErrNotFound):
		// page with blocks only
	default:
		http.Error(w, "err", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
