package web

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"gpsroute/internal/route"
	"gpsroute/internal/store"
)

// RouteHandler serves route computation and the stored route catalogue.
type RouteHandler struct {
	store        *store.Store
	granularity  float64
	format       route.Source
	maxBodyBytes int64
}

// NewRouteHandler uses granularity and format when a request does not name
// its own. A maxBodyBytes of 0 disables the upload limit.
func NewRouteHandler(st *store.Store, granularity float64, format route.Source, maxBodyBytes int64) *RouteHandler {
	if format == "" {
		format = route.SourceAuto
	}
	return &RouteHandler{store: st, granularity: granularity, format: format, maxBodyBytes: maxBodyBytes}
}

func (h *RouteHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/length", h.computeLength)
	r.Route("/routes", func(r chi.Router) {
		r.Get("/", h.listRoutes)
		r.Post("/", h.createRoute)
		r.Get("/{routeID}", h.getRoute)
		r.Delete("/{routeID}", h.deleteRoute)
	})
	return r
}

func (h *RouteHandler) computeLength(w http.ResponseWriter, r *http.Request) {
	rt, _, status, err := h.readBody(w, r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rt.Summary())
}

func (h *RouteHandler) createRoute(w http.ResponseWriter, r *http.Request) {
	rt, src, status, err := h.readBody(w, r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	rec, err := h.store.Save(r.Context(), string(src), rt)
	if err != nil {
		log.Printf("save route: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store route")
		return
	}
	log.Printf("stored route %d %q (%d positions, %.1f m)", rec.ID, rec.Name, rec.NumPositions, rec.TotalLengthM)
	writeJSON(w, http.StatusCreated, rec)
}

func (h *RouteHandler) listRoutes(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List(r.Context())
	if err != nil {
		log.Printf("list routes: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list routes")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *RouteHandler) getRoute(w http.ResponseWriter, r *http.Request) {
	id, err := parseRouteID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := h.granularityParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rt, err := h.store.Route(r.Context(), id, route.WithGranularity(g))
	if err != nil {
		h.storeError(w, "load route", err)
		return
	}
	writeJSON(w, http.StatusOK, rt.Summary())
}

func (h *RouteHandler) deleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := parseRouteID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, "delete route", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RouteHandler) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}
	log.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "failed to "+op)
}

// readBody parses the request body as a route using the format, granularity
// and name query parameters.
func (h *RouteHandler) readBody(w http.ResponseWriter, r *http.Request) (*route.Route, route.Source, int, error) {
	q := r.URL.Query()
	src := h.format
	if s := q.Get("format"); s != "" {
		var err error
		if src, err = route.ParseSource(s); err != nil {
			return nil, "", http.StatusBadRequest, err
		}
	}
	g, err := h.granularityParam(r)
	if err != nil {
		return nil, "", http.StatusBadRequest, err
	}
	opts := []route.Option{route.WithGranularity(g)}
	if name := strings.TrimSpace(q.Get("name")); name != "" {
		opts = append(opts, route.WithName(name))
	}

	var body io.Reader = r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	rt, src, err := route.Read(body, src, opts...)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, "", http.StatusBadRequest, err
	}
	return rt, src, http.StatusOK, nil
}

func (h *RouteHandler) granularityParam(r *http.Request) (float64, error) {
	s := strings.TrimSpace(r.URL.Query().Get("granularity"))
	if s == "" {
		return h.granularity, nil
	}
	g, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(g) || math.IsInf(g, 0) || g < 0 {
		return 0, fmt.Errorf("granularity must be a non-negative number of metres")
	}
	return g, nil
}

func parseRouteID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "routeID"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid route id")
	}
	return uint(id), nil
}
