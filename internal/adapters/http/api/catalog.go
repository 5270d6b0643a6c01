// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// CatalogDependencies defines the interface for catalog operations.
type CatalogDependencies interface {
	Catalog(ctx context.Context) CatalogInfo
	Refresh(ctx context.Context) (CatalogInfo, error)
}

// CatalogHandler handles catalog inspection and refresh requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Catalog(r.Context()))
}

// HandleRefresh handles POST /catalog/refresh requests.
func (h *CatalogHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.catalog_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	info, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "refresh_failed", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
