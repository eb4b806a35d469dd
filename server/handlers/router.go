package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nnnkkk7/typebridge/server/types"
)

// NewRouter mounts the bridge routes with request logging, panic recovery
// and request ids.
func NewRouter(h *BridgeHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Post(types.PathQueryRaw, h.QueryRaw)
	r.Post(types.PathExecuteRaw, h.ExecuteRaw)
	r.Get(types.PathHealth, h.Health)
	r.NotFound(h.NotFound)

	return r
}
