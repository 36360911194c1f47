package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/logger"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	DB            *sqlx.DB
	Logger        logger.Logger
	BearerAuth    *auth.BearerTokenMiddleware
	BookmarkStore store.BookmarkStoreIface
	TokenStore    auth.TokenStore
}

// NewRouter assembles the full chi router. Everything under /api/v1 requires
// Bearer token authentication and returns application/json; /healthz and
// /metrics are open.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(deps.Logger))

	r.Get("/healthz", healthz(deps.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(deps.BearerAuth.Authenticate)

		registerBookmarkRoutes(r, deps.BookmarkStore, deps.Logger)
		registerTokenRoutes(r, deps.TokenStore)
	})

	return r
}

// healthz answers 200 when the process is up and the database responds to a ping.
func healthz(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable", "DB_DOWN")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
