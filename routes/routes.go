package routes

import (
	"context"
	"net/http"
	"time"

	"cookbook/ratelim"
	"cookbook/utils"

	"github.com/julienschmidt/httprouter"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func AddGraphQLRoutes(router *httprouter.Router, graphql http.Handler, rateLimiter *ratelim.RateLimiter) {
	router.POST("/graphql", rateLimiter.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		graphql.ServeHTTP(w, r)
	}))
}

// AddHealthRoutes registers /health. A nil store is always healthy.
func AddHealthRoutes(router *httprouter.Router, store Pinger) {
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				_ = utils.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		_ = utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
