package ratelim

import (
	"context"
	"net"
	"net/http"

	"cookbook/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Limiter decides whether one more request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RateLimiter struct {
	limiter Limiter
	log     *zap.Logger
}

func NewRateLimiter(limiter Limiter, log *zap.Logger) *RateLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{limiter: limiter, log: log}
}

// Limit rejects requests over the client's budget with 429. A limiter
// backend failure lets the request through.
func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		key := clientKey(r)

		ok, err := rl.limiter.Allow(r.Context(), key)
		if err != nil {
			utils.LoggerFromContext(r.Context(), rl.log).Warn("rate limiter unavailable", zap.Error(err))
			next(w, r, ps)
			return
		}
		if !ok {
			utils.LoggerFromContext(r.Context(), rl.log).Info("rate limit exceeded",
				zap.String("client", key),
				zap.String("path", r.URL.Path))
			_ = utils.RespondWithError(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		next(w, r, ps)
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
