package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/iota-uz/clubs/pkg/composables"
	"github.com/iota-uz/clubs/pkg/httpapi"
)

const (
	rateLimitPrefix   = "clubs_rate_limit"
	CodeRateLimited   = "RATE_LIMITED"
	defaultRatePeriod = time.Second
)

type RateLimitConfig struct {
	RequestsPerPeriod int
	// Period defaults to one second.
	Period       time.Duration
	Store        limiter.Store
	RealIPHeader string
}

func NewMemoryStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
}

func NewRedisStore(redisURL string) (limiter.Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	store, err := redisstore.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
		Prefix: rateLimitPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis rate limit store: %w", err)
	}
	return store, nil
}

// RateLimit caps requests per client IP. A non-positive limit disables it.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	if cfg.RequestsPerPeriod <= 0 || cfg.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Period <= 0 {
		cfg.Period = defaultRatePeriod
	}
	instance := limiter.New(cfg.Store, limiter.Rate{
		Period: cfg.Period,
		Limit:  int64(cfg.RequestsPerPeriod),
	})
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(func(r *http.Request) string {
			return clientIP(r, cfg.RealIPHeader)
		}),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			_ = httpapi.WriteError(w, http.StatusTooManyRequests, CodeRateLimited, "too many requests", httpapi.RequestMeta(r))
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			composables.TryUseLogger(r.Context(), logrus.StandardLogger()).WithError(err).Warn("rate limiter store failed")
			_ = httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternal, "rate limiter unavailable", httpapi.RequestMeta(r))
		}),
	)
	return mw.Handler
}
