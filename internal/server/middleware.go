package server

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/sajidk/furniture-store/httpx"
)

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Abuse-prone endpoints get a per-IP counter in redis. One minute windows,
// fail open when redis is down or absent.
const rateLimitPerMinute = 10

func (s *Server) rateLimit(scope string, next http.Handler) http.Handler {
	if s.Redis == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		key := "ratelimit:" + scope + ":" + ip
		ctx := r.Context()
		count, err := s.Redis.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				s.Redis.Expire(ctx, key, time.Minute)
			}
			if count > rateLimitPerMinute {
				httpx.JSONError(w, http.StatusTooManyRequests, "rate_limited", nil)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
