package middleware

import (
	"context"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ayush/devconnector/backend/internal/respond"
)

// Limiter decides whether key may spend one more request in the window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

type peerKey struct{}

// PeerAddr records the connection's remote address. It must run before
// anything that rewrites RemoteAddr from client-supplied headers.
func PeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func peerHost(r *http.Request) string {
	addr, ok := r.Context().Value(peerKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// RateLimit caps requests per caller. Authenticated callers are keyed by user
// id, everyone else by the connection address seen by PeerAddr, so forwarded
// headers cannot mint fresh budgets. Limiter failures let the request through.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			who := UserID(r.Context())
			if who == "" {
				who = "ip:" + peerHost(r)
			}

			ok, retry, err := limiter.Allow(r.Context(), "rl:"+scope+":"+who, limit, window)
			if err != nil {
				log.Printf("rate limiter error (allowing request): %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				respond.Msg(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
