package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-chatnest/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched route
// template, so /api/chats/1 and /api/chats/2 share a series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := newResponseWriter(w)

		next.ServeHTTP(wrapper, r)

		route := routeTemplate(r)
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(wrapper.statusCode)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
