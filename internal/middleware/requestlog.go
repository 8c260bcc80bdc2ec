package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"memoir/backend/pkg/clientip"
)

// RequestIDHeader carries the per-request identifier back to the client.
const RequestIDHeader = "X-Request-ID"

// RequestLog tags every request with a UUID and logs method, path, status
// and duration once the handler returns.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set(RequestIDHeader, reqID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)

		log.Printf("[%s] %s %s %d %s ip=%s", reqID, r.Method, r.URL.Path, sw.status, time.Since(start), clientip.RealClientIP(r))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
