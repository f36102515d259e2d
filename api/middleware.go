package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"receipt-processor/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

type ctxKey struct{}

// requestID tags every request with an ID, reusing one supplied by the client.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func accessLog(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := metrics.NewStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(rec, r)

			log.WithFields(logrus.Fields{
				"request_id": requestIDFrom(r.Context()),
				"method":     r.Method,
				"path":       metrics.RoutePath(r),
				"status":     rec.Status(),
				"duration":   time.Since(start).String(),
			}).Info("request handled")
		})
	}
}
