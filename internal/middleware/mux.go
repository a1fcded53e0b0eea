package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rr := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rr, r)

		duration := time.Since(start)

		logger.Info("%s %s %d %s", r.Method, r.RequestURI, rr.statusCode, duration)
	})
}

// * RecoverMiddleware turns a panicking handler into a 500 with an error reference
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rr := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}

			appErr := errors.New(
				"INTERNAL_ERROR",
				"Internal server error",
				fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				fmt.Errorf("panic: %v", p),
				errors.LevelFatal,
			)
			if rr.written {
				logger.Error("%v", appErr)
				return
			}
			errors.WriteHTTPError(rr, appErr)
		}()

		next.ServeHTTP(rr, r)
	})
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.statusCode = code
	rr.written = true
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.written = true
	return rr.ResponseWriter.Write(b)
}
