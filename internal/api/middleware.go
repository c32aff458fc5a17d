package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/metrics"
	"github.com/vytor/skillswap/internal/session"
	"github.com/vytor/skillswap/internal/telemetry"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// generateRequestID creates a random request ID.
func generateRequestID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		r = r.WithContext(logger.NewContext(r.Context(), log))
		w.Header().Set("X-Request-ID", requestID)
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		metrics.ObserveHTTP(route, r.Method, wrapped.status, duration)

		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": duration.Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics, reports them and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				telemetry.Capture(r.Context(), fmt.Errorf("panic: %v", rec))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// timeoutMiddleware wraps a handler with a timeout.
func timeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Request timeout")
	}
}

// sessionMiddleware resolves the visitor's session, refreshing and
// rewriting the auth cookies when needed, and stores the per-request
// session client and session in the context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)
		client := s.newSessionClient(w, r)

		sess, err := client.GetSession(ctx)
		if err != nil {
			metrics.SessionEvents.WithLabelValues("refresh_failed").Inc()
			log.Warn("session check failed, continuing signed out: %v", err)
		}
		if sess != nil {
			log = log.WithField("user_id", sess.User.ID.String())
			ctx = logger.NewContext(ctx, log)
		}

		ctx = session.NewContext(ctx, client)
		ctx = session.WithSession(ctx, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// gateMiddleware decides per request whether protected content, a loading
// placeholder or a sign-in prompt is rendered.
func (s *Server) gateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		gate := session.NewGate()
		defer gate.Close()

		if client := session.ClientFromContext(ctx); client != nil {
			gate.Watch(client.Events())
			gate.Resolve(session.FromContext(ctx) != nil)
		}

		mode := gate.Mode(r.URL.Path)
		logger.FromContext(ctx).Debug("gate mode: %s", mode)

		switch mode {
		case session.ModeChildren:
			next.ServeHTTP(w, r)
		case session.ModeLoading:
			s.render(w, r, http.StatusOK, "pages/loading.html", pageData{"refresh": 1})
		default:
			s.render(w, r, http.StatusOK, "pages/sign_in_prompt.html", pageData{
				"title":       "Sign in • SkillSwap",
				"sign_in_url": signInURL(r.URL.RequestURI(), ""),
			})
		}
	})
}
