package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/config"
	"github.com/tripspend/tripspend/internal/rest"
	"github.com/tripspend/tripspend/pkg/expense"
	"github.com/tripspend/tripspend/pkg/session"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(requestLogging)
	r.Use(sessionMiddleware(deps, cfg))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		log.WithFields(log.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request handled")
	})
}

// sessionMiddleware loads the browser session from its cookie into the context, creating one
// for page requests that carry none. A signed-in session also puts its gist client in the
// context as the expense store.
func sessionMiddleware(deps *Dependencies, cfg config.Application) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			path := req.URL.Path
			if path == "/metrics" || path == "/healthz" || strings.HasPrefix(path, "/static/") {
				next.ServeHTTP(w, req)
				return
			}

			var state *session.State
			if cookie, err := req.Cookie(cfg.Session.CookieName); err == nil {
				state, _ = deps.Sessions.Get(cookie.Value)
			}
			if state == nil && !strings.HasPrefix(path, "/api/") {
				state = deps.Sessions.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.Session.CookieName,
					Value:    state.Id(),
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Session.SecureCookie,
					SameSite: http.SameSiteLaxMode,
				})
				log.Debugf("new session %s", state.Id())
			}

			ctx := req.Context()
			if state != nil {
				ctx = session.WithState(ctx, state)
				if client := state.Client(); client != nil {
					ctx = expense.WithStore(ctx, client)
				}
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// apiAuthentication lets API calls authenticate with "Authorization: Bearer <token>" instead
// of a signed-in session. The token is verified on every call and never kept.
func apiAuthentication(deps *Dependencies) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			header := req.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				client, err := deps.Authenticator.Authenticate(ctx, token)
				if err != nil {
					log.Debugf("API authentication failed: %v", err)
					rest.WriteError(w, http.StatusUnauthorized, rest.ErrorResponse{
						Error:   "Authentication failed",
						Details: err.Error(),
					})
					return
				}
				ctx = expense.WithStore(ctx, client)
			} else if _, err := expense.CurrentStore(ctx); err != nil {
				rest.WriteError(w, http.StatusUnauthorized, rest.ErrorResponse{
					Error:   "Not authenticated",
					Details: "sign in or send an Authorization: Bearer header",
				})
				return
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
