package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	loginflow "dentastock/frontend/login"
	sessioncontext "dentastock/frontend/shared/context"
	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/cache"
	"dentastock/infrastructure/rbac"
	sessioncookie "dentastock/infrastructure/session"
	"dentastock/infrastructure/sqlite"
	"dentastock/models"
)

var ShutdownTimeout = 2 * time.Second

// Server bundles dependencies and route wiring.
type Server struct {
	Addr    string
	BaseURL string
	ln      net.Listener
	server  *http.Server
	router  *chi.Mux

	DB           *sqlite.DB
	SessionCache *cache.UserSessionCache
	UserCache    *cache.UserCache
	RbacCache    *cache.RbacRolesCache
	Rbac         *rbac.Rbac
	Audit        *audit.Service
}

// NewServer creates a new http server.
func NewServer(addr, baseURL string, db *sqlite.DB, sessionCache *cache.UserSessionCache, userCache *cache.UserCache, r *rbac.Rbac, rbacCache *cache.RbacRolesCache, auditSvc *audit.Service) *Server {
	s := &Server{
		Addr:         addr,
		BaseURL:      baseURL,
		router:       chi.NewRouter(),
		DB:           db,
		SessionCache: sessionCache,
		UserCache:    userCache,
		RbacCache:    rbacCache,
		Rbac:         r,
		Audit:        auditSvc,
		server: &http.Server{
			MaxHeaderBytes: 1 << 20,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"service": "dentastock"})
	})

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.RegisterLoginRoutes()

	s.router.Group(func(r chi.Router) {
		r.Route("/app", func(r chi.Router) {
			r.Use(s.AuthenticateMiddleware)
			s.RegisterFrontendRoutes(r)
			s.RegisterAdminRoutes(r)
		})
	})

	s.server.Handler = s.router
	return s
}

// AuthenticateMiddleware loads the session and applies RBAC checks.
func (s *Server) AuthenticateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionCookie, err := r.Cookie(sessioncookie.CookieName)
		if err != nil || sessionCookie.Value == "" {
			respond.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		sessionToken := sessionCookie.Value
		session, ok := s.resolveSession(r.Context(), sessionToken)
		if !ok {
			slog.Warn("session not found", slog.String("method", r.Method), slog.String("path", r.URL.Path))
			respond.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		if session.Expired() {
			http.SetCookie(w, sessioncookie.SessionCookie("", -1))
			s.SessionCache.DeleteSessionBySessionToken(sessionToken)
			if err := loginflow.DeleteSessionByToken(r.Context(), s.DB, sessionToken); err != nil {
				slog.Error("cannot delete session from DB", slog.String("session_id", sessionToken), slog.Any("err", err))
			}
			respond.Error(w, http.StatusUnauthorized, "session expired")
			return
		}

		isAdmin := false
		for _, role := range session.UserRoles {
			if role == rbac.RoleAdmin {
				isAdmin = true
				break
			}
		}

		if isAdmin {
			session.ScreenPermissions = s.RbacCache.GetAllRouteNames()
		} else {
			if session.ScreenPermissions == nil {
				session.ScreenPermissions = s.buildRbacNamedRoutesMap(session.UserRoles)
				if session.ScreenPermissions == nil {
					session.ScreenPermissions = make(map[string]int)
				}
			}
			if !s.RbacValidation(session.UserRoles, r.URL.Path, r.Method) {
				respond.Error(w, http.StatusForbidden, "access denied")
				return
			}
		}

		ctx := sessioncontext.NewContextWithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) resolveSession(ctx context.Context, token string) (session models.Session, ok bool) {
	if cached, found := s.SessionCache.FindSessionBySessionToken(token); found {
		return cached, true
	}

	dbSession, err := loginflow.LoadSessionByToken(ctx, s.DB, token)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("load session from db failed", slog.String("session_id", token), slog.Any("err", err))
		}
		return session, false
	}

	s.SessionCache.AddSession(dbSession)
	s.UserCache.Add(dbSession.User.Email, dbSession.User)
	return dbSession, true
}

func (s *Server) buildRbacNamedRoutesMap(userRoles []string) map[string]int {
	perms := make(map[string]int)
	resources := s.RbacCache.GetRolesAndResources(userRoles)
	if len(resources) == 0 {
		return nil
	}
	for _, res := range resources {
		perms[res.UserResourceCode] = 1
	}
	return perms
}

func (s *Server) RbacValidation(userRoles []string, url, method string) bool {
	if len(userRoles) == 0 {
		return false
	}
	resources := s.RbacCache.GetRolesAndResources(userRoles)
	if len(resources) == 0 {
		return false
	}
	return rbac.ValidateResourceAccess(resources, url, method)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
