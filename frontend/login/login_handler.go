package login

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dentastock/frontend/shared/respond"
	"dentastock/infrastructure/cache"
	sessioncookie "dentastock/infrastructure/session"
	"dentastock/infrastructure/sqlite"
	"dentastock/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// CreateLoginHandler authenticates the user and issues a session cookie.
func CreateLoginHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}
		email := strings.TrimSpace(req.Email)
		password := strings.TrimSpace(req.Password)
		if email == "" || password == "" {
			respond.Error(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := authenticateUser(r.Context(), db, email, password)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respond.Error(w, http.StatusUnauthorized, "invalid email or password")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "authentication failed")
			return
		}

		session := newSession(user)
		if err := persistSession(r.Context(), db, session); err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to create session")
			return
		}

		sessionCache.AddSession(session)
		userCache.Add(user.Email, user)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, 12*60*60))
		respond.JSON(w, http.StatusOK, loginResponse{Email: user.Email, Name: user.Name, Role: user.Role})
	}
}

// SignupHandler registers a clinic account and logs it straight in.
func SignupHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SignupInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid body")
			return
		}

		user, err := createUser(r.Context(), db, input)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		session := newSession(user)
		if err := persistSession(r.Context(), db, session); err != nil {
			respond.Error(w, http.StatusInternalServerError, "failed to create session")
			return
		}

		sessionCache.AddSession(session)
		userCache.Add(user.Email, user)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, 12*60*60))
		respond.JSON(w, http.StatusCreated, loginResponse{Email: user.Email, Name: user.Name, Role: user.Role})
	}
}

// LogoutHandler removes session state and clears the cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			_ = DeleteSessionByToken(r.Context(), db, cookie.Value)
		}
		http.SetCookie(w, sessioncookie.SessionCookie("", -1))
		respond.JSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
	}
}

func newSession(user models.User) models.Session {
	return models.Session{
		ID:        newSessionToken(),
		UserID:    user.ID,
		User:      user,
		UserRoles: []string{user.Role},
		ExpiresAt: sessioncookie.DefaultExpiry(),
	}
}
