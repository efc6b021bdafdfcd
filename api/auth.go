/*
auth.go - Login endpoint and bearer-token middleware

PURPOSE:
  Issues HS256-signed JWTs against bcrypt password hashes stored in the
  users table, and guards the /api/v1 surface with a bearer check.

TOKEN SHAPE:
  Registered claims only plus the user's role. Subject is the user ID,
  expiry is 12 hours. No refresh tokens; clients log in again.

DEV MODE:
  An empty JWT secret disables the middleware entirely. The server logs a
  warning at startup; handler tests run in this mode.

SEE ALSO:
  - store/store.go: the User record
  - server.go: where the middleware is mounted
*/
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/novarix/planning-engine/store"
)

const tokenLifetime = 12 * time.Hour

// authClaims is the JWT payload for API logins.
type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login verifies credentials and returns a signed bearer token.
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			// Same response as a wrong password; no account probing.
			writeError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load user", err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	now := time.Now()
	claims := authClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.JWTSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to sign token", err)
		return
	}

	h.Log.WithField("user", user.ID).Info("login")
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Name: user.Name, Role: user.Role})
}

// RequireAuth rejects requests without a valid bearer token. With an empty
// secret it passes everything through.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.JWTSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(h.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
