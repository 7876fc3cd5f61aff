package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bpkad-transparency/backend/internal/auth"
	"bpkad-transparency/backend/internal/store"

	"github.com/sirupsen/logrus"
)

type contextKey string

const ctxClaims contextKey = "claims"

func claimsFromContext(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(ctxClaims).(*auth.Claims)
	return c
}

// requireAuth gates a handler behind a bearer token. A missing token is 401;
// a malformed, tampered or expired one is 403. The caller never learns which.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := ""
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxClaims, claims)
		next(w, r.WithContext(ctx))
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginData struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Username dan password harus diisi")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username dan password harus diisi")
		return
	}

	admin, err := s.store.GetAdminByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			loginsTotal.WithLabelValues("unknown_user").Inc()
			writeError(w, http.StatusUnauthorized, "Username tidak ditemukan")
			return
		}
		s.log.WithError(err).Error("login: admin lookup failed")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	ok, upgraded := auth.ParseCredential(admin.Password).Verify(req.Password)
	if !ok {
		loginsTotal.WithLabelValues("wrong_password").Inc()
		writeError(w, http.StatusUnauthorized, "Password salah")
		return
	}

	// Migration-on-login: replace the legacy plaintext row with the bcrypt
	// hash. A failed write is logged and the login still succeeds.
	if upgraded != "" {
		if err := s.store.UpdateAdminPassword(r.Context(), admin.IDAdmin, upgraded); err != nil {
			s.log.WithFields(logrus.Fields{
				"id_admin": admin.IDAdmin,
			}).WithError(err).Error("login: password migration write failed")
		} else {
			passwordMigrationsTotal.Inc()
		}
	}

	token, err := s.tokens.Issue(admin.IDAdmin, admin.Username, admin.Role)
	if err != nil {
		s.log.WithError(err).Error("login: token issuance failed")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	loginsTotal.WithLabelValues("success").Inc()
	writeMessage(w, http.StatusOK, "Login successful", loginData{
		User:  admin.Public(),
		Token: token,
	})
}

func (s *Server) handleAuthVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	claims := claimsFromContext(r.Context())

	// The token's embedded username/role may be stale; the store is the
	// current truth.
	admin, err := s.store.GetAdminByID(r.Context(), claims.IDAdmin)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.log.WithError(err).Error("verify: admin lookup failed")
		writeError(w, http.StatusInternalServerError, "Token verification failed")
		return
	}

	writeData(w, http.StatusOK, map[string]any{"user": admin.Public()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Stateless acknowledgment. Tokens stay valid until their embedded
	// expiry; discarding the token is the client's job.
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Logout successful"})
}
