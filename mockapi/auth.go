package mockapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"sicksense-cli/model"
)

type ctxKey int

const identityKey ctxKey = iota

type identity struct {
	UserID string
	Email  string
	Role   model.Role
}

func identityFrom(ctx context.Context) (identity, bool) {
	id, ok := ctx.Value(identityKey).(identity)
	return id, ok
}

func (s *Server) issueToken(u model.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  string(u.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// authenticate validates the bearer token and stores the caller's identity in
// the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		claims := jwt.MapClaims{}
		tok, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		})
		if err != nil || !tok.Valid {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		sub, _ := claims.GetSubject()
		role, _ := claims["role"].(string)
		email, _ := claims["email"].(string)
		if sub == "" || !model.Role(role).Valid() {
			writeError(w, http.StatusUnauthorized, "invalid claims")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity{UserID: sub, Email: email, Role: model.Role(role)})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identityFrom(r.Context())
			if !ok || id.Role != role {
				writeError(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	user, ok := s.users[email]
	hash, registered := s.passwords[email]
	s.mu.Unlock()
	// fixture users have no stored hash and accept any password
	if registered && !verifyPassword(hash, req.Password) {
		ok = false
	}
	if !ok || user.Role != req.Role {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.respondWithToken(w, http.StatusOK, user)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		writeError(w, http.StatusBadRequest, "full name, email and password are required")
		return
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password", "err", err)
		writeError(w, http.StatusInternalServerError, "could not register account")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	user := model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Role:     req.Role,
		FullName: strings.TrimSpace(req.FullName),
	}
	s.users[email] = user
	s.passwords[email] = hash
	s.mu.Unlock()

	s.logger.Info("user signed up", "id", user.ID, "role", user.Role)
	s.respondWithToken(w, http.StatusCreated, user)
}

func (s *Server) respondWithToken(w http.ResponseWriter, status int, user model.User) {
	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("sign token", "err", err)
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, status, model.AuthResponse{User: user, Token: token})
}

func hashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func verifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
