// Package auth authenticates requests with HMAC-signed JWTs and enforces the
// user/admin gates and the company ownership of tenants and buildings.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type contextKey string

const (
	userContextKey contextKey = "user"
)

// OwnershipChecker answers company ownership questions.
type OwnershipChecker interface {
	TenantBelongsToCompany(ctx context.Context, kind models.Kind, id, companyID uint) (bool, error)
	BuildingBelongsToCompany(ctx context.Context, id, companyID uint) (bool, error)
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, userContextKey, p)
}

// PrincipalFrom returns the authenticated caller stored by Authenticate.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(userContextKey).(models.Principal)
	return p, ok
}

type Middleware struct {
	jwtSecret string
	checker   OwnershipChecker
	logger    *zap.Logger
}

func NewMiddleware(jwtSecret string, checker OwnershipChecker, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtSecret: jwtSecret,
		checker:   checker,
		logger:    logger.Named("auth"),
	}
}

// Authenticate is the "authenticated user" gate.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Authentification requise")
			return
		}

		claims, err := validateToken(tokenString, m.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Jeton invalide")
			return
		}
		principal, err := principalFromClaims(claims)
		if err != nil {
			m.logger.Warn("Rejected token", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "Jeton invalide")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin is the "authenticated admin" gate. It runs after Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentification requise")
			return
		}
		if !p.IsAdmin() {
			writeError(w, http.StatusForbidden, "Droits administrateur requis")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireTenant checks that the {qualite}/{id} tenant of the route belongs to
// the caller's company.
func (m *Middleware) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentification requise")
			return
		}
		vars := mux.Vars(r)
		kind, err := models.ParseKind(vars["qualite"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Qualité invalide")
			return
		}
		id, err := parseID(vars["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Identifiant invalide")
			return
		}

		owned, err := m.checker.TenantBelongsToCompany(r.Context(), kind, id, p.CompanyID)
		if err != nil {
			m.logger.Error("Ownership check failed",
				zap.Error(err),
				zap.String("qualite", kind.String()),
				zap.Uint("tenant_id", id),
			)
			writeError(w, http.StatusInternalServerError, "Erreur interne du serveur")
			return
		}
		if !owned {
			writeError(w, http.StatusForbidden, "Accès refusé")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireBuilding checks the batiment_id query parameter. A missing parameter
// is left to the handler, which reports it as invalid input.
func (m *Middleware) RequireBuilding(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentification requise")
			return
		}
		raw := r.URL.Query().Get("batiment_id")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := parseID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Identifiant de bâtiment invalide")
			return
		}

		owned, err := m.checker.BuildingBelongsToCompany(r.Context(), id, p.CompanyID)
		if err != nil {
			m.logger.Error("Ownership check failed", zap.Error(err), zap.Uint("batiment_id", id))
			writeError(w, http.StatusInternalServerError, "Erreur interne du serveur")
			return
		}
		if !owned {
			writeError(w, http.StatusForbidden, "Accès refusé")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format: missing Bearer prefix")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format: empty token")
	}
	return tokenString, nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
