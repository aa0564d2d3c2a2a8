package auth

import (
	"fmt"
	"time"

	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "auth-service"

// GenerateToken signs a token carrying the principal's user, company and role.
func GenerateToken(p models.Principal, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        p.UserID,
		"company_id": p.CompanyID,
		"role":       string(p.Role),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"iss":        issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// validateToken checks the token signature and returns parsed claims if valid.
func validateToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}

// principalFromClaims requires sub and company_id. A missing role means user.
func principalFromClaims(claims jwt.MapClaims) (models.Principal, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return models.Principal{}, fmt.Errorf("missing subject")
	}
	company, ok := claims["company_id"].(float64)
	if !ok || company <= 0 {
		return models.Principal{}, fmt.Errorf("missing company_id")
	}
	role := models.RoleUser
	if r, _ := claims["role"].(string); r == string(models.RoleAdmin) {
		role = models.RoleAdmin
	}
	return models.Principal{UserID: sub, CompanyID: uint(company), Role: role}, nil
}
