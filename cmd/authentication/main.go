// This is a **mock authentication service**, designed to provide JWT tokens
// for the incubator service, simulating user authentication.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gartstein/incubator/internal/incubator/auth"
	"github.com/gartstein/incubator/internal/incubator/models"
)

const (
	defaultPort    = "8081"       // Default port for the authentication service
	defaultSecret  = "jwt_secret" // Secret for signing JWT
	defaultCompany = 1
	tokenTTL       = 24 * time.Hour
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

// tokenHandler generates a JWT for the requested company and role.
// GET /token?user=alice&company_id=3&role=admin
func tokenHandler(w http.ResponseWriter, r *http.Request) {
	secret := getenv("JWT_SECRET", defaultSecret)

	q := r.URL.Query()
	companyID := uint64(defaultCompany)
	if raw := q.Get("company_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			http.Error(w, "Invalid company_id", http.StatusBadRequest)
			return
		}
		companyID = id
	}
	role := models.RoleUser
	if q.Get("role") == string(models.RoleAdmin) {
		role = models.RoleAdmin
	}
	userID := q.Get("user")
	if userID == "" {
		// Simulate a user ID for the token
		userID = "12345"
	}

	token, err := auth.GenerateToken(models.Principal{
		UserID:    userID,
		CompanyID: uint(companyID),
		Role:      role,
	}, secret, tokenTTL)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TokenResponse{Token: token}); err != nil {
		http.Error(w, "Failed to encode token", http.StatusInternalServerError)
	}
}

func main() {
	port := getenv("AUTH_PORT", defaultPort)
	http.HandleFunc("/token", tokenHandler)

	log.Printf("Authentication service running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
