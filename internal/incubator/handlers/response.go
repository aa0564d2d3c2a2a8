package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gartstein/incubator/internal/incubator/auth"
	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const internalErrorMessage = "Erreur interne du serveur"

type messageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, messageResponse{Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Requête invalide"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s est obligatoire", fe.Field()))
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s doit respecter le format %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s invalide (%s)", fe.Field(), fe.Tag()))
		}
	}
	return "Requête invalide : " + strings.Join(parts, ", ")
}

// decode reads a JSON body into dst and validates it. On failure the response
// is already written.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeBody(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Corps de requête JSON invalide")
		return false
	}
	return h.check(w, dst)
}

func decodeBody(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handler) check(w http.ResponseWriter, dst interface{}) bool {
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, formatValidationErrors(err))
		return false
	}
	return true
}

// mapServiceError maps domain errors to HTTP statuses. Anything outside the
// taxonomy is logged and reported as a generic 500.
func (h *Handler) mapServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, e.ErrOverlap):
		writeError(w, http.StatusBadRequest, "Chevauchement de formule : "+detail(err))
	case errors.Is(err, e.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Requête invalide : "+detail(err))
	case errors.Is(err, e.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Authentification requise")
	case errors.Is(err, e.ErrForbidden):
		writeError(w, http.StatusForbidden, "Accès refusé")
	case errors.Is(err, e.ErrNotFound):
		writeError(w, http.StatusNotFound, "Ressource introuvable : "+detail(err))
	case errors.Is(err, e.ErrConflict):
		writeError(w, http.StatusConflict, "Conflit : "+detail(err))
	default:
		h.logger.Error("Internal server error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

// detail strips the sentinel prefixes from a domain error message.
func detail(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{e.ErrOverlap, e.ErrInvalidInput, e.ErrNotFound, e.ErrConflict} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}

func principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentification requise")
	}
	return p, ok
}

func parseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid identifier %q", e.ErrInvalidInput, s)
	}
	return uint(v), nil
}

// tenantPath reads the {qualite}/{id} pair of a tenant route.
func tenantPath(r *http.Request) (models.Kind, uint, error) {
	vars := mux.Vars(r)
	kind, err := models.ParseKind(vars["qualite"])
	if err != nil {
		return "", 0, err
	}
	id, err := parseUint(vars["id"])
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func pathUint(r *http.Request, name string) (uint, error) {
	return parseUint(mux.Vars(r)[name])
}

func pathYear(r *http.Request) (int, error) {
	raw := mux.Vars(r)["year"]
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid year %q", e.ErrInvalidInput, raw)
	}
	return year, nil
}
