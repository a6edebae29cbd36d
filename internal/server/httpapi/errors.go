package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/server/resources"
)

// detail is the error body DRF uses for non-field errors.
type detail struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

const (
	codeTokenNotValid     = "token_not_valid"
	codeNotAuthenticated  = "not_authenticated"
	msgNoCredentials      = "Authentication credentials were not provided."
	msgTokenNotValid      = "Given token not valid for any token type"
	msgRefreshNotValid    = "Token is invalid or expired"
	msgRefreshBlacklisted = "Token is blacklisted"
	msgLoginFailed        = "No active account found with the given credentials"
	msgNotFound           = "No record matches the given query."
	msgInvalidPage        = "Invalid page."
)

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeDetail(w http.ResponseWriter, status int, msg, code string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	writeJSON(w, status, detail{Detail: msg, Code: code})
}

// writeError maps service errors onto DRF-style responses.
func writeError(w http.ResponseWriter, err error) {
	var verr resources.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr)
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, msgNotFound, "")
	case errors.Is(err, resources.ErrInvalidPage):
		writeDetail(w, http.StatusNotFound, msgInvalidPage, "")
	case errors.Is(err, common.ErrorUnauthorized):
		writeDetail(w, http.StatusUnauthorized, msgLoginFailed, "no_active_account")
	case errors.Is(err, common.ErrRefreshTokenRevoked):
		writeDetail(w, http.StatusUnauthorized, msgRefreshBlacklisted, codeTokenNotValid)
	case errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		writeDetail(w, http.StatusUnauthorized, msgRefreshNotValid, codeTokenNotValid)
	default:
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.", "")
	}
}
