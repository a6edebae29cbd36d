package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/server/resources"
	"github.com/dmitrijs2005/propkeeper/internal/server/users"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// Handlers aggregates the services the endpoints delegate to.
type Handlers struct {
	users     *users.Service
	resources *resources.Service
	logger    logging.Logger
	version   string
}

func NewHandlers(us *users.Service, rs *resources.Service, logger logging.Logger) *Handlers {
	return &Handlers{users: us, resources: rs, logger: logger, version: "1.0.0"}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type pageResponse struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []resources.Record `json:"results"`
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeParseError(w http.ResponseWriter, err error) {
	writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error(), "parse_error")
}

// ObtainToken handles POST /api/token/.
func (h *Handlers) ObtainToken(w http.ResponseWriter, r *http.Request) {
	var in tokenRequest
	if err := decodeBody(r, &in); err != nil {
		writeParseError(w, err)
		return
	}

	verr := resources.ValidationError{}
	if in.Username == "" {
		verr["username"] = []string{"This field is required."}
	}
	if in.Password == "" {
		verr["password"] = []string{"This field is required."}
	}
	if len(verr) > 0 {
		writeJSON(w, http.StatusBadRequest, verr)
		return
	}

	pair, err := h.users.Login(r.Context(), in.Username, []byte(in.Password))
	if err != nil {
		h.logger.Info(r.Context(), "login failed", "user", logging.RedactUsername(in.Username))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken})
}

// RefreshToken handles POST /api/token/refresh/ with rotation.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeBody(r, &in); err != nil {
		writeParseError(w, err)
		return
	}
	if in.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, resources.ValidationError{"refresh": {"This field is required."}})
		return
	}

	pair, err := h.users.RefreshToken(r.Context(), in.Refresh)
	if err != nil {
		h.logger.Info(r.Context(), "refresh rejected", "reason", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken})
}

// Logout handles POST /api/users/logout/. The refresh token is blacklisted
// when valid; the response is 200 either way.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var in logoutRequest
	if err := decodeBody(r, &in); err != nil {
		writeParseError(w, err)
		return
	}

	msg := "Successfully logged out"
	if in.RefreshToken != "" {
		if err := h.users.Logout(r.Context(), in.RefreshToken); err != nil {
			msg = "Token already blacklisted or invalid"
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// Health handles GET /health/.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     h.version,
		"environment": "development",
	})
}

func (h *Handlers) list(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeDetail(w, http.StatusNotFound, msgInvalidPage, "")
				return
			}
			page = n
		}

		p, err := h.resources.List(r.Context(), userIDFromContext(r.Context()), collection, page)
		if err != nil {
			writeError(w, err)
			return
		}

		out := pageResponse{Count: p.Count, Results: p.Results}
		if p.HasNext {
			out.Next = pageURL(r, p.Number+1)
		}
		if p.HasPrevious {
			out.Previous = pageURL(r, p.Number-1)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *Handlers) get(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		rec, err := h.resources.Get(r.Context(), userIDFromContext(r.Context()), collection, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (h *Handlers) create(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := decodeBody(r, &body); err != nil {
			writeParseError(w, err)
			return
		}
		rec, err := h.resources.Create(r.Context(), userIDFromContext(r.Context()), collection, body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

func (h *Handlers) delete(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if err := h.resources.Delete(r.Context(), userIDFromContext(r.Context()), collection, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgNotFound, "")
		return 0, false
	}
	return id, true
}

// pageURL builds the absolute link of page n, dropping the parameter for
// the first page like DRF does.
func pageURL(r *http.Request, n int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	q := r.URL.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}
