package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akinalp/studytrack/models"
	"github.com/akinalp/studytrack/pkg"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
	return false
}

// writeError maps err to a response and logs anything that becomes a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if pkg.StatusOf(err) == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	pkg.Error(w, err)
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (*models.Identity, bool) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return identity, true
}

// clientInfo describes the device behind a request for the session list.
func clientInfo(r *http.Request, trustProxy bool) models.ClientInfo {
	return models.ClientInfo{
		UserAgent: r.UserAgent(),
		IP:        ExtractIP(r, trustProxy),
	}
}

// ExtractIP returns the client address. Proxy headers are consulted only
// when trustProxy is set; otherwise the TCP peer is used.
//
// X-Forwarded-For may hold "client, proxy1, proxy2"; the first entry is the
// client.
func ExtractIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
