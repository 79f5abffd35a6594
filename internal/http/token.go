package http

import (
	"net/http"
)

// registerTokenRoutes exposes the session token to clients that cannot read
// the host's HTTP-only session cookie. The endpoint echoes back the token
// derived from the caller's own authenticated session, never anyone else's.
func (api *API) registerTokenRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+joinPath(base, "token"), api.handleToken)
}

func (api *API) handleToken(w http.ResponseWriter, r *http.Request) {
	acc, err := api.accountability(r)
	if err != nil {
		api.logger.Error("resolving accountability failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: "could not resolve session",
		})
		return
	}
	if acc == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}
	if acc.Token == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: "no token available for this session",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"access_token": acc.Token,
	}})
}
