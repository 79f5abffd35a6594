package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/devix-tecnologia/go-inframe/frames"
	inframes "github.com/devix-tecnologia/go-inframe/internal/frames"
	"github.com/devix-tecnologia/go-inframe/resolver"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Issues  []string `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var notFound *inframes.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: notFound.Error(),
		}
	}

	var securityErr *resolver.SecurityError
	if errors.As(err, &securityErr) {
		return http.StatusBadRequest, errorResponse{
			Error:   "security_error",
			Message: securityErr.Error(),
			Issues:  securityErr.Errors,
		}
	}

	if errors.Is(err, frames.ErrFrameExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, frames.ErrFeatureDisabled) {
		return http.StatusNotImplemented, errorResponse{
			Error:   "feature_disabled",
			Message: err.Error(),
		}
	}

	if errors.Is(err, frames.ErrFrameIDRequired) ||
		errors.Is(err, frames.ErrFrameURLRequired) ||
		errors.Is(err, frames.ErrFrameURLInvalid) ||
		errors.Is(err, frames.ErrFrameSlugRequired) ||
		errors.Is(err, frames.ErrFrameSlugInvalid) ||
		errors.Is(err, frames.ErrFrameStatusInvalid) ||
		errors.Is(err, frames.ErrFrameSortInvalid) ||
		errors.Is(err, frames.ErrFrameLoadingInvalid) ||
		errors.Is(err, frames.ErrFrameReferrerInvalid) ||
		errors.Is(err, frames.ErrTranslationLocaleRequired) ||
		errors.Is(err, frames.ErrTranslationTitleRequired) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}
