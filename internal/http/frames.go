package http

import (
	"net/http"
	neturl "net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/devix-tecnologia/go-inframe/frames"
)

func (api *API) registerFrameRoutes(mux *http.ServeMux, base string) {
	if api.frames == nil {
		return
	}
	root := joinPath(base, "frames")

	mux.HandleFunc("GET "+root, api.handleFrameList)
	mux.HandleFunc("POST "+root, api.handleFrameCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handleFrameGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleFrameUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleFrameDelete)
	mux.HandleFunc("PUT "+root+"/{id}/translations/{locale}", api.handleFrameTranslation)
	if api.resolver != nil {
		mux.HandleFunc("GET "+root+"/{id}/resolve", api.handleFrameResolve)
	}
}

type frameResponse struct {
	*frames.Frame
	Title      string                  `json:"title"`
	Attributes frames.IframeAttributes `json:"attributes"`
}

func (api *API) frameResponse(frame *frames.Frame, locale string) frameResponse {
	return frameResponse{
		Frame:      frame,
		Title:      api.frames.DisplayTitle(frame, locale),
		Attributes: frames.BuildIframeAttributes(frame),
	}
}

func (api *API) requestLocale(r *http.Request) string {
	if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
		return locale
	}
	return api.defaultLocale
}

func (api *API) handleFrameList(w http.ResponseWriter, r *http.Request) {
	locale := api.requestLocale(r)
	records, err := api.frames.List(r.Context(), frames.ListOptions{
		Locale: locale,
		Status: frames.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]frameResponse, 0, len(records))
	for _, record := range records {
		payload = append(payload, api.frameResponse(record, locale))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": payload})
}

func (api *API) handleFrameGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid frame id"})
		return
	}

	record, err := api.frames.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": api.frameResponse(record, api.requestLocale(r))})
}

func (api *API) handleFrameResolve(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid frame id"})
		return
	}

	record, err := api.frames.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	src, err := api.resolver.ProcessURL(r.Context(), record.URL)
	if err != nil {
		api.logger.Warn("frame url rejected", "frame", record.Slug, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"src":        src,
		"attributes": frames.BuildIframeAttributes(record),
	}})
}

type translationPayload struct {
	LocaleCode string `json:"locale_code"`
	Title      string `json:"title"`
}

type framePayload struct {
	Slug            string                  `json:"slug"`
	URL             string                  `json:"url"`
	Status          string                  `json:"status"`
	Sort            int                     `json:"sort"`
	Icon            *string                 `json:"icon"`
	Thumbnail       *string                 `json:"thumbnail"`
	SandboxTokens   []string                `json:"sandbox_tokens"`
	AllowDirectives []string                `json:"allow_directives"`
	Loading         *string                 `json:"loading"`
	ReferrerPolicy  *string                 `json:"referrerpolicy"`
	AllowFullscreen *bool                   `json:"allowfullscreen"`
	Credentialless  *bool                   `json:"credentialless"`
	FrameName       *string                 `json:"iframe_name"`
	FrameTitle      *string                 `json:"iframe_title"`
	CSP             *string                 `json:"csp"`
	Preset          string                  `json:"preset"`
	Translations    []translationPayload    `json:"translations"`
}

// Validate checks the request shape before it reaches the service layer.
func (p framePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Slug, validation.Required),
		validation.Field(&p.URL, validation.Required, validation.By(func(value any) error {
			raw := strings.TrimSpace(value.(string))
			parsed, err := neturl.Parse(raw)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
				return validation.NewError("inframe.frames.url_invalid", "url must be absolute http(s)")
			}
			return nil
		})),
	)
}

func (p framePayload) toCreateInput() frames.CreateFrameInput {
	input := frames.CreateFrameInput{
		Slug:            p.Slug,
		URL:             p.URL,
		Status:          frames.Status(p.Status),
		Sort:            p.Sort,
		Icon:            p.Icon,
		Thumbnail:       p.Thumbnail,
		SandboxTokens:   p.SandboxTokens,
		AllowDirectives: p.AllowDirectives,
		AllowFullscreen: p.AllowFullscreen,
		Credentialless:  p.Credentialless,
		FrameName:       p.FrameName,
		FrameTitle:      p.FrameTitle,
		CSP:             p.CSP,
	}
	if p.Loading != nil {
		loading := frames.LoadingMode(*p.Loading)
		input.Loading = &loading
	}
	if p.ReferrerPolicy != nil {
		policy := frames.ReferrerPolicy(*p.ReferrerPolicy)
		input.ReferrerPolicy = &policy
	}
	if preset := strings.TrimSpace(p.Preset); preset != "" && len(p.SandboxTokens) == 0 && len(p.AllowDirectives) == 0 {
		applied := frames.ApplyPreset(preset)
		input.SandboxTokens = frames.ParseSandboxTokens(applied.Sandbox)
		input.AllowDirectives = frames.ParseAllowDirectives(applied.Allow)
	}
	for _, tr := range p.Translations {
		input.Translations = append(input.Translations, frames.TranslationInput{
			LocaleCode: tr.LocaleCode,
			Title:      tr.Title,
		})
	}
	return input
}

func (api *API) handleFrameCreate(w http.ResponseWriter, r *http.Request) {
	var payload framePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON payload"})
		return
	}
	if err := payload.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	created, err := api.frames.Create(r.Context(), payload.toCreateInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": api.frameResponse(created, api.requestLocale(r))})
}

type frameUpdatePayload struct {
	URL             *string  `json:"url"`
	Status          *string  `json:"status"`
	Sort            *int     `json:"sort"`
	Icon            *string  `json:"icon"`
	Thumbnail       *string  `json:"thumbnail"`
	SandboxTokens   []string `json:"sandbox_tokens"`
	AllowDirectives []string `json:"allow_directives"`
	Loading         *string  `json:"loading"`
	ReferrerPolicy  *string  `json:"referrerpolicy"`
	AllowFullscreen *bool    `json:"allowfullscreen"`
	Credentialless  *bool    `json:"credentialless"`
	FrameName       *string  `json:"iframe_name"`
	FrameTitle      *string  `json:"iframe_title"`
	CSP             *string  `json:"csp"`
}

// Validate rejects malformed optional fields.
func (p frameUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.URL, validation.By(func(value any) error {
			raw, ok := value.(*string)
			if !ok || raw == nil {
				return nil
			}
			parsed, err := neturl.Parse(strings.TrimSpace(*raw))
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
				return validation.NewError("inframe.frames.url_invalid", "url must be absolute http(s)")
			}
			return nil
		})),
	)
}

func (api *API) handleFrameUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid frame id"})
		return
	}

	var payload frameUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON payload"})
		return
	}
	if err := payload.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	input := frames.UpdateFrameInput{
		ID:              id,
		URL:             payload.URL,
		Sort:            payload.Sort,
		Icon:            payload.Icon,
		Thumbnail:       payload.Thumbnail,
		SandboxTokens:   payload.SandboxTokens,
		AllowDirectives: payload.AllowDirectives,
		AllowFullscreen: payload.AllowFullscreen,
		Credentialless:  payload.Credentialless,
		FrameName:       payload.FrameName,
		FrameTitle:      payload.FrameTitle,
		CSP:             payload.CSP,
	}
	if payload.Status != nil {
		status := frames.Status(*payload.Status)
		input.Status = &status
	}
	if payload.Loading != nil {
		loading := frames.LoadingMode(*payload.Loading)
		input.Loading = &loading
	}
	if payload.ReferrerPolicy != nil {
		policy := frames.ReferrerPolicy(*payload.ReferrerPolicy)
		input.ReferrerPolicy = &policy
	}

	updated, err := api.frames.Update(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": api.frameResponse(updated, api.requestLocale(r))})
}

func (api *API) handleFrameDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid frame id"})
		return
	}

	if err := api.frames.Delete(r.Context(), frames.DeleteFrameRequest{ID: id}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *API) handleFrameTranslation(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid frame id"})
		return
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON payload"})
		return
	}

	translation, err := api.frames.SetTranslation(r.Context(), frames.SetTranslationInput{
		FrameID:    id,
		LocaleCode: r.PathValue("locale"),
		Title:      payload.Title,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": translation})
}
