package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devix-tecnologia/go-inframe/frames"
	inframes "github.com/devix-tecnologia/go-inframe/internal/frames"
	"github.com/devix-tecnologia/go-inframe/internal/identity"
	inresolver "github.com/devix-tecnologia/go-inframe/internal/resolver"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

func newTestMux(t *testing.T, opts ...Option) *http.ServeMux {
	t.Helper()

	framesService := inframes.NewService(
		inframes.NewMemoryFrameRepository(),
		inframes.NewMemoryTranslationRepository(),
	)
	resolverService := inresolver.NewService(
		&identity.StaticIdentityProvider{User: &interfaces.UserIdentity{
			ID: "u-1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Role: "admin", Language: "en-US",
		}},
		&identity.StaticTokenProvider{Token: "tok-abc"},
	)

	base := []Option{
		WithFramesService(framesService),
		WithResolverService(resolverService),
	}
	api := NewAPI(append(base, opts...)...)

	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func createTestFrame(t *testing.T, mux *http.ServeMux, slug, url string) string {
	t.Helper()
	rec := doRequest(t, mux, http.MethodPost, "/inframe/frames",
		`{"slug":"`+slug+`","url":"`+url+`","status":"published","translations":[{"locale_code":"en-US","title":"Dashboard"},{"locale_code":"pt-BR","title":"Painel"}]}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create frame: status %d body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return envelope.Data.ID
}

func TestFrameCreateAndGet(t *testing.T) {
	mux := newTestMux(t)
	id := createTestFrame(t, mux, "analytics", "https://dash.example.com")

	rec := doRequest(t, mux, http.MethodGet, "/inframe/frames/"+id+"?locale=pt-BR", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get frame: status %d body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			Slug       string `json:"slug"`
			Title      string `json:"title"`
			Attributes struct {
				Sandbox string `json:"sandbox,omitempty"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Slug != "analytics" || envelope.Data.Title != "Painel" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
	if envelope.Data.Attributes.Sandbox != frames.DefaultAttributes().Sandbox {
		t.Fatalf("expected default sandbox attribute, got %q", envelope.Data.Attributes.Sandbox)
	}
}

func TestFrameCreateValidation(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/inframe/frames", `{"slug":"x"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing url, got %d", rec.Code)
	}

	rec = doRequest(t, mux, http.MethodPost, "/inframe/frames", `{"slug":"x","url":"not-a-url"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid url, got %d", rec.Code)
	}

	rec = doRequest(t, mux, http.MethodPost, "/inframe/frames", `{broken`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for broken JSON, got %d", rec.Code)
	}
}

func TestFrameCreateConflict(t *testing.T) {
	mux := newTestMux(t)
	createTestFrame(t, mux, "analytics", "https://dash.example.com")

	rec := doRequest(t, mux, http.MethodPost, "/inframe/frames", `{"slug":"analytics","url":"https://other.example.com"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestFrameList(t *testing.T) {
	mux := newTestMux(t)
	createTestFrame(t, mux, "analytics", "https://dash.example.com")
	createTestFrame(t, mux, "reports", "https://reports.example.com")

	rec := doRequest(t, mux, http.MethodGet, "/inframe/frames?status=published", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list frames: status %d", rec.Code)
	}
	var envelope struct {
		Data []struct {
			Slug string `json:"slug"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected two frames, got %+v", envelope.Data)
	}
}

func TestFrameGetNotFound(t *testing.T) {
	mux := newTestMux(t)
	rec := doRequest(t, mux, http.MethodGet, "/inframe/frames/6d7c2b1e-8a9f-4c3d-b2e1-0f9a8b7c6d5e", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestFrameDelete(t *testing.T) {
	mux := newTestMux(t)
	id := createTestFrame(t, mux, "analytics", "https://dash.example.com")

	rec := doRequest(t, mux, http.MethodDelete, "/inframe/frames/"+id, "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doRequest(t, mux, http.MethodGet, "/inframe/frames/"+id, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestFrameTranslationUpsert(t *testing.T) {
	mux := newTestMux(t)
	id := createTestFrame(t, mux, "analytics", "https://dash.example.com")

	rec := doRequest(t, mux, http.MethodPut, "/inframe/frames/"+id+"/translations/es-ES", `{"title":"Panel"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("set translation: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, mux, http.MethodGet, "/inframe/frames/"+id+"?locale=es-ES", "", nil)
	var envelope struct {
		Data struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Title != "Panel" {
		t.Fatalf("expected es-ES title, got %q", envelope.Data.Title)
	}
}

func TestFrameResolve(t *testing.T) {
	mux := newTestMux(t)
	id := createTestFrame(t, mux, "report", "https://dash.example.com/report?auth=$token&uid=$user_id")

	rec := doRequest(t, mux, http.MethodGet, "/inframe/frames/"+id+"/resolve", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve: status %d body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			Src string `json:"src"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Src != "https://dash.example.com/report?auth=tok-abc&uid=u-1" {
		t.Fatalf("unexpected src %q", envelope.Data.Src)
	}
}

func TestFrameResolveRejectsInsecureTokenURL(t *testing.T) {
	mux := newTestMux(t)
	id := createTestFrame(t, mux, "insecure", "http://dash.example.com/report?auth=$token")

	rec := doRequest(t, mux, http.MethodGet, "/inframe/frames/"+id+"/resolve", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", rec.Code, rec.Body.String())
	}
	var payload errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error != "security_error" || !strings.Contains(payload.Message, "HTTPS") {
		t.Fatalf("unexpected error payload %+v", payload)
	}
}

func TestTokenEndpoint(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(t, mux, http.MethodGet, "/inframe/token", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}

	rec = doRequest(t, mux, http.MethodGet, "/inframe/token", "", map[string]string{
		"Authorization": "Bearer session-tok",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.AccessToken != "session-tok" {
		t.Fatalf("unexpected token %q", envelope.Data.AccessToken)
	}
}

func TestTokenEndpointNoTokenInSession(t *testing.T) {
	mux := newTestMux(t, WithAccountability(func(*http.Request) (*interfaces.Accountability, error) {
		return &interfaces.Accountability{UserID: "u-1"}, nil
	}))

	rec := doRequest(t, mux, http.MethodGet, "/inframe/token", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for tokenless session, got %d", rec.Code)
	}
}

func TestTokenEndpointResolverFailure(t *testing.T) {
	mux := newTestMux(t, WithAccountability(func(*http.Request) (*interfaces.Accountability, error) {
		return nil, errors.New("session store down")
	}))

	rec := doRequest(t, mux, http.MethodGet, "/inframe/token", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
