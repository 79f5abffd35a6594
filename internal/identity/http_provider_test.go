package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

func newTestManager(baseURL string) *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "host",
				BaseURL: baseURL,
				Paths: map[string]string{
					"users_me": "/users/me",
					"token":    "/inframe-token",
				},
			},
		},
	})
}

func TestCurrentUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != "id,email,first_name,last_name,role,language" {
			t.Fatalf("unexpected fields param %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer session-token" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"u-1","email":"ada@example.com","first_name":"Ada","last_name":"Lovelace","role":"admin","language":"pt-BR"}}`))
	}))
	defer server.Close()

	client, err := NewClient(newTestManager(server.URL), "host",
		WithRequestDecorator(BearerToken("session-token")))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	user, err := client.CurrentUser(t.Context())
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.ID != "u-1" || user.FirstName != "Ada" || user.Language != "pt-BR" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestCurrentUserDefaultsLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"u-1"}}`))
	}))
	defer server.Close()

	client, err := NewClient(newTestManager(server.URL), "host")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	user, err := client.CurrentUser(t.Context())
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Language != "en-US" {
		t.Fatalf("expected en-US default, got %q", user.Language)
	}
	if user.Email != "" || user.Role != "" {
		t.Fatalf("missing fields must normalize to empty, got %+v", user)
	}
}

func TestCurrentUserRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(newTestManager(server.URL), "host")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.CurrentUser(t.Context()); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inframe-token" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"access_token":"tok-abc"}}`))
	}))
	defer server.Close()

	client, err := NewClient(newTestManager(server.URL), "host")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	token, err := client.AccessToken(t.Context())
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestNewClientRequiresManager(t *testing.T) {
	if _, err := NewClient(nil, "host"); !errors.Is(err, ErrRouteManagerRequired) {
		t.Fatalf("expected ErrRouteManagerRequired, got %v", err)
	}
}

type staticResolver struct {
	acc *interfaces.Accountability
	err error
}

func (r staticResolver) Resolve(context.Context) (*interfaces.Accountability, error) {
	return r.acc, r.err
}

func TestAccountabilityTokenProvider(t *testing.T) {
	provider := &AccountabilityTokenProvider{Resolver: staticResolver{
		acc: &interfaces.Accountability{UserID: "u-1", Token: "tok"},
	}}
	token, err := provider.AccessToken(t.Context())
	if err != nil || token != "tok" {
		t.Fatalf("expected tok, got %q, %v", token, err)
	}

	empty := &AccountabilityTokenProvider{Resolver: staticResolver{}}
	token, err = empty.AccessToken(t.Context())
	if err != nil || token != "" {
		t.Fatalf("expected empty token, got %q, %v", token, err)
	}
}
