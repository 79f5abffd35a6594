// Package identity integrates with the host platform's user and session
// endpoints. It provides the identity and token providers consumed by the
// URL variable resolver.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/devix-tecnologia/go-inframe/internal/logging"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

const (
	defaultLocale     = "en-US"
	userFields        = "id,email,first_name,last_name,role,language"
	defaultHTTPTimout = 10 * time.Second
)

var (
	ErrRouteManagerRequired = errors.New("identity: route manager required")
	ErrUnexpectedStatus     = errors.New("identity: unexpected response status")
)

// RequestDecorator attaches credentials to outgoing host requests, typically
// a session cookie or an Authorization header.
type RequestDecorator func(*http.Request)

// BearerToken returns a decorator that sets a bearer Authorization header.
func BearerToken(token string) RequestDecorator {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// ClientOption configures the host API client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for host calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithRequestDecorator sets the credential decorator for outgoing requests.
func WithRequestDecorator(decorator RequestDecorator) ClientOption {
	return func(c *Client) {
		c.decorate = decorator
	}
}

// WithLogger sets the logger used for host call failures.
func WithLogger(provider interfaces.LoggerProvider) ClientOption {
	return func(c *Client) {
		c.logger = logging.IdentityLogger(provider)
	}
}

// WithRoutes overrides the route names used for the host endpoints.
func WithRoutes(currentUser, token string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(currentUser) != "" {
			c.currentUserRoute = currentUser
		}
		if strings.TrimSpace(token) != "" {
			c.tokenRoute = token
		}
	}
}

// Client talks to the host platform's REST API. It implements both
// interfaces.IdentityProvider and interfaces.TokenProvider.
type Client struct {
	manager          *urlkit.RouteManager
	group            string
	currentUserRoute string
	tokenRoute       string
	http             *http.Client
	decorate         RequestDecorator
	logger           interfaces.Logger
}

// NewClient builds a host API client resolving endpoint URLs through the
// supplied go-urlkit route manager and group name.
func NewClient(manager *urlkit.RouteManager, group string, opts ...ClientOption) (*Client, error) {
	if manager == nil {
		return nil, ErrRouteManagerRequired
	}

	c := &Client{
		manager:          manager,
		group:            group,
		currentUserRoute: "users_me",
		tokenRoute:       "token",
		http:             &http.Client{Timeout: defaultHTTPTimout},
		logger:           logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type userEnvelope struct {
	Data struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
		Language  string `json:"language"`
	} `json:"data"`
}

// CurrentUser fetches the authenticated user from the host, requesting only
// the fields the resolver substitutes. Missing fields normalize to empty
// strings except language, which defaults to en-US.
func (c *Client) CurrentUser(ctx context.Context) (*interfaces.UserIdentity, error) {
	endpoint, err := c.buildURL(c.currentUserRoute, map[string]string{"fields": userFields})
	if err != nil {
		return nil, err
	}

	var envelope userEnvelope
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}

	user := &interfaces.UserIdentity{
		ID:        envelope.Data.ID,
		Email:     envelope.Data.Email,
		FirstName: envelope.Data.FirstName,
		LastName:  envelope.Data.LastName,
		Role:      envelope.Data.Role,
		Language:  envelope.Data.Language,
	}
	if strings.TrimSpace(user.Language) == "" {
		user.Language = defaultLocale
	}
	return user, nil
}

type tokenEnvelope struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

// AccessToken fetches the session token from the host's token endpoint. The
// endpoint derives the token from the caller's authenticated session, which
// keeps this working when the host stores tokens in HTTP-only cookies.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	endpoint, err := c.buildURL(c.tokenRoute, nil)
	if err != nil {
		return "", err
	}

	var envelope tokenEnvelope
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return "", err
	}
	return envelope.Data.AccessToken, nil
}

func (c *Client) buildURL(route string, query map[string]string) (string, error) {
	group, err := c.lookupGroup()
	if err != nil {
		return "", err
	}
	builder, err := c.safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, value := range query {
		builder.WithQuery(key, value)
	}
	return builder.Build()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.decorate != nil {
		c.decorate(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("host request failed", "endpoint", endpoint, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("host request rejected", "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) lookupGroup() (*urlkit.Group, error) {
	var (
		group *urlkit.Group
		err   error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("identity: route group %q not found", c.group)
		}
	}()
	group = c.manager.Group(c.group)
	return group, err
}

func (c *Client) safeBuilder(group *urlkit.Group, route string) (*urlkit.Builder, error) {
	if group == nil {
		return nil, fmt.Errorf("identity: route group is nil")
	}
	var (
		builder *urlkit.Builder
		err     error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("identity: route %q not found", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
