package service

import (
	"context"
	"time"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
	"github.com/joshdurbin/url-shortener-dashboard/internal/transport/client"
)

// Dashboard defines the proxy actions behind every page. A non-nil error is
// always a *domain.ActionError, and a method never returns both a value and an error.
type Dashboard interface {
	// CreateLink shortens longURL and returns the resulting short URL
	CreateLink(ctx context.Context, token, longURL string) (string, error)

	// ListLinks retrieves the user's links in canonical form
	ListLinks(ctx context.Context, token string) ([]domain.Link, error)

	// DeleteLink removes the link with the given code
	DeleteLink(ctx context.Context, token, code string) error

	// Metrics retrieves per-domain click counts and the total number of links
	Metrics(ctx context.Context, token string) (*domain.MetricsReport, error)

	// Login exchanges credentials for a session token
	Login(ctx context.Context, creds domain.Credentials) (string, error)

	// Signup registers a new account
	Signup(ctx context.Context, creds domain.Credentials) error

	// Logout ends the backend session
	Logout(ctx context.Context, token string) error
}

// Backend is the shortener API as seen by the proxy actions
type Backend interface {
	Shorten(ctx context.Context, token, longURL string) (*client.Response, error)
	ListURLs(ctx context.Context, token string) (*client.Response, error)
	DeleteURL(ctx context.Context, token, code string) (*client.Response, error)
	Metrics(ctx context.Context, token string) (*client.Response, error)
	Login(ctx context.Context, creds domain.Credentials) (*client.Response, error)
	Signup(ctx context.Context, creds domain.Credentials) (*client.Response, error)
	Logout(ctx context.Context, token string) (*client.Response, error)
}

// ActionRecorder observes proxy action outcomes
type ActionRecorder interface {
	RecordAction(action, outcome string, duration time.Duration)
}
