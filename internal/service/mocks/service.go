package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
)

// Dashboard is a mock implementation of service.Dashboard
type Dashboard struct {
	mock.Mock
}

// CreateLink shortens a URL
func (m *Dashboard) CreateLink(ctx context.Context, token, longURL string) (string, error) {
	args := m.Called(ctx, token, longURL)
	return args.String(0), args.Error(1)
}

// ListLinks retrieves the user's links
func (m *Dashboard) ListLinks(ctx context.Context, token string) ([]domain.Link, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Link), args.Error(1)
}

// DeleteLink removes a link
func (m *Dashboard) DeleteLink(ctx context.Context, token, code string) error {
	args := m.Called(ctx, token, code)
	return args.Error(0)
}

// Metrics retrieves the metrics report
func (m *Dashboard) Metrics(ctx context.Context, token string) (*domain.MetricsReport, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricsReport), args.Error(1)
}

// Login exchanges credentials for a token
func (m *Dashboard) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

// Signup registers an account
func (m *Dashboard) Signup(ctx context.Context, creds domain.Credentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

// Logout ends the backend session
func (m *Dashboard) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
