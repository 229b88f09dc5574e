package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
	"github.com/joshdurbin/url-shortener-dashboard/internal/normalize"
	"github.com/joshdurbin/url-shortener-dashboard/internal/transport/client"
)

// Action names, used for logs and metrics
const (
	ActionCreate  = "create"
	ActionList    = "list"
	ActionDelete  = "delete"
	ActionMetrics = "metrics"
	ActionLogin   = "login"
	ActionSignup  = "signup"
	ActionLogout  = "logout"
)

// Fallback messages when the backend gives no "message" of its own
const (
	msgCreateFailed   = "Failed to create short URL"
	msgNoShortURL     = "Failed to get short URL"
	msgListFailed     = "Failed to fetch URLs"
	msgListBroken     = "Something went wrong while fetching URLs"
	msgDeleteFailed   = "Failed to delete link"
	msgDeleteBroken   = "Something went wrong while deleting link"
	msgMetricsFailed  = "Failed to load metrics"
	msgLoginFailed    = "Invalid email/password"
	msgTokenMissing   = "Token missing in response"
	msgSignupFailed   = "Signup failed"
	msgLogoutFailed   = "Failed to logout."
	msgMissingLinkKey = "Short code is required"
)

// dashboard implements the Dashboard interface on top of the backend client
type dashboard struct {
	backend    Backend
	normalizer *normalize.Normalizer
	recorder   ActionRecorder
	logger     *zap.Logger
}

// NewDashboard creates the proxy actions
func NewDashboard(backend Backend, normalizer *normalize.Normalizer, recorder ActionRecorder, logger *zap.Logger) Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &dashboard{
		backend:    backend,
		normalizer: normalizer,
		recorder:   recorder,
		logger:     logger,
	}
}

// CreateLink shortens a URL. Both 200 and 201 count as success.
func (d *dashboard) CreateLink(ctx context.Context, token, longURL string) (shortURL string, err error) {
	defer d.observe(ActionCreate, time.Now(), &err)

	longURL = strings.TrimSpace(longURL)
	if err := validateLink(longURL); err != nil {
		return "", err
	}

	resp, err := d.backend.Shorten(ctx, token, longURL)
	if err != nil {
		return "", domain.NewTransportError(domain.GenericMessage, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", backendError(resp, msgCreateFailed)
	}

	shortURL, decodeErr := normalize.ShortURL(resp.Body)
	if decodeErr != nil {
		return "", &domain.ActionError{Kind: domain.KindShape, Message: domain.GenericMessage, Err: decodeErr}
	}
	if shortURL == "" {
		return "", domain.NewShapeError(msgNoShortURL)
	}

	return shortURL, nil
}

// ListLinks retrieves and normalizes the user's links
func (d *dashboard) ListLinks(ctx context.Context, token string) (links []domain.Link, err error) {
	defer d.observe(ActionList, time.Now(), &err)

	resp, err := d.backend.ListURLs(ctx, token)
	if err != nil {
		return nil, domain.NewTransportError(msgListBroken, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backendError(resp, msgListFailed)
	}

	links, decodeErr := d.normalizer.Links(resp.Body)
	if decodeErr != nil {
		return nil, &domain.ActionError{Kind: domain.KindShape, Message: msgListBroken, Err: decodeErr}
	}

	return links, nil
}

// DeleteLink removes a link by code
func (d *dashboard) DeleteLink(ctx context.Context, token, code string) (err error) {
	defer d.observe(ActionDelete, time.Now(), &err)

	code = strings.TrimSpace(code)
	if code == "" || code == domain.Placeholder {
		return domain.NewValidationError(msgMissingLinkKey)
	}

	resp, err := d.backend.DeleteURL(ctx, token, code)
	if err != nil {
		return domain.NewTransportError(msgDeleteBroken, err)
	}

	if resp.StatusCode != http.StatusOK {
		return backendError(resp, msgDeleteFailed)
	}

	return nil
}

// Metrics fetches the domain counts and the link list concurrently. Only the
// metrics call decides success; a failed list call leaves the total at zero.
func (d *dashboard) Metrics(ctx context.Context, token string) (report *domain.MetricsReport, err error) {
	defer d.observe(ActionMetrics, time.Now(), &err)

	var (
		metricsResp *client.Response
		total       int
		g           errgroup.Group
	)

	g.Go(func() error {
		resp, err := d.backend.Metrics(ctx, token)
		if err != nil {
			return err
		}
		metricsResp = resp
		return nil
	})

	g.Go(func() error {
		resp, err := d.backend.ListURLs(ctx, token)
		if err != nil {
			d.logger.Debug("link count unavailable", zap.Error(err))
			return nil
		}
		if resp.StatusCode == http.StatusOK {
			total = normalize.CountRecords(resp.Body)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, domain.NewTransportError(domain.GenericMessage, err)
	}

	if metricsResp.StatusCode != http.StatusOK {
		return nil, backendError(metricsResp, msgMetricsFailed)
	}

	data, decodeErr := normalize.Metrics(metricsResp.Body)
	if decodeErr != nil {
		return nil, &domain.ActionError{Kind: domain.KindShape, Message: domain.GenericMessage, Err: decodeErr}
	}

	return &domain.MetricsReport{
		Data:           data,
		TotalShortened: total,
	}, nil
}

// Login returns the session token issued by the backend
func (d *dashboard) Login(ctx context.Context, creds domain.Credentials) (token string, err error) {
	defer d.observe(ActionLogin, time.Now(), &err)

	creds.Email = strings.TrimSpace(creds.Email)
	if err := validateLogin(creds); err != nil {
		return "", err
	}

	resp, err := d.backend.Login(ctx, creds)
	if err != nil {
		return "", domain.NewTransportError(domain.GenericMessage, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", backendError(resp, msgLoginFailed)
	}

	var payload domain.LoginResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.Token == "" {
		return "", domain.NewShapeError(msgTokenMissing)
	}

	return payload.Token, nil
}

// Signup registers an account; any 2xx status is success
func (d *dashboard) Signup(ctx context.Context, creds domain.Credentials) (err error) {
	defer d.observe(ActionSignup, time.Now(), &err)

	creds.Email = strings.TrimSpace(creds.Email)
	if err := validateSignup(creds); err != nil {
		return err
	}

	resp, err := d.backend.Signup(ctx, creds)
	if err != nil {
		return domain.NewTransportError(domain.GenericMessage, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return backendError(resp, msgSignupFailed)
	}

	return nil
}

// Logout only fails when the backend cannot be reached
func (d *dashboard) Logout(ctx context.Context, token string) (err error) {
	defer d.observe(ActionLogout, time.Now(), &err)

	resp, err := d.backend.Logout(ctx, token)
	if err != nil {
		return domain.NewTransportError(msgLogoutFailed, err)
	}

	if resp.StatusCode >= 300 {
		d.logger.Debug("backend logout returned non-success status", zap.Int("status", resp.StatusCode))
	}

	return nil
}

// observe logs and records the outcome of an action
func (d *dashboard) observe(action string, start time.Time, errp *error) {
	duration := time.Since(start)
	outcome := "success"

	if err := *errp; err != nil {
		var actionErr *domain.ActionError
		if errors.As(err, &actionErr) {
			outcome = actionErr.Kind.String()
		}

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("outcome", outcome),
			zap.Duration("duration", duration),
			zap.Error(err),
		}
		if actionErr != nil && actionErr.Err != nil {
			fields = append(fields, zap.NamedError("cause", actionErr.Err))
		}
		if actionErr != nil && actionErr.Kind == domain.KindValidation {
			d.logger.Debug("proxy action rejected input", fields...)
		} else {
			d.logger.Warn("proxy action failed", fields...)
		}
	}

	if d.recorder != nil {
		d.recorder.RecordAction(action, outcome, duration)
	}
}

// backendError builds the error for a non-success status, preferring the
// backend's own message
func backendError(resp *client.Response, fallback string) *domain.ActionError {
	msg := resp.Message()
	if msg == "" {
		msg = fallback
	}
	return domain.NewBackendError(msg, resp.StatusCode)
}
