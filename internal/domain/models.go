package domain

import (
	"time"
)

// Placeholder is displayed when a link field cannot be resolved from the backend payload
const Placeholder = "—"

// Link is the canonical view of a shortened URL returned by the backend
type Link struct {
	Code      string     `json:"code"`
	LongURL   string     `json:"longUrl"`
	ShortURL  string     `json:"shortUrl,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// HasCode reports whether the link code was resolved from the payload
func (l Link) HasCode() bool {
	return l.Code != "" && l.Code != Placeholder
}

// RawLink captures every field name the backend has been observed to emit for a link
type RawLink struct {
	Code      string `json:"code"`
	ShortCode string `json:"short_code"`
	ShortURL  string `json:"short_url"`
	URL       string `json:"url"`
	LongURL   string `json:"long_url"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

// DomainCount is one row of the per-domain click metrics
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// MetricsReport is the result of the metrics action
type MetricsReport struct {
	Data           []DomainCount `json:"data"`
	TotalShortened int           `json:"totalShortened"`
}

// Credentials are submitted by the login and signup forms
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateLinkRequest is the body sent to the backend's shorten endpoint
type CreateLinkRequest struct {
	URL string `json:"url"`
}

// CreateLinkResponse is returned by the JSON API after a link is created
type CreateLinkResponse struct {
	ShortURL string `json:"short_url"`
}

// LoginResponse is the backend's login payload
type LoginResponse struct {
	Token string `json:"token"`
}

// SuccessResponse is returned by actions that carry no payload
type SuccessResponse struct {
	Success bool `json:"success"`
}
