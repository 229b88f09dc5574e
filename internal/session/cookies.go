package session

import (
	"net/http"
	"time"

	"github.com/joshdurbin/url-shortener-dashboard/internal/config"
)

const (
	// IdentityCookieName stores the signed-in email for display
	IdentityCookieName = "hl_email"
	// ThemeCookieName stores the dark/light preference
	ThemeCookieName = "hl_theme"

	themeMaxAge = 365 * 24 * time.Hour
)

// Cookies builds and reads the dashboard's cookies
type Cookies struct {
	name   string
	maxAge time.Duration
	secure bool
}

// NewCookies creates cookie helpers from the session configuration
func NewCookies(cfg config.SessionConfig) *Cookies {
	return &Cookies{
		name:   cfg.CookieName,
		maxAge: cfg.MaxAge,
		secure: cfg.Secure,
	}
}

// Name returns the session cookie name
func (c *Cookies) Name() string {
	return c.name
}

// Token returns the session token carried by the request, or ""
func (c *Cookies) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Session returns the cookie that stores a freshly issued token
func (c *Cookies) Session(token string) *http.Cookie {
	return c.build(c.name, token, c.maxAge, true)
}

// ClearSession returns a cookie that removes the session token
func (c *Cookies) ClearSession() *http.Cookie {
	return c.clear(c.name, true)
}

// Identity returns the cookie that remembers the signed-in email
func (c *Cookies) Identity(email string) *http.Cookie {
	return c.build(IdentityCookieName, email, c.maxAge, false)
}

// ClearIdentity returns a cookie that removes the identity cookie
func (c *Cookies) ClearIdentity() *http.Cookie {
	return c.clear(IdentityCookieName, false)
}

// Theme returns the cookie that stores the theme preference
func (c *Cookies) Theme(dark bool) *http.Cookie {
	value := "light"
	if dark {
		value = "dark"
	}
	return c.build(ThemeCookieName, value, themeMaxAge, false)
}

// ClearTheme returns a cookie that removes the theme preference
func (c *Cookies) ClearTheme() *http.Cookie {
	return c.clear(ThemeCookieName, false)
}

// DarkMode reports whether the request prefers the dark theme
func DarkMode(r *http.Request) bool {
	cookie, err := r.Cookie(ThemeCookieName)
	return err == nil && cookie.Value == "dark"
}

// Email returns the identity cookie value, or ""
func Email(r *http.Request) string {
	cookie, err := r.Cookie(IdentityCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *Cookies) build(name, value string, maxAge time.Duration, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *Cookies) clear(name string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
