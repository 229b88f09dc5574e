package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
)

// Actions is the set of dashboard operations the command line drives.
// service.Dashboard satisfies it.
type Actions interface {
	CreateLink(ctx context.Context, token, longURL string) (string, error)
	ListLinks(ctx context.Context, token string) ([]domain.Link, error)
	DeleteLink(ctx context.Context, token, code string) error
	Metrics(ctx context.Context, token string) (*domain.MetricsReport, error)
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	Signup(ctx context.Context, creds domain.Credentials) error
	Logout(ctx context.Context, token string) error
}

// Commands provides command-line operations for the client
type Commands struct {
	actions Actions
	out     io.Writer
}

// NewCommands creates a new Commands instance writing to out
func NewCommands(actions Actions, out io.Writer) *Commands {
	return &Commands{
		actions: actions,
		out:     out,
	}
}

// Login authenticates and prints the session token
func (c *Commands) Login(ctx context.Context, email, password string) error {
	token, err := c.actions.Login(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, token)
	return nil
}

// Signup registers a new account
func (c *Commands) Signup(ctx context.Context, email, password string) error {
	if err := c.actions.Signup(ctx, domain.Credentials{Email: email, Password: password}); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Account created for %s\n", email)
	return nil
}

// Create creates a short URL and displays the result
func (c *Commands) Create(ctx context.Context, token, longURL string) error {
	shortURL, err := c.actions.CreateLink(ctx, token, longURL)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Short URL created:\n")
	fmt.Fprintf(c.out, "Short URL: %s\n", shortURL)
	fmt.Fprintf(c.out, "Long URL: %s\n", strings.TrimSpace(longURL))
	return nil
}

// Delete removes a short URL
func (c *Commands) Delete(ctx context.Context, token, code string) error {
	if err := c.actions.DeleteLink(ctx, token, code); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Short URL '%s' deleted successfully\n", code)
	return nil
}

// List displays the user's links in a table format
func (c *Commands) List(ctx context.Context, token string) error {
	links, err := c.actions.ListLinks(ctx, token)
	if err != nil {
		return err
	}

	if len(links) == 0 {
		fmt.Fprintln(c.out, "No URLs found")
		return nil
	}

	fmt.Fprintf(c.out, "%-15s %-50s %-20s %s\n", "Code", "Long URL", "Created At", "Short URL")
	fmt.Fprintln(c.out, strings.Repeat("-", 120))

	for _, link := range links {
		longURL := link.LongURL
		if len(longURL) > 50 {
			longURL = longURL[:47] + "..."
		}

		created := domain.Placeholder
		if !link.CreatedAt.IsZero() {
			created = link.CreatedAt.Format("2006-01-02 15:04:05")
		}

		shortURL := link.ShortURL
		if shortURL == "" {
			shortURL = domain.Placeholder
		}

		fmt.Fprintf(c.out, "%-15s %-50s %-20s %s\n", link.Code, longURL, created, shortURL)
	}

	return nil
}

// Metrics displays clicks per domain and the number of links shortened
func (c *Commands) Metrics(ctx context.Context, token string) error {
	report, err := c.actions.Metrics(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Total shortened: %d\n", report.TotalShortened)
	if len(report.Data) == 0 {
		fmt.Fprintln(c.out, "No clicks recorded")
		return nil
	}

	var clicks int64
	fmt.Fprintf(c.out, "%-40s %s\n", "Domain", "Clicks")
	fmt.Fprintln(c.out, strings.Repeat("-", 50))
	for _, d := range report.Data {
		clicks += d.Count
		fmt.Fprintf(c.out, "%-40s %d\n", d.Domain, d.Count)
	}
	fmt.Fprintf(c.out, "Total clicks: %d\n", clicks)

	return nil
}

// Logout ends the session on the backend
func (c *Commands) Logout(ctx context.Context, token string) error {
	if err := c.actions.Logout(ctx, token); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Logged out")
	return nil
}
