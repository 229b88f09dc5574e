// Package session holds the request-time session gate and the session cookie helpers.
//
// The gate only checks that a session token is present (optionally that it
// verifies locally, see Verifier). It never contacts the backend, so an expired
// token still counts as logged in until the backend rejects an API call.
package session

import (
	"net/http"
	"strings"
)

const (
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
	SignupPath    = "/signup"
)

// PathClass groups request paths by how the gate treats them
type PathClass int

const (
	Neutral PathClass = iota
	PublicOnly
	Protected
)

func (c PathClass) String() string {
	switch c {
	case PublicOnly:
		return "public"
	case Protected:
		return "protected"
	default:
		return "neutral"
	}
}

var publicOnlyPaths = map[string]struct{}{
	LoginPath:  {},
	SignupPath: {},
}

var protectedPrefixes = []string{DashboardPath, "/create", "/metrics", "/settings"}

// Classify returns the class of a request path
func Classify(path string) PathClass {
	if _, ok := publicOnlyPaths[path]; ok {
		return PublicOnly
	}
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return Protected
		}
	}
	return Neutral
}

// Action is what the gate does with a request
type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision is the outcome of the gate for one request
type Decision struct {
	Action   Action
	Location string
}

// Outcome names the decision for logs and metrics
func (d Decision) Outcome() string {
	switch {
	case d.Action == Allow:
		return "allow"
	case d.Location == DashboardPath:
		return "redirect_dashboard"
	default:
		return "redirect_login"
	}
}

// Decide applies the routing table to a path and the presence of a session token
func Decide(path string, hasToken bool) Decision {
	switch Classify(path) {
	case PublicOnly:
		if hasToken {
			return Decision{Action: Redirect, Location: DashboardPath}
		}
	case Protected:
		if !hasToken {
			return Decision{Action: Redirect, Location: LoginPath}
		}
	}
	return Decision{Action: Allow}
}

// DecisionRecorder observes gate decisions
type DecisionRecorder interface {
	RecordGateDecision(class, outcome string)
}

// Gate applies Decide to incoming requests using the session cookie
type Gate struct {
	cookies  *Cookies
	verifier Verifier
	recorder DecisionRecorder
}

// NewGate creates a gate. A nil verifier means presence-only checks.
func NewGate(cookies *Cookies, verifier Verifier, recorder DecisionRecorder) *Gate {
	if verifier == nil {
		verifier = PresenceVerifier{}
	}
	return &Gate{
		cookies:  cookies,
		verifier: verifier,
		recorder: recorder,
	}
}

// HasSession reports whether the request carries an acceptable session token
func (g *Gate) HasSession(r *http.Request) bool {
	token := g.cookies.Token(r)
	if token == "" {
		return false
	}
	return g.verifier.Verify(token) == nil
}

// Middleware redirects requests according to Decide
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := Decide(r.URL.Path, g.HasSession(r))
		if g.recorder != nil {
			g.recorder.RecordGateDecision(Classify(r.URL.Path).String(), decision.Outcome())
		}

		if decision.Action == Allow {
			next.ServeHTTP(w, r)
			return
		}

		target := *r.URL
		target.Path = decision.Location
		target.RawPath = ""
		http.Redirect(w, r, target.RequestURI(), http.StatusFound)
	})
}
