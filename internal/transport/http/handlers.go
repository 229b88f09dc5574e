package http

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
	"github.com/joshdurbin/url-shortener-dashboard/internal/service"
	"github.com/joshdurbin/url-shortener-dashboard/internal/session"
	"github.com/joshdurbin/url-shortener-dashboard/internal/view"
)

// Handler holds the page handlers for the dashboard
type Handler struct {
	dashboard service.Dashboard
	cookies   *session.Cookies
	pages     *Pages
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(dashboard service.Dashboard, cookies *session.Cookies, pages *Pages, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dashboard: dashboard,
		cookies:   cookies,
		pages:     pages,
		logger:    logger,
	}
}

// Root handles GET / by sending the user to the dashboard; the gate takes it from there
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, session.DashboardPath, http.StatusFound)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// LoginPage handles GET /login
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "Login", "")
	if r.URL.Query().Get("registered") != "" {
		data.Notice = "Account created. You can log in now."
	}
	h.render(w, http.StatusOK, pageLogin, data)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFromForm(r)

	token, err := h.dashboard.Login(r.Context(), creds)
	if err != nil {
		data := h.page(r, "Login", "")
		data.Error = domain.Describe(err).Error
		data.Email = creds.Email
		h.render(w, statusFor(err), pageLogin, data)
		return
	}

	http.SetCookie(w, h.cookies.Session(token))
	http.SetCookie(w, h.cookies.Identity(strings.TrimSpace(creds.Email)))
	http.Redirect(w, r, session.DashboardPath, http.StatusSeeOther)
}

// SignupPage handles GET /signup
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageSignup, h.page(r, "Sign up", ""))
}

// Signup handles POST /signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFromForm(r)

	if err := h.dashboard.Signup(r.Context(), creds); err != nil {
		data := h.page(r, "Sign up", "")
		data.Error = domain.Describe(err).Error
		data.Email = creds.Email
		h.render(w, statusFor(err), pageSignup, data)
		return
	}

	http.Redirect(w, r, session.LoginPath+"?registered=1", http.StatusSeeOther)
}

// DashboardPage handles GET /dashboard
func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "Dashboard", session.DashboardPath)
	data.Links = h.loadLinks(r)
	h.render(w, http.StatusOK, pageDashboard, data)
}

// DeleteLink handles POST /dashboard/delete/{code}. The displayed list only loses
// the link once the backend confirms the deletion.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	data := h.page(r, "Dashboard", session.DashboardPath)
	state := h.loadLinks(r)

	if err := h.dashboard.DeleteLink(r.Context(), h.cookies.Token(r), code); err != nil {
		data.Links = state.Failed(err)
		h.render(w, statusFor(err), pageDashboard, data)
		return
	}

	data.Links = state.Remove(code)
	data.Notice = "Link deleted"
	h.render(w, http.StatusOK, pageDashboard, data)
}

// CreatePage handles GET /create
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageCreate, h.page(r, "Create URL", "/create"))
}

// CreateLink handles POST /create
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	longURL := r.PostFormValue("url")
	data := h.page(r, "Create URL", "/create")

	shortURL, err := h.dashboard.CreateLink(r.Context(), h.cookies.Token(r), longURL)
	if err != nil {
		data.Error = domain.Describe(err).Error
		data.URL = longURL
		h.render(w, statusFor(err), pageCreate, data)
		return
	}

	data.ShortURL = shortURL
	data.Notice = "Short URL created!"
	h.render(w, http.StatusOK, pageCreate, data)
}

// MetricsPage handles GET /metrics
func (h *Handler) MetricsPage(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "Metrics", "/metrics")
	state := view.NewMetricsState()

	report, err := h.dashboard.Metrics(r.Context(), h.cookies.Token(r))
	if err != nil {
		state = state.Failed(err)
	} else {
		state = state.Loaded(report)
	}

	data.Metrics = state
	h.render(w, http.StatusOK, pageMetrics, data)
}

// SettingsPage handles GET /settings
func (h *Handler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageSettings, h.page(r, "Settings", "/settings"))
}

// Theme handles POST /settings/theme
func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	dark := r.PostFormValue("theme") == "dark"
	http.SetCookie(w, h.cookies.Theme(dark))
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// Logout handles POST /logout. Cookies are cleared only once the backend was reached.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Logout(r.Context(), h.cookies.Token(r)); err != nil {
		data := h.page(r, "Settings", "/settings")
		data.Error = domain.Describe(err).Error
		h.render(w, statusFor(err), pageSettings, data)
		return
	}

	http.SetCookie(w, h.cookies.ClearSession())
	http.SetCookie(w, h.cookies.ClearIdentity())
	http.SetCookie(w, h.cookies.ClearTheme())
	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

func (h *Handler) loadLinks(r *http.Request) view.ListState {
	state := view.NewListState()
	links, err := h.dashboard.ListLinks(r.Context(), h.cookies.Token(r))
	if err != nil {
		return state.Failed(err)
	}
	return state.Loaded(links)
}

func (h *Handler) page(r *http.Request, title, active string) *pageData {
	return &pageData{
		Title:    title,
		Active:   active,
		Dark:     session.DarkMode(r),
		Identity: session.Email(r),
		Links:    view.NewListState(),
		Metrics:  view.NewMetricsState(),
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data *pageData) {
	if err := h.pages.Render(w, status, name, data); err != nil {
		h.logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
	}
}

func credentialsFromForm(r *http.Request) domain.Credentials {
	return domain.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
}

// statusFor maps an action error to the HTTP status returned to the browser
func statusFor(err error) int {
	var actionErr *domain.ActionError
	if !errors.As(err, &actionErr) {
		return http.StatusInternalServerError
	}

	switch {
	case actionErr.Kind == domain.KindValidation:
		return http.StatusBadRequest
	case actionErr.Kind == domain.KindBackend && actionErr.Status == http.StatusUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
