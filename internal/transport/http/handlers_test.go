package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joshdurbin/url-shortener-dashboard/internal/config"
	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
	"github.com/joshdurbin/url-shortener-dashboard/internal/service/mocks"
	"github.com/joshdurbin/url-shortener-dashboard/internal/session"
)

const testToken = "tok"

func newTestRouter(t *testing.T) (http.Handler, *mocks.Dashboard) {
	t.Helper()

	pages, err := NewPages()
	require.NoError(t, err)

	dashboard := &mocks.Dashboard{}
	t.Cleanup(func() { dashboard.AssertExpectations(t) })

	cookies := session.NewCookies(config.Default().Session)
	return NewRouter(NewHandler(dashboard, cookies, pages, zap.NewNop())), dashboard
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: config.DefaultCookieName, Value: testToken})
	return req
}

func responseCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	cookies := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	return cookies
}

func sampleLinks() []domain.Link {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Link{
		{Code: "aaa", LongURL: "https://example.com/first", ShortURL: "http://sho.rt/aaa", CreatedAt: created},
		{Code: "bbb", LongURL: "https://example.com/second", ShortURL: "http://sho.rt/bbb", CreatedAt: created},
	}
}

func TestHandler_Root(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestHandler_Login(t *testing.T) {
	creds := domain.Credentials{Email: "a@b.co", Password: "hunter2"}
	form := url.Values{"email": {creds.Email}, "password": {creds.Password}}

	t.Run("success sets session and identity cookies", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Login", mock.Anything, creds).Return(testToken, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, formRequest(http.MethodPost, "/login", form))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		cookies := responseCookies(rec)
		require.Contains(t, cookies, config.DefaultCookieName)
		assert.Equal(t, testToken, cookies[config.DefaultCookieName].Value)
		assert.True(t, cookies[config.DefaultCookieName].HttpOnly)
		require.Contains(t, cookies, session.IdentityCookieName)
		assert.Equal(t, creds.Email, cookies[session.IdentityCookieName].Value)
	})

	t.Run("rejected credentials render the message", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Login", mock.Anything, creds).
			Return("", domain.NewBackendError("Invalid email/password", http.StatusUnauthorized))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, formRequest(http.MethodPost, "/login", form))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email/password")
		assert.Contains(t, rec.Body.String(), `value="a@b.co"`)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("validation failure is a bad request", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Login", mock.Anything, mock.Anything).
			Return("", domain.NewValidationError("Invalid email"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, formRequest(http.MethodPost, "/login", url.Values{"email": {"nope"}}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email")
	})
}

func TestHandler_Signup(t *testing.T) {
	creds := domain.Credentials{Email: "a@b.co", Password: "hunter2"}
	form := url.Values{"email": {creds.Email}, "password": {creds.Password}}

	t.Run("success redirects to login", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Signup", mock.Anything, creds).Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, formRequest(http.MethodPost, "/signup", form))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?registered=1", rec.Header().Get("Location"))
	})

	t.Run("failure renders the backend message", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Signup", mock.Anything, creds).
			Return(domain.NewBackendError("email already registered", http.StatusConflict))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, formRequest(http.MethodPost, "/signup", form))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "email already registered")
	})

	t.Run("login page acknowledges registration", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?registered=1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Account created")
	})
}

func TestHandler_DashboardPage(t *testing.T) {
	t.Run("renders links", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("ListLinks", mock.Anything, testToken).Return(sampleLinks(), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "https://example.com/first")
		assert.Contains(t, body, "http://sho.rt/bbb")
		assert.Contains(t, body, `action="/dashboard/delete/aaa"`)
	})

	t.Run("empty list", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("ListLinks", mock.Anything, testToken).Return([]domain.Link{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil)))

		assert.Contains(t, rec.Body.String(), "No links yet")
	})

	t.Run("links without a code cannot be deleted", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("ListLinks", mock.Anything, testToken).
			Return([]domain.Link{{Code: domain.Placeholder, LongURL: "https://example.com/orphan"}}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil)))

		assert.Contains(t, rec.Body.String(), "https://example.com/orphan")
		assert.NotContains(t, rec.Body.String(), "/dashboard/delete/")
	})

	t.Run("fetch failure shows the error", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("ListLinks", mock.Anything, testToken).
			Return(nil, domain.NewTransportError("Something went wrong while fetching URLs", assert.AnError))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Something went wrong while fetching URLs")
		assert.NotContains(t, rec.Body.String(), "No links yet")
	})
}

func TestHandler_DeleteLink(t *testing.T) {
	t.Run("success removes the link from the list", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("ListLinks", mock.Anything, testToken).Return(sampleLinks(), nil)
		dashboard.On("DeleteLink", mock.Anything, testToken, "aaa").Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/dashboard/delete/aaa", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.NotContains(t, body, "https://example.com/first")
		assert.Contains(t, body, "https://example.com/second")
		assert.Contains(t, body, "Link deleted")
	})

	t.Run("failure keeps the list unchanged", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("ListLinks", mock.Anything, testToken).Return(sampleLinks(), nil)
		dashboard.On("DeleteLink", mock.Anything, testToken, "aaa").
			Return(domain.NewBackendError("Failed to delete link", http.StatusInternalServerError))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/dashboard/delete/aaa", nil)))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "https://example.com/first")
		assert.Contains(t, body, "https://example.com/second")
		assert.Contains(t, body, "Failed to delete link")
	})
}

func TestHandler_CreateLink(t *testing.T) {
	t.Run("success shows the short URL", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("CreateLink", mock.Anything, testToken, "https://example.com").Return("http://sho.rt/xyz", nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(formRequest(http.MethodPost, "/create", url.Values{"url": {"https://example.com"}})))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "http://sho.rt/xyz")
		assert.Contains(t, rec.Body.String(), "Short URL created!")
	})

	t.Run("invalid URL keeps the input", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("CreateLink", mock.Anything, testToken, "not-a-url").
			Return("", domain.NewValidationError("Enter a valid URL"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(formRequest(http.MethodPost, "/create", url.Values{"url": {"not-a-url"}})))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Enter a valid URL")
		assert.Contains(t, rec.Body.String(), `value="not-a-url"`)
	})
}

func TestHandler_MetricsPage(t *testing.T) {
	t.Run("renders totals", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Metrics", mock.Anything, testToken).Return(&domain.MetricsReport{
			Data:           []domain.DomainCount{{Domain: "a.com", Count: 3}, {Domain: "b.com", Count: 1}},
			TotalShortened: 7,
		}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/metrics", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<p>7</p>")
		assert.Contains(t, body, "<p>4</p>")
		assert.Contains(t, body, "<p>a.com</p>")
	})

	t.Run("failure shows the error", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Metrics", mock.Anything, testToken).
			Return(nil, domain.NewBackendError("Failed to load metrics", http.StatusInternalServerError))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/metrics", nil)))

		assert.Contains(t, rec.Body.String(), "Failed to load metrics")
		assert.NotContains(t, rec.Body.String(), "Total clicks")
	})
}

func TestHandler_Settings(t *testing.T) {
	t.Run("shows the identity and theme", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := withSession(httptest.NewRequest(http.MethodGet, "/settings", nil))
		req.AddCookie(&http.Cookie{Name: session.IdentityCookieName, Value: "a@b.co"})
		req.AddCookie(&http.Cookie{Name: session.ThemeCookieName, Value: "dark"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Signed in as a@b.co")
		assert.Contains(t, rec.Body.String(), `class="dark"`)
		assert.Contains(t, rec.Body.String(), "Switch to light mode")
	})

	t.Run("theme toggle sets the cookie", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(formRequest(http.MethodPost, "/settings/theme", url.Values{"theme": {"dark"}})))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		cookies := responseCookies(rec)
		require.Contains(t, cookies, session.ThemeCookieName)
		assert.Equal(t, "dark", cookies[session.ThemeCookieName].Value)
	})
}

func TestHandler_Logout(t *testing.T) {
	t.Run("success clears every cookie", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Logout", mock.Anything, testToken).Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/logout", nil)))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))

		cookies := responseCookies(rec)
		for _, name := range []string{config.DefaultCookieName, session.IdentityCookieName, session.ThemeCookieName} {
			require.Contains(t, cookies, name)
			assert.Less(t, cookies[name].MaxAge, 0, name)
		}
	})

	t.Run("transport failure keeps the session", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Logout", mock.Anything, testToken).
			Return(domain.NewTransportError("Failed to logout.", assert.AnError))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/logout", nil)))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to logout.")
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestHandler_API(t *testing.T) {
	t.Run("list links", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("ListLinks", mock.Anything, testToken).Return(sampleLinks(), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/links", nil)))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			URLs []domain.Link `json:"urls"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.URLs, 2)
		assert.Equal(t, "aaa", body.URLs[0].Code)
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("ListLinks", mock.Anything, "").Return(nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/links", nil))

		assert.JSONEq(t, `{"urls":[]}`, rec.Body.String())
	})

	t.Run("create link", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("CreateLink", mock.Anything, testToken, "https://example.com").Return("http://sho.rt/xyz", nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(`{"url":"https://example.com"}`))
		router.ServeHTTP(rec, withSession(req))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"short_url":"http://sho.rt/xyz"}`, rec.Body.String())
	})

	t.Run("create with invalid JSON", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader("nope"))))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid JSON"}`, rec.Body.String())
	})

	t.Run("delete link", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("DeleteLink", mock.Anything, testToken, "aaa").Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodDelete, "/api/links/aaa", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	})

	t.Run("backend 401 passes through", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Metrics", mock.Anything, "").
			Return(nil, domain.NewBackendError("Failed to load metrics", http.StatusUnauthorized))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to load metrics"}`, rec.Body.String())
	})

	t.Run("metrics report", func(t *testing.T) {
		router, dashboard := newTestRouter(t)
		dashboard.On("Metrics", mock.Anything, testToken).Return(&domain.MetricsReport{
			Data:           []domain.DomainCount{{Domain: "a.com", Count: 3}},
			TotalShortened: 2,
		}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/metrics", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":[{"domain":"a.com","count":3}],"totalShortened":2}`, rec.Body.String())
	})
}

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", domain.NewValidationError("Enter a valid URL"), http.StatusBadRequest},
		{"backend unauthorized", domain.NewBackendError("nope", http.StatusUnauthorized), http.StatusUnauthorized},
		{"backend server error", domain.NewBackendError("nope", http.StatusInternalServerError), http.StatusBadGateway},
		{"shape", domain.NewShapeError("Token missing in response"), http.StatusBadGateway},
		{"transport", domain.NewTransportError("Failed to fetch URLs", assert.AnError), http.StatusBadGateway},
		{"foreign error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, statusFor(tc.err))
		})
	}
}
