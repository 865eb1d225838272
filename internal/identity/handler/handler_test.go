package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"alphaseek/internal/identity/sender/mock"
	"alphaseek/internal/identity/service"
	"alphaseek/internal/identity/store/loginlink"
	sessionstore "alphaseek/internal/identity/store/session"
	userstore "alphaseek/internal/identity/store/user"
	"alphaseek/internal/identity/token"
	"alphaseek/internal/platform/middleware"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
)

type silentReader struct{}

func (silentReader) OwnerEmailByRowID(context.Context, id.SubscriptionID) (string, error) {
	return "", sentinel.ErrNotFound
}

func (silentReader) HasActiveByEmail(context.Context, string) (bool, error) {
	return false, nil
}

type AuthHandlerSuite struct {
	suite.Suite

	ctrl   *gomock.Controller
	sender *mock.MockSignInLinkSender
	router chi.Router
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sender = mock.NewMockSignInLinkSender(s.ctrl)

	tokens := token.NewService("test-key", "alphaseek", "alphaseek-web")
	resolver := service.NewResolver(
		userstore.NewMemory(), sessionstore.NewMemory(), loginlink.NewMemory(),
		silentReader{}, s.sender, tokens, "http://localhost:8080",
	)

	s.router = chi.NewRouter()
	New(resolver, token.NewValidator(tokens), false, slog.Default()).Register(s.router)
}

// requestLink drives the login-link endpoint and returns the callback path
// from the emailed URL.
func (s *AuthHandlerSuite) requestLink(email string) string {
	var linkURL string
	s.sender.EXPECT().
		SendSignInLink(gomock.Any(), email, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, u string) error {
			linkURL = u
			return nil
		})

	body := `{"email":"` + email + `","redirect_to":"/manage"}`
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login-link", strings.NewReader(body)))
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())

	parsed, err := url.Parse(linkURL)
	s.Require().NoError(err)
	return parsed.Path + "?" + parsed.RawQuery
}

func (s *AuthHandlerSuite) TestLoginLink_RejectsBadInput() {
	for _, body := range []string{`not json`, `{"email":"not-an-email"}`, `{"email":""}`} {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login-link", strings.NewReader(body)))
		s.Equal(http.StatusBadRequest, rec.Code, body)
	}
}

func (s *AuthHandlerSuite) TestCallback_BrowserFlowSetsCookieAndRedirects() {
	callback := s.requestLink("a@x.com")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, callback, nil))

	s.Require().Equal(http.StatusSeeOther, rec.Code, rec.Body.String())
	s.Equal("/manage", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(middleware.SessionCookieName, cookies[0].Name)
	s.NotEmpty(cookies[0].Value)
	s.True(cookies[0].HttpOnly)
}

func (s *AuthHandlerSuite) TestCallback_APIFlowReturnsToken() {
	callback := s.requestLink("a@x.com")

	req := httptest.NewRequest(http.MethodGet, callback, nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Token      string `json:"token"`
		RedirectTo string `json:"redirect_to"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.NotEmpty(body.Token)
	s.Equal("/manage", body.RedirectTo)
}

func (s *AuthHandlerSuite) TestCallback_InvalidToken() {
	for _, target := range []string{"/auth/callback", "/auth/callback?token=garbage"} {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		s.Equal(http.StatusNotFound, rec.Code, target)
	}
}

func (s *AuthHandlerSuite) TestCallback_SingleUse() {
	callback := s.requestLink("a@x.com")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, callback, nil))
	s.Require().Equal(http.StatusSeeOther, rec.Code)

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, callback, nil))
	s.Equal(http.StatusNotFound, rec.Code, "a consumed link must not sign in again")
}

func (s *AuthHandlerSuite) TestLogout() {
	callback := s.requestLink("a@x.com")

	req := httptest.NewRequest(http.MethodGet, callback, nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &login))

	logout := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	logout.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, logout)

	s.Require().Equal(http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(middleware.SessionCookieName, cookies[0].Name)
	s.Less(cookies[0].MaxAge, 0, "logout clears the session cookie")

	// Repeating logout with the same (now dead) session token still needs a
	// valid signature; the session itself is already gone so it stays a 204.
	rec = httptest.NewRecorder()
	repeat := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	repeat.Header.Set("Authorization", "Bearer "+login.Token)
	s.router.ServeHTTP(rec, repeat)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *AuthHandlerSuite) TestLogout_RequiresSession() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	s.Equal(http.StatusUnauthorized, rec.Code)
}
