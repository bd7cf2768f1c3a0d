// Package auth is the client for the auth service. Every operation returns a
// tagged result; the signed-in user and cookies persist in a session store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/tessro/groove/internal/backend"
	gerrors "github.com/tessro/groove/internal/errors"
)

// Endpoint paths on the auth service.
const (
	PathMe             = "/api/auth/me"
	PathLogin          = "/api/auth/login"
	PathRegister       = "/api/auth/register"
	PathLogout         = "/api/auth/logout"
	PathForgotPassword = "/api/auth/forgot-password"
	PathResetPassword  = "/api/auth/reset-password"
	PathGoogle         = "/api/auth/google"
)

// TokenCookie is the cookie the auth service sets on sign-in.
const TokenCookie = "token"

// ErrNoUser is returned when a call succeeds but carries no user.
var ErrNoUser = errors.New("server did not return user")

// Service is the auth service client.
type Service struct {
	client     *backend.Client
	store      *backend.SessionStore
	cookieURLs []string
	logger     *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithCookieURLs lists extra service base URLs whose cookies are persisted
// with the session (the music service).
func WithCookieURLs(urls ...string) Option {
	return func(s *Service) { s.cookieURLs = append(s.cookieURLs, urls...) }
}

// NewService creates an auth client. store may be nil for a memory-only session.
func NewService(client *backend.Client, store *backend.SessionStore, opts ...Option) *Service {
	s := &Service{
		client:     client,
		store:      store,
		cookieURLs: []string{client.BaseURL()},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type userResponse struct {
	Message string          `json:"message"`
	User    json.RawMessage `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Restore loads the stored session into the cookie jar and returns the
// stored user, without contacting the service.
func (s *Service) Restore() gerrors.Result[*User] {
	if s.store == nil {
		return gerrors.Fail[*User](gerrors.ErrNotAuthenticated)
	}
	session, err := s.store.Load()
	if err != nil {
		return gerrors.Fail[*User](err)
	}
	if session == nil {
		return gerrors.Fail[*User](gerrors.ErrNotAuthenticated)
	}
	backend.RestoreCookies(s.client.Jar(), session.Cookies)

	user, err := decodeUser(session.User)
	if err != nil {
		return gerrors.Fail[*User](err)
	}
	if user == nil {
		return gerrors.Fail[*User](gerrors.ErrNotAuthenticated)
	}
	return gerrors.Ok(user)
}

// Me fetches the signed-in user using the session cookie. A failure clears
// the stored session.
func (s *Service) Me(ctx context.Context) gerrors.Result[*User] {
	var resp userResponse
	err := s.client.Get(ctx, PathMe, &resp)
	if err == nil {
		if user := s.persist(resp.User); user != nil {
			return gerrors.Ok(user)
		}
		err = ErrNoUser
	}

	s.logger.Debug("me failed, clearing session", "err", err)
	s.clear()
	return gerrors.Fail[*User](err)
}

// Login signs in with email and password.
func (s *Service) Login(ctx context.Context, email, password string) gerrors.Result[*User] {
	body := map[string]string{"email": email, "password": password}
	return s.userCall(ctx, PathLogin, body)
}

// Register creates an account.
func (s *Service) Register(ctx context.Context, in RegisterInput) gerrors.Result[*User] {
	return s.userCall(ctx, PathRegister, in)
}

func (s *Service) userCall(ctx context.Context, path string, body any) gerrors.Result[*User] {
	var resp userResponse
	if err := s.client.Post(ctx, path, body, &resp); err != nil {
		return gerrors.Fail[*User](err)
	}
	user := s.persist(resp.User)
	if user == nil {
		return gerrors.Fail[*User](ErrNoUser)
	}
	return gerrors.Ok(user)
}

// Logout signs out. The local session is cleared even when the call fails.
func (s *Service) Logout(ctx context.Context) gerrors.Result[string] {
	defer s.clear()

	var resp messageResponse
	if err := s.client.Post(ctx, PathLogout, nil, &resp); err != nil {
		s.logger.Warn("logout failed on server", "err", err)
		return gerrors.Fail[string](err)
	}
	return gerrors.Ok(messageOr(resp.Message, "Logged out"))
}

// ForgotPassword asks the service to send a reset code to email.
func (s *Service) ForgotPassword(ctx context.Context, email string) gerrors.Result[string] {
	var resp messageResponse
	err := s.client.Post(ctx, PathForgotPassword, map[string]string{"email": email}, &resp)
	if err != nil {
		return gerrors.Fail[string](err)
	}
	return gerrors.Ok(messageOr(resp.Message, "If the email exists, an OTP has been sent."))
}

// ResetPassword sets a new password using the emailed code.
func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) gerrors.Result[string] {
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	var resp messageResponse
	if err := s.client.Post(ctx, PathResetPassword, body, &resp); err != nil {
		return gerrors.Fail[string](err)
	}
	return gerrors.Ok(messageOr(resp.Message, "Password reset! Please login."))
}

// GoogleLoginURL is where the browser starts the Google sign-in flow.
func (s *Service) GoogleLoginURL(redirect string) string {
	u := s.client.BaseURL() + PathGoogle
	if redirect != "" {
		u += "?" + url.Values{"redirect": {redirect}}.Encode()
	}
	return u
}

// CompleteGoogleLogin stores a token handed back by the callback, if any,
// and confirms the session with Me.
func (s *Service) CompleteGoogleLogin(ctx context.Context, token string) gerrors.Result[*User] {
	if token != "" {
		if u, err := url.Parse(s.client.BaseURL()); err == nil {
			s.client.Jar().SetCookies(u, []*http.Cookie{{Name: TokenCookie, Value: token, Path: "/"}})
		}
	}
	return s.Me(ctx)
}

// Current returns the stored user without contacting the service.
func (s *Service) Current() (*User, error) {
	if s.store == nil {
		return nil, nil
	}
	session, err := s.store.Load()
	if err != nil || session == nil {
		return nil, err
	}
	return decodeUser(session.User)
}

// Token returns the stored session token cookie, if any.
func (s *Service) Token() string {
	if s.store == nil {
		return ""
	}
	session, err := s.store.Load()
	if err != nil || session == nil {
		return ""
	}
	for _, c := range session.Cookies[s.client.BaseURL()] {
		if c.Name == TokenCookie {
			return c.Value
		}
	}
	return ""
}

func (s *Service) persist(raw json.RawMessage) *User {
	user, err := decodeUser(raw)
	if err != nil || user == nil {
		return nil
	}
	if s.store == nil {
		return user
	}

	session := &backend.Session{
		User:    raw,
		Cookies: backend.CaptureCookies(s.client.Jar(), s.cookieURLs...),
	}
	if err := s.store.Save(session); err != nil {
		s.logger.Warn("failed to save session", "err", err)
	}
	return user
}

func (s *Service) clear() {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(); err != nil {
		s.logger.Warn("failed to clear session", "err", err)
	}
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
