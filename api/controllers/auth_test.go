package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/laundry-backend/api/middleware"
	"github.com/angelmondragon/laundry-backend/internal/auth"
	"github.com/angelmondragon/laundry-backend/internal/users"
	pkgauth "github.com/angelmondragon/laundry-backend/pkg/auth"
	"github.com/angelmondragon/laundry-backend/pkg/config"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
)

type stubAuthService struct {
	login   func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	google  func(ctx context.Context, req auth.GoogleLoginRequest) (*auth.LoginResponse, error)
	refresh func(ctx context.Context, req auth.RefreshRequest) (*auth.LoginResponse, error)
	logout  func(ctx context.Context, accessID string) error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.login != nil {
		return s.login(ctx, req)
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (s stubAuthService) GoogleLogin(ctx context.Context, req auth.GoogleLoginRequest) (*auth.LoginResponse, error) {
	if s.google != nil {
		return s.google(ctx, req)
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is not registered")
}

func (s stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.LoginResponse, error) {
	if s.refresh != nil {
		return s.refresh(ctx, req)
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
}

func (s stubAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logout != nil {
		return s.logout(ctx, accessID)
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "laundry",
		ExpirationMinutes:      30,
		RefreshTokenTTLMinutes: 60,
	}
}

func sessionResponse() *auth.LoginResponse {
	return &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    1800,
		User:         &users.UserDTO{ID: uuid.New(), Email: "admin@laundry.id", Role: enums.UserRoleAdmin},
	}
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthLoginSetsCookies(t *testing.T) {
	var got auth.LoginRequest
	svc := stubAuthService{login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
		got = req
		return sessionResponse(), nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@laundry.id","password":"12345678"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, testJWTConfig(), nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Email != "admin@laundry.id" {
		t.Fatalf("unexpected request %+v", got)
	}
	access := cookieByName(rec, middleware.AccessTokenCookie)
	if access == nil || access.Value != "access-token" || !access.HttpOnly || access.MaxAge != 1800 {
		t.Fatalf("unexpected access cookie %+v", access)
	}
	refresh := cookieByName(rec, middleware.RefreshTokenCookie)
	if refresh == nil || refresh.Value != "refresh-token" || refresh.MaxAge != 3600 {
		t.Fatalf("unexpected refresh cookie %+v", refresh)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" || envelope.Data.User == nil {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAuthLoginRejectsInvalidPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	rec := httptest.NewRecorder()
	AuthLogin(stubAuthService{}, testJWTConfig(), nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthGoogleForbiddenForUnknownEmail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{"id_token":"tok"}`))
	rec := httptest.NewRecorder()
	AuthGoogle(stubAuthService{}, testJWTConfig(), nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
	if cookieByName(rec, middleware.AccessTokenCookie) != nil {
		t.Fatalf("no cookie should be set on failure")
	}
}

func TestAuthRefreshFallsBackToCookies(t *testing.T) {
	var got auth.RefreshRequest
	svc := stubAuthService{refresh: func(ctx context.Context, req auth.RefreshRequest) (*auth.LoginResponse, error) {
		got = req
		return sessionResponse(), nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "old-access"})
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "old-refresh"})
	rec := httptest.NewRecorder()
	AuthRefresh(svc, testJWTConfig(), nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.AccessToken != "old-access" || got.RefreshToken != "old-refresh" {
		t.Fatalf("unexpected refresh request %+v", got)
	}
	if c := cookieByName(rec, middleware.RefreshTokenCookie); c == nil || c.Value != "refresh-token" {
		t.Fatalf("expected rotated refresh cookie, got %+v", c)
	}
}

func TestAuthRefreshWithoutTokens(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refresh_token":"x"}`))
	rec := httptest.NewRecorder()
	AuthRefresh(stubAuthService{}, testJWTConfig(), nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRefreshFailureClearsCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"access_token":"a","refresh_token":"r"}`))
	rec := httptest.NewRecorder()
	AuthRefresh(stubAuthService{}, testJWTConfig(), nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if c := cookieByName(rec, middleware.AccessTokenCookie); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected access cookie to be cleared, got %+v", c)
	}
}

func TestAuthLogoutRevokesExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
		JTI:    "jti-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	var revoked string
	svc := stubAuthService{logout: func(ctx context.Context, accessID string) error {
		revoked = accessID
		return nil
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	AuthLogout(svc, cfg, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if revoked != "jti-1" {
		t.Fatalf("expected jti-1 revoked, got %q", revoked)
	}
	if c := cookieByName(rec, middleware.RefreshTokenCookie); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected refresh cookie to be cleared, got %+v", c)
	}
}

func TestAuthLogoutWithoutToken(t *testing.T) {
	svc := stubAuthService{logout: func(ctx context.Context, accessID string) error {
		t.Fatalf("logout should not be called without a token")
		return nil
	}}
	rec := httptest.NewRecorder()
	AuthLogout(svc, testJWTConfig(), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
