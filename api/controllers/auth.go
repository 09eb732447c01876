package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/laundry-backend/api/middleware"
	"github.com/angelmondragon/laundry-backend/api/responses"
	"github.com/angelmondragon/laundry-backend/api/validators"
	"github.com/angelmondragon/laundry-backend/internal/auth"
	pkgauth "github.com/angelmondragon/laundry-backend/pkg/auth"
	"github.com/angelmondragon/laundry-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
)

// AuthLogin wires the password login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookies(w, cfg, result)
		responses.WriteSuccess(w, result)
	}
}

// AuthGoogle exchanges a Google ID token for a session of a whitelisted user.
func AuthGoogle(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.GoogleLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GoogleLogin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookies(w, cfg, result)
		responses.WriteSuccess(w, result)
	}
}

// AuthRefresh rotates the refresh token. Tokens come from the JSON body when
// present and fall back to the Authorization header and session cookies.
func AuthRefresh(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RefreshRequest
		if err := validators.DecodeOptionalJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if strings.TrimSpace(body.AccessToken) == "" {
			body.AccessToken = middleware.AccessTokenFromRequest(r)
		}
		if strings.TrimSpace(body.RefreshToken) == "" {
			if cookie, err := r.Cookie(middleware.RefreshTokenCookie); err == nil {
				body.RefreshToken = cookie.Value
			}
		}
		if body.AccessToken == "" || body.RefreshToken == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		result, err := svc.Refresh(r.Context(), body)
		if err != nil {
			clearSessionCookies(w, cfg)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookies(w, cfg, result)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the session tied to the presented access token, if any,
// and always clears the cookies.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		clearSessionCookies(w, cfg)

		if token := middleware.AccessTokenFromRequest(r); token != "" {
			claims, err := pkgauth.ParseAccessTokenAllowExpired(cfg, token)
			if err == nil && claims.ID != "" {
				if err := svc.Logout(r.Context(), claims.ID); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func setSessionCookies(w http.ResponseWriter, cfg config.JWTConfig, result *auth.LoginResponse) {
	if result == nil {
		return
	}
	http.SetCookie(w, sessionCookie(cfg, middleware.AccessTokenCookie, result.AccessToken, int(cfg.AccessTokenTTL().Seconds())))
	http.SetCookie(w, sessionCookie(cfg, middleware.RefreshTokenCookie, result.RefreshToken, int(cfg.RefreshTokenTTL().Seconds())))
}

func clearSessionCookies(w http.ResponseWriter, cfg config.JWTConfig) {
	http.SetCookie(w, sessionCookie(cfg, middleware.AccessTokenCookie, "", -1))
	http.SetCookie(w, sessionCookie(cfg, middleware.RefreshTokenCookie, "", -1))
}

func sessionCookie(cfg config.JWTConfig, name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
