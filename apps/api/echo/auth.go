package echoapi

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joinquran/backend/core"
)

// Sessions are opaque base64 "subject:issued-at-millis" tokens, not signed
// credentials: the admin API sits behind a single fixed credential pair and
// the customer token is only echoed back to the frontend.
const sessionCookieName = "admin_session"

var errMalformedToken = errors.New("malformed session token")

// generateSessionToken builds an opaque token for the given subject.
func generateSessionToken(subject string) string {
	raw := fmt.Sprintf("%s:%d", subject, time.Now().UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// parseSessionToken recovers the subject and issue time from a session token.
func parseSessionToken(token string) (string, time.Time, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", time.Time{}, errMalformedToken
	}
	idx := strings.LastIndexByte(string(raw), ':')
	if idx <= 0 {
		return "", time.Time{}, errMalformedToken
	}
	millis, err := strconv.ParseInt(string(raw[idx+1:]), 10, 64)
	if err != nil {
		return "", time.Time{}, errMalformedToken
	}
	return string(raw[:idx]), time.UnixMilli(millis), nil
}

// contextSessionToken pulls the admin session token from the session cookie
// or an Authorization: Bearer header.
func contextSessionToken(ctx echo.Context) string {
	if cookie, err := ctx.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// adminSessionMiddleware guards admin endpoints: the session subject must be
// the configured admin username and the session must not have aged out.
func adminSessionMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := contextSessionToken(ctx)
			if token == "" {
				return errUnauthorized
			}
			subject, issuedAt, err := parseSessionToken(token)
			if err != nil || subject != conf.Admin.Username {
				return errUnauthorized
			}
			if time.Since(issuedAt) > conf.Server.SessionMaxAge {
				return errSessionExpired
			}
			return next(ctx)
		}
	}
}

// newSessionCookie builds the HTTP-only admin session cookie.
func newSessionCookie(conf *core.Config, token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   !conf.Debug,
		SameSite: http.SameSiteStrictMode,
	}
}
