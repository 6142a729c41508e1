package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/models"
)

// SessionContextKey is where the authenticated session is stored on the
// request context.
const SessionContextKey = "session"

// SessionMiddleware checks for a valid session token and stores the
// session on the context. Every protected route runs behind it, so an
// unauthenticated request is rejected before any content is loaded.
func SessionMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			tokenString := parts[1]

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})

			if err != nil {
				if err == jwt.ErrSignatureInvalid {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			if !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(SessionContextKey, &models.Session{
				UserID: claims.UserID,
				Name:   claims.Name,
				Image:  claims.Image,
			})

			return next(c)
		}
	}
}

// SessionFromContext returns the session set by SessionMiddleware, or
// nil when the request is unauthenticated.
func SessionFromContext(c echo.Context) *models.Session {
	session, ok := c.Get(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
