package httpapi

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// Role is what the caller may do.
type Role = string

const (
	RolePatron    Role = "patron"
	RoleLibrarian Role = "librarian"

	identityKey = "identity"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated caller.
type Identity struct {
	PatronID core.PatronIDString
	Role     Role
}

// JWTIdentity validates the HS256 bearer token and stores the caller's Identity in the echo context.
func JWTIdentity(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED", ErrMissingToken.Error()))
			}

			claims := jwt.MapClaims{}

			token, err := parser.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(*jwt.Token) (any, error) {
				return secret, nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED", ErrInvalidToken.Error()))
			}

			subject, _ := claims.GetSubject()
			role, _ := claims["role"].(string)

			if subject == "" || (role != RolePatron && role != RoleLibrarian) {
				return c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED", ErrInvalidToken.Error()))
			}

			c.Set(identityKey, Identity{PatronID: subject, Role: role})

			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not one of roles with 403.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok || !slices.Contains(roles, identity.Role) {
				return c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "forbidden"))
			}

			return next(c)
		}
	}
}

// IdentityFrom returns the Identity stored by JWTIdentity.
func IdentityFrom(c echo.Context) (Identity, bool) {
	identity, ok := c.Get(identityKey).(Identity)

	return identity, ok
}

// IssueToken signs an HS256 token for the identity, valid for ttl.
func IssueToken(secret []byte, identity Identity, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  identity.PatronID,
		"role": identity.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
