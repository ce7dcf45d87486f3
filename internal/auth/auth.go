package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/config"
	"github.com/nahicyan/Landivo-Auth0SPA/internal/dto"
)

const userContextKey = "auth_user"

// User is the identity extracted from a verified bearer token. Permissions
// come from the token's permissions claim, falling back to the legacy
// namespaced roles claim when permissions are absent.
type User struct {
	ID          string
	Email       string
	Name        string
	Permissions []string
}

// HasAny reports whether the user holds at least one of the required
// permission strings. OR semantics, not AND.
func (u *User) HasAny(required ...string) bool {
	for _, want := range required {
		for _, have := range u.Permissions {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Verifier validates bearer tokens and extracts user claims.
type Verifier struct {
	secret    []byte
	issuer    string
	namespace string
	log       *zap.Logger
}

// NewVerifier creates a token verifier from auth configuration.
func NewVerifier(cfg *config.Auth, log *zap.Logger) *Verifier {
	return &Verifier{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.Issuer,
		namespace: cfg.Namespace,
		log:       log,
	}
}

// Verify parses and validates a bearer token string, returning the user
// identity carried by its claims.
func (v *Verifier) Verify(tokenString string) (*User, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return v.userFromClaims(claims), nil
}

// userFromClaims resolves identity fields across the claim locations tokens
// have historically used: name falls back to nickname, permissions fall back
// to the namespaced roles list.
func (v *Verifier) userFromClaims(claims jwt.MapClaims) *User {
	name := claimString(claims, "name")
	if name == "" {
		name = claimString(claims, "nickname")
	}

	permissions := claimStrings(claims, "permissions")
	if len(permissions) == 0 {
		permissions = claimStrings(claims, v.namespace+"/roles")
	}

	return &User{
		ID:          claimString(claims, "sub"),
		Email:       claimString(claims, "email"),
		Name:        name,
		Permissions: permissions,
	}
}

// GenerateToken signs a token carrying the given identity. Used by the
// seeder and tests; production tokens come from the identity provider.
func (v *Verifier) GenerateToken(userID, email string, permissions []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         userID,
		"email":       email,
		"permissions": permissions,
		"iss":         v.issuer,
		"iat":         jwt.NewNumericDate(now),
		"exp":         jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Middleware authenticates the request's bearer token and stores the
// extracted user in the gin context. Missing or invalid tokens abort 401.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "missing bearer token",
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		user, err := v.Verify(tokenString)
		if err != nil {
			v.log.Warn("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "invalid or expired token",
			})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequirePermissions gates a route on the user holding at least one of the
// required permission strings. The 403 body includes both the required and
// actual sets for diagnosability.
func RequirePermissions(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFrom(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "missing authentication",
			})
			return
		}

		if !user.HasAny(required...) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:    "forbidden",
				Message:  "insufficient permissions",
				Required: required,
				Actual:   user.Permissions,
			})
			return
		}

		c.Next()
	}
}

// UserFrom returns the authenticated user stored in the gin context, or nil.
func UserFrom(c *gin.Context) *User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*User)
	if !ok {
		return nil
	}
	return user
}

func claimString(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}

func claimStrings(claims jwt.MapClaims, key string) []string {
	raw, ok := claims[key].([]interface{})
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return values
}
