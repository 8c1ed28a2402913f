package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlineIradukunda/dusangire-backend/pkg/jwt"
	"github.com/AlineIradukunda/dusangire-backend/pkg/redis"
	"github.com/AlineIradukunda/dusangire-backend/pkg/response"
)

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// injectClaims validates an access token and puts the identity on the
// context. rdb may be nil; the blacklist check degrades to a pass.
func injectClaims(c *gin.Context, jwtMgr *jwt.Manager, rdb *redis.Client, token string) bool {
	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		return false
	}
	if claims.TokenType != "access" {
		return false
	}

	if rdb != nil {
		if revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
			return false
		}
	}

	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	c.Set("token_jti", claims.ID)
	if claims.ExpiresAt != nil {
		c.Set("token_expires_at", claims.ExpiresAt.Time)
	}
	return true
}

// JWTAuth requires a valid access token.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, 10002, "missing or malformed authorization header")
			c.Abort()
			return
		}

		if !injectClaims(c, jwtMgr, rdb, token) {
			response.Unauthorized(c, 10002, "token is invalid or expired")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalJWTAuth injects identity when a valid token is present but lets
// anonymous callers through. Public read routes use this so role-gated
// behavior still works for authenticated callers.
func OptionalJWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			injectClaims(c, jwtMgr, rdb, token)
		}
		c.Next()
	}
}

// RoleAuth rejects callers whose resolved role is not in allowedRoles.
// Must run after JWTAuth. Rejection happens before the handler body, so a
// denied mutation can never touch storage.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "insufficient role for this operation")
		c.Abort()
	}
}
