package middleware

import (
	"net/http"
	"strings"

	"consumables/internal/auth"
	"consumables/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	// AdminCookie carries the admin token for browser clients
	AdminCookie = "admin_token"
	// ActorKey is the context key holding the subject of an admin token
	ActorKey = "actor"
)

func cookieSecurity() (http.SameSite, bool) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	if gin.Mode() == gin.ReleaseMode {
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteLaxMode, false
}

// SetAdminCookie stores the admin token as an HttpOnly cookie living maxAge seconds
func SetAdminCookie(c *gin.Context, token string, maxAge int) {
	sameSite, secure := cookieSecurity()
	c.SetSameSite(sameSite)
	c.SetCookie(AdminCookie, token, maxAge, "/", "", secure, true)
}

// ClearAdminCookie ends a browser admin session
func ClearAdminCookie(c *gin.Context) {
	sameSite, secure := cookieSecurity()
	c.SetSameSite(sameSite)
	c.SetCookie(AdminCookie, "", -1, "/", "", secure, true)
}

// tokenFrom reads the admin token from the Authorization header, falling back to the cookie
func tokenFrom(c *gin.Context) (string, string) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", "Invalid authorization format. Expected 'Bearer <token>'"
		}
		return parts[1], ""
	}
	if tokenString, err := c.Cookie(AdminCookie); err == nil && tokenString != "" {
		return tokenString, ""
	}
	return "", "Admin mode is locked"
}

// RequireAdmin only lets requests carrying a valid admin token through
func RequireAdmin(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := tokenFrom(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, problem))
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}
		if claims.Role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: admin mode required"))
			return
		}

		c.Set(ActorKey, claims.Subject)
		c.Next()
	}
}

// Actor returns the admin subject set by RequireAdmin, or "" on public routes
func Actor(c *gin.Context) string {
	return c.GetString(ActorKey)
}
