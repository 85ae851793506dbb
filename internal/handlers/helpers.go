package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/minbar-platform/backend/internal/models"
)

// getUserIDFromContext returns the authenticated user's ID, or 0 when the
// request carries no valid session claims.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// isAdminFromContext reports whether the authenticated user is an admin.
func isAdminFromContext(c echo.Context) bool {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	return ok && claims.IsAdmin
}
