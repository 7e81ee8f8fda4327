package middleware

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated user's identifier for use
// in rate-limit keys.  Unauthenticated requests share the "anon"
// bucket.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
