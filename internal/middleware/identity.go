package middleware

// identity.go holds the helper shared by the rate limiter and the cache
// key builders: it renders the authenticated subject stored by JWTAuth as
// a string.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the subject set by JWTAuth, or "anon" when the
// request is not authenticated.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return "anon"
}
