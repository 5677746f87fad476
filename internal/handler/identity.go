package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// errNoUser is returned by getUserID when JWTAuth did not run or the
// subject is not numeric.
var errNoUser = errors.New("invalid user_id in context")

// getUserID extracts the user_id set by JWTAuth and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		if t >= 0 {
			return uint64(t), nil
		}
	case int64:
		if t >= 0 {
			return uint64(t), nil
		}
	case float64:
		if t >= 0 && t == float64(uint64(t)) {
			return uint64(t), nil
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errNoUser
}

// fail writes the error body shared by every endpoint.
func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{"error": code, "message": message})
}
