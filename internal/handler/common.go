package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hikewise/trail-pass-reservation/internal/repository"
	"github.com/hikewise/trail-pass-reservation/internal/service"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  The JWT middleware stores the raw claim, whose concrete
// type depends on how the token was produced.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseDate parses a YYYY-MM-DD request field into a midnight-UTC
// time.  The zero time and false are returned for malformed input.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// writeError translates a core error into the HTTP response the
// taxonomy prescribes: policy rejections carry their reason, missing
// rows map to 404, ownership mismatches to 403, and everything else
// is reported as a generic internal failure without leaking the
// underlying cause.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrQuotaExceeded),
		errors.Is(err, service.ErrDailyLimitExceeded),
		errors.Is(err, service.ErrSameDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyBooked),
		errors.Is(err, service.ErrInsufficientInventory),
		errors.Is(err, service.ErrInsideLockWindow),
		errors.Is(err, service.ErrPassActivated),
		errors.Is(err, service.ErrPassTransferred),
		errors.Is(err, service.ErrPassCancelled),
		errors.Is(err, service.ErrPassExpired),
		errors.Is(err, service.ErrRecipientHasActivePass),
		errors.Is(err, service.ErrSameUser),
		errors.Is(err, service.ErrOrderCancelled),
		errors.Is(err, service.ErrPassNotAmendable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrStageNotFound),
		errors.Is(err, repository.ErrCapacityNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrPassNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
