package docutil

import (
	"strings"
	"time"

	"github.com/edudesk/edudesk-api/internal/apperr"
)

const dayFormat = "2006-01-02"

// EnsureDate normalises a date value coming from an update payload. ISO8601
// strings (with or without a trailing Z) become time.Time; time.Time values
// pass through unchanged. Anything else is a bad request.
func EnsureDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		normalized := strings.Replace(v, "Z", "+00:00", 1)
		if t, err := time.Parse("2006-01-02T15:04:05-07:00", normalized); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		if t, err := time.Parse(dayFormat, v); err == nil {
			return t, nil
		}
		return time.Time{}, apperr.BadRequest("invalid date format: %q", v)
	default:
		return time.Time{}, apperr.BadRequest("invalid date value of type %T", value)
	}
}

// DayRange expands two inclusive YYYY-MM-DD calendar days into a UTC
// interval. The upper bound is end-of-day of the end date (23:59:59.999).
func DayRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dayFormat, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.BadRequest("invalid start date %q, expected YYYY-MM-DD", startDate).WithCause(err)
	}
	end, err := time.ParseInLocation(dayFormat, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.BadRequest("invalid end date %q, expected YYYY-MM-DD", endDate).WithCause(err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.BadRequest("end date %q precedes start date %q", endDate, startDate)
	}
	endOfDay := end.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, endOfDay, nil
}
