package service

import "time"

// endOfDay returns the last second of the given calendar day in UTC.
// New passes expire then unless trail-validity rules extend them.
func endOfDay(date time.Time) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
}

// stageOpenTime combines a reserved date with the stage's "HH:MM"
// opening time.  A malformed opening time falls back to midnight,
// which only makes the lock window stricter.
func stageOpenTime(date time.Time, opensAt string) time.Time {
	d := date.UTC()
	t, err := time.Parse("15:04", opensAt)
	if err != nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// insideLockWindow reports whether now has passed the cut-off for
// changing a booking: lockHours before the stage opens on the
// reserved date, bookings can no longer be cancelled or amended.
func insideLockWindow(now, reservedFor time.Time, opensAt string, lockHours int) bool {
	cutoff := stageOpenTime(reservedFor, opensAt).Add(-time.Duration(lockHours) * time.Hour)
	return !now.Before(cutoff)
}
