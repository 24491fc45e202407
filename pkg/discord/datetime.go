package discord

import "time"

// FormatDateTime renders t in loc as "02/01/2006 15:04 MST". A nil loc means
// UTC and a zero t renders as "".
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006 15:04 MST")
}
