package utils

import "time"

// DateKey formats t as the "YYYY-MM-DD" key used in completed_days.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
