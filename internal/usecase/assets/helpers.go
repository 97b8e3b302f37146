// Package assets holds the lifecycle services for the upsert-by-date
// instrument classes: liquid accounts, valued assets and cover plans. Each
// value-changing operation persists the instrument and writes or overwrites
// the "as of today" snapshot in one atomic unit.
package assets

import "time"

// today returns the current calendar date in UTC, time-of-day stripped.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
