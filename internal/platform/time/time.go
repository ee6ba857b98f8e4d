// Package time contains time related helpers
package time

import "time"

// RFC3339 formats t as UTC RFC 3339, the wire format for every
// timestamp this service emits
func RFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NowRFC3339 returns the current UTC time in RFC 3339 form
func NowRFC3339() string {
	return RFC3339(time.Now())
}
