// Package time contains time related helpers
package time

import "time"

// KST is Korea Standard Time; the upstream APIs speak it exclusively
var KST = time.FixedZone("KST", 9*60*60)

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// LatestWeekday returns t itself on Monday..Friday and the preceding Friday on
// a weekend. The wall-clock time is preserved
func LatestWeekday(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, -2)
	default:
		return t
	}
}

// YMD formats t as the compact yyyymmdd date the Exim Bank API expects
func YMD(t time.Time) string { return t.Format("20060102") }
