package utils

import "time"

// Vietnam time location (ICT, +07:00)
var vnLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*3600)
}()

// NowRFC3339VN stamps audit metadata in local Vietnam time,
// e.g. 2026-08-31T15:12:00+07:00.
func NowRFC3339VN() string {
	return time.Now().In(vnLoc).Format(time.RFC3339)
}
