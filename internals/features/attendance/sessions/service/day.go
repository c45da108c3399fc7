// internals/features/attendance/sessions/service/day.go
package service

import "time"

// DateOf memetakan instant ke tanggal kalender di timezone aplikasi
// (APP_TIMEZONE, default Asia/Jakarta). Check-in jam 01:00 WIB harus
// jatuh di hari WIB itu, bukan hari UTC sebelumnya. Hasil dinormalisasi
// ke UTC midnight supaya kolom date stabil dibandingkan dengan `= ?`.
func DateOf(at time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := at.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
