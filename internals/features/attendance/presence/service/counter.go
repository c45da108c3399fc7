package service

import "gorm.io/gorm"

// OutsideCounter menghasilkan nilai counter bacaan out-of-branch untuk
// upsert heartbeat: nilai insert (row baru) dan assignment ON CONFLICT
// (row lama). Increment/reset dilakukan di SQL, bukan read-then-write,
// supaya dua heartbeat paralel tidak kehilangan hitungan.
func OutsideCounter(gpsOk, inside bool) (insertValue int, conflictValue interface{}) {
	switch {
	case gpsOk && inside:
		// kembali ke dalam geofence: reset
		return 0, 0
	case gpsOk && !inside:
		return 1, gorm.Expr("presence_heartbeats.presence_heartbeat_outside_count + 1")
	default:
		// gps mati: counter dibiarkan — gps_disabled sudah immediate di sweep
		return 0, gorm.Expr("presence_heartbeats.presence_heartbeat_outside_count")
	}
}
