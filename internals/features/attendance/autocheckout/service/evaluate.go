package service

import (
	"time"

	hbmodel "hadirku_backend/internals/features/attendance/presence/model"
	setmodel "hadirku_backend/internals/features/company/settings/model"
)

// EvaluateViolation menentukan status pelanggaran satu sesi dari
// heartbeat terakhirnya. Murni (tanpa I/O) supaya gampang dites.
//
// Urutan prioritas aturan:
//  1. GPS mati / permission dicabut → langsung melanggar (tanpa syarat
//     bacaan berturut-turut)
//  2. Heartbeat hilang atau basi melewati timeout → melanggar
//  3. Di luar geofence ≥ N bacaan berturut-turut → melanggar
//  4. Selain itu → aman
func EvaluateViolation(hb *hbmodel.PresenceHeartbeatModel, set setmodel.CompanyAutoCheckoutSettingModel, now time.Time) (bool, string) {
	if hb == nil {
		// klien tidak pernah lapor — disconnect tanpa sinyal eksplisit
		return true, hbmodel.ViolationHeartbeatStale
	}

	if !hb.PresenceHeartbeatGpsEnabled {
		return true, hbmodel.ViolationGpsDisabled
	}

	staleSecs := set.CompanyAutoCheckoutSettingHeartbeatStaleSeconds
	if staleSecs <= 0 {
		staleSecs = 120
	}
	if now.Sub(hb.PresenceHeartbeatLastSeenAt) > time.Duration(staleSecs)*time.Second {
		return true, hbmodel.ViolationHeartbeatStale
	}

	needed := set.CompanyAutoCheckoutSettingOutOfRangeReadings
	if needed <= 0 {
		needed = 1
	}
	if !hb.PresenceHeartbeatInsideGeofence && hb.PresenceHeartbeatOutsideCount >= needed {
		return true, hbmodel.ViolationOutOfBranch
	}

	return false, hbmodel.ViolationNone
}
