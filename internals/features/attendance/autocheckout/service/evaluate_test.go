package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hadirku_backend/internals/features/attendance/autocheckout/service"
	hbmodel "hadirku_backend/internals/features/attendance/presence/model"
	setmodel "hadirku_backend/internals/features/company/settings/model"
)

func testSettings() setmodel.CompanyAutoCheckoutSettingModel {
	return setmodel.CompanyAutoCheckoutSettingModel{
		CompanyAutoCheckoutSettingEnabled:               true,
		CompanyAutoCheckoutSettingCountdownSeconds:      300,
		CompanyAutoCheckoutSettingOutOfRangeReadings:    3,
		CompanyAutoCheckoutSettingHeartbeatStaleSeconds: 120,
	}
}

func freshHeartbeat(now time.Time) *hbmodel.PresenceHeartbeatModel {
	return &hbmodel.PresenceHeartbeatModel{
		PresenceHeartbeatLastSeenAt:      now.Add(-10 * time.Second),
		PresenceHeartbeatInsideGeofence:  true,
		PresenceHeartbeatGpsEnabled:      true,
		PresenceHeartbeatViolationReason: hbmodel.ViolationNone,
	}
}

func TestEvaluateViolation(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	set := testSettings()

	t.Run("heartbeat tidak ada = melanggar (stale)", func(t *testing.T) {
		violating, reason := service.EvaluateViolation(nil, set, now)
		require.True(t, violating)
		require.Equal(t, hbmodel.ViolationHeartbeatStale, reason)
	})

	t.Run("kondisi normal = aman", func(t *testing.T) {
		violating, reason := service.EvaluateViolation(freshHeartbeat(now), set, now)
		require.False(t, violating)
		require.Equal(t, hbmodel.ViolationNone, reason)
	})

	t.Run("gps mati = langsung melanggar, tanpa syarat bacaan", func(t *testing.T) {
		hb := freshHeartbeat(now)
		hb.PresenceHeartbeatGpsEnabled = false
		hb.PresenceHeartbeatOutsideCount = 0
		violating, reason := service.EvaluateViolation(hb, set, now)
		require.True(t, violating)
		require.Equal(t, hbmodel.ViolationGpsDisabled, reason)
	})

	t.Run("gps mati menang atas stale (prioritas)", func(t *testing.T) {
		hb := freshHeartbeat(now)
		hb.PresenceHeartbeatGpsEnabled = false
		hb.PresenceHeartbeatLastSeenAt = now.Add(-10 * time.Minute)
		violating, reason := service.EvaluateViolation(hb, set, now)
		require.True(t, violating)
		require.Equal(t, hbmodel.ViolationGpsDisabled, reason)
	})

	t.Run("heartbeat basi melewati timeout = melanggar", func(t *testing.T) {
		hb := freshHeartbeat(now)
		hb.PresenceHeartbeatLastSeenAt = now.Add(-121 * time.Second)
		violating, reason := service.EvaluateViolation(hb, set, now)
		require.True(t, violating)
		require.Equal(t, hbmodel.ViolationHeartbeatStale, reason)
	})

	t.Run("heartbeat tepat di batas timeout = masih aman", func(t *testing.T) {
		hb := freshHeartbeat(now)
		hb.PresenceHeartbeatLastSeenAt = now.Add(-120 * time.Second)
		violating, _ := service.EvaluateViolation(hb, set, now)
		require.False(t, violating)
	})

	t.Run("di luar geofence kurang dari N bacaan = belum melanggar", func(t *testing.T) {
		hb := freshHeartbeat(now)
		hb.PresenceHeartbeatInsideGeofence = false
		hb.PresenceHeartbeatOutsideCount = 2
		violating, _ := service.EvaluateViolation(hb, set, now)
		require.False(t, violating)
	})

	t.Run("di luar geofence N bacaan berturut-turut = melanggar", func(t *testing.T) {
		hb := freshHeartbeat(now)
		hb.PresenceHeartbeatInsideGeofence = false
		hb.PresenceHeartbeatOutsideCount = 3
		violating, reason := service.EvaluateViolation(hb, set, now)
		require.True(t, violating)
		require.Equal(t, hbmodel.ViolationOutOfBranch, reason)
	})

	t.Run("threshold 0 dinormalisasi jadi 1", func(t *testing.T) {
		s := testSettings()
		s.CompanyAutoCheckoutSettingOutOfRangeReadings = 0
		hb := freshHeartbeat(now)
		hb.PresenceHeartbeatInsideGeofence = false
		hb.PresenceHeartbeatOutsideCount = 1
		violating, reason := service.EvaluateViolation(hb, s, now)
		require.True(t, violating)
		require.Equal(t, hbmodel.ViolationOutOfBranch, reason)
	})

	t.Run("counter tinggi tapi sudah kembali ke dalam = aman", func(t *testing.T) {
		// ingestor mereset counter saat kembali; kalau pun belum,
		// inside=true harus menang
		hb := freshHeartbeat(now)
		hb.PresenceHeartbeatInsideGeofence = true
		hb.PresenceHeartbeatOutsideCount = 10
		violating, _ := service.EvaluateViolation(hb, set, now)
		require.False(t, violating)
	})
}
