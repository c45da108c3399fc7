package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"hadirku_backend/internals/features/attendance/presence/service"
)

func TestHaversineMeters(t *testing.T) {
	t.Run("titik sama = 0 meter", func(t *testing.T) {
		d, err := service.HaversineMeters(-6.2000, 106.8166, -6.2000, 106.8166)
		require.NoError(t, err)
		require.InDelta(t, 0, d, 0.001)
	})

	t.Run("0.001 derajat lintang ≈ 111 meter", func(t *testing.T) {
		d, err := service.HaversineMeters(0, 0, 0.001, 0)
		require.NoError(t, err)
		require.InDelta(t, 111.19, d, 0.5)
	})

	t.Run("1 derajat bujur di ekuator ≈ 111.19 km", func(t *testing.T) {
		d, err := service.HaversineMeters(0, 0, 0, 1)
		require.NoError(t, err)
		require.InDelta(t, 111195, d, 100)
	})

	t.Run("simetris", func(t *testing.T) {
		d1, err := service.HaversineMeters(-6.2, 106.8, -6.21, 106.81)
		require.NoError(t, err)
		d2, err := service.HaversineMeters(-6.21, 106.81, -6.2, 106.8)
		require.NoError(t, err)
		require.InDelta(t, d1, d2, 0.0001)
	})

	t.Run("NaN ditolak", func(t *testing.T) {
		_, err := service.HaversineMeters(math.NaN(), 0, 0, 0)
		require.ErrorIs(t, err, service.ErrInvalidCoordinate)
	})

	t.Run("lintang di luar range ditolak", func(t *testing.T) {
		_, err := service.HaversineMeters(91, 0, 0, 0)
		require.ErrorIs(t, err, service.ErrInvalidCoordinate)
	})

	t.Run("bujur di luar range ditolak", func(t *testing.T) {
		_, err := service.HaversineMeters(0, 0, 0, -180.5)
		require.ErrorIs(t, err, service.ErrInvalidCoordinate)
	})
}

func TestIsInsideGeofence(t *testing.T) {
	// kantor di Monas, radius 100 m
	centerLat, centerLng := -6.1754, 106.8272

	t.Run("persis di center", func(t *testing.T) {
		inside, dist, err := service.IsInsideGeofence(centerLat, centerLng, centerLat, centerLng, 100)
		require.NoError(t, err)
		require.True(t, inside)
		require.InDelta(t, 0, dist, 0.001)
	})

	t.Run("±50 meter masih di dalam", func(t *testing.T) {
		inside, dist, err := service.IsInsideGeofence(centerLat+0.00045, centerLng, centerLat, centerLng, 100)
		require.NoError(t, err)
		require.True(t, inside)
		require.Less(t, dist, 100.0)
	})

	t.Run("±150 meter di luar", func(t *testing.T) {
		inside, dist, err := service.IsInsideGeofence(centerLat+0.00135, centerLng, centerLat, centerLng, 100)
		require.NoError(t, err)
		require.False(t, inside)
		require.Greater(t, dist, 100.0)
	})

	t.Run("jarak tepat di radius = inside", func(t *testing.T) {
		d, err := service.HaversineMeters(centerLat, centerLng, centerLat+0.0009, centerLng)
		require.NoError(t, err)
		inside, _, err := service.IsInsideGeofence(centerLat+0.0009, centerLng, centerLat, centerLng, d)
		require.NoError(t, err)
		require.True(t, inside)
	})
}
