package service

import (
	"errors"
	"math"
)

// ErrInvalidCoordinate: lat/lng NaN atau di luar range WGS84.
var ErrInvalidCoordinate = errors.New("koordinat tidak valid")

const earthRadiusM = 6371000.0

func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// HaversineMeters menghitung jarak great-circle dua titik (meter).
func HaversineMeters(lat1, lng1, lat2, lng2 float64) (float64, error) {
	if err := ValidateCoordinate(lat1, lng1); err != nil {
		return 0, err
	}
	if err := ValidateCoordinate(lat2, lng2); err != nil {
		return 0, err
	}

	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c, nil
}

// IsInsideGeofence: jarak ≤ radius. Mengembalikan jarak juga supaya
// pemanggil bisa log/diagnosa tanpa hitung dua kali.
func IsInsideGeofence(lat, lng, centerLat, centerLng, radiusM float64) (bool, float64, error) {
	dist, err := HaversineMeters(lat, lng, centerLat, centerLng)
	if err != nil {
		return false, 0, err
	}
	return dist <= radiusM, dist, nil
}
