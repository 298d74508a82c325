package geo

import (
	"math"

	"AnsanMomCare/internal/models"
)

const earthRadiusKm = 6371

// DistanceKm는 두 좌표 사이 대원 거리(km)를 소수 첫째 자리까지 반올림해 반환한다
func DistanceKm(a, b models.Coordinates) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return math.Round(earthRadiusKm*c*10) / 10
}

// ValidCoordinates는 위경도가 모두 유한한 값인지 확인
func ValidCoordinates(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) && !math.IsNaN(lng) && !math.IsInf(lng, 0)
}
