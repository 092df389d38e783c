package rules

import "math"

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two coordinates in
// kilometers. The intermediate value is clamped to [-1, 1] so antipodal and
// identical points never feed ACOS a value outside its domain.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	cosine := math.Cos(rlat1)*math.Cos(rlat2)*math.Cos(dlon) + math.Sin(rlat1)*math.Sin(rlat2)
	cosine = math.Max(-1, math.Min(1, cosine))

	return earthRadiusKM * math.Acos(cosine)
}
