package geo

import "math"

// earthRadiusMiles para haversine.
const earthRadiusMiles = 3959.0

// Coordinates es un par (lat, lon) en grados decimales.
// Ausencia de ubicación se modela con *Coordinates == nil.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Distance calcula la distancia de círculo máximo entre dos puntos, en millas.
// Determinística y pura (fórmula haversine).
func Distance(a, b Coordinates) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// DistanceBetween tolera puntos ausentes: si falta alguno, ok=false y el
// caller debe saltarse el filtro de distancia (nunca es fatal).
func DistanceBetween(a, b *Coordinates) (miles float64, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return Distance(*a, *b), true
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
