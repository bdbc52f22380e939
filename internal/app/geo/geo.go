package geo

import "math"

// EarthRadiusKm радиус Земли в километрах
const EarthRadiusKm = 6371.0

// Distance расстояние между двумя точками в километрах (формула гаверсинусов)
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BoundingBox прямоугольник для грубого отбора в SQL перед точным расчётом
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Box возвращает прямоугольник вокруг точки с заданным радиусом
func Box(lat, lng, radiusKm float64) BoundingBox {
	latDelta := radiusKm / 111.0
	cos := math.Cos(lat * math.Pi / 180)
	lngDelta := 180.0
	if cos > 1e-6 {
		lngDelta = math.Min(radiusKm/(111.0*cos), 180)
	}

	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

// LngRange отрезок долгот [Min, Max] внутри [-180, 180]
type LngRange struct {
	Min float64
	Max float64
}

// LngRanges долготы прямоугольника без выхода за ±180:
// при пересечении антимеридиана получается два отрезка
func (b BoundingBox) LngRanges() []LngRange {
	switch {
	case b.MaxLng-b.MinLng >= 360:
		return []LngRange{{-180, 180}}
	case b.MinLng < -180:
		return []LngRange{{-180, b.MaxLng}, {b.MinLng + 360, 180}}
	case b.MaxLng > 180:
		return []LngRange{{b.MinLng, 180}, {-180, b.MaxLng - 360}}
	default:
		return []LngRange{{b.MinLng, b.MaxLng}}
	}
}

// ValidPoint проверяет диапазоны широты и долготы
func ValidPoint(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
