package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusKm - средний радиус Земли в километрах для формулы гаверсинусов
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinate возвращается, если широта вне [-90,90]
// или долгота вне [-180,180]
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point - координата (значение, без идентичности)
type Point struct {
	Latitude  float64
	Longitude float64
}

// Valid проверяет, что точка лежит в допустимых пределах
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// DistanceKm возвращает расстояние по большому кругу между двумя точками
// в километрах (гаверсинус на среднем радиусе Земли). Чистая функция,
// ошибается только на некорректных координатах.
func DistanceKm(a, b Point) (float64, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("point (%f, %f): %w", a.Latitude, a.Longitude, ErrInvalidCoordinate)
	}
	if !b.Valid() {
		return 0, fmt.Errorf("point (%f, %f): %w", b.Latitude, b.Longitude, ErrInvalidCoordinate)
	}

	rad := func(d float64) float64 { return d * math.Pi / 180 }
	lat1, lat2 := rad(a.Latitude), rad(b.Latitude)
	dLat := rad(b.Latitude - a.Latitude)
	dLon := rad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c, nil
}
