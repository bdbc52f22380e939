package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	// Москва (Красная площадь) и Санкт-Петербург (Дворцовая площадь), ~634 км
	d := Distance(55.7539, 37.6208, 59.9390, 30.3158)
	assert.InDelta(t, 634, d, 5)

	assert.InDelta(t, 0, Distance(55.75, 37.62, 55.75, 37.62), 1e-9)
}

func TestBox(t *testing.T) {
	b := Box(55.75, 37.62, 10)
	assert.Less(t, b.MinLat, 55.75)
	assert.Greater(t, b.MaxLat, 55.75)
	assert.InDelta(t, 10.0/111.0, b.MaxLat-55.75, 1e-9)
	// у полюса долгота не ограничивается
	polar := Box(90, 0, 10)
	assert.Equal(t, -180.0, polar.MinLng)
}

func TestBoxLngRanges(t *testing.T) {
	assert.Equal(t, []LngRange{{-180, 180}}, Box(90, 0, 10).LngRanges())

	inner := Box(55.75, 37.62, 10)
	assert.Equal(t, []LngRange{{inner.MinLng, inner.MaxLng}}, inner.LngRanges())

	// точка у антимеридиана: вторая часть по другую сторону
	east := Box(0, 179.95, 20).LngRanges()
	if assert.Len(t, east, 2) {
		assert.Equal(t, 180.0, east[0].Max)
		assert.Less(t, east[0].Min, 179.95)
		assert.Equal(t, -180.0, east[1].Min)
		assert.InDelta(t, 179.95+20.0/111.0-360, east[1].Max, 1e-6)
	}

	west := Box(0, -179.95, 20).LngRanges()
	if assert.Len(t, west, 2) {
		assert.Equal(t, -180.0, west[0].Min)
		assert.Greater(t, west[0].Max, -179.95)
		assert.Equal(t, 180.0, west[1].Max)
		assert.InDelta(t, -179.95-20.0/111.0+360, west[1].Min, 1e-6)
	}

	// через антимеридиан расстояние считается коротким путём
	assert.Less(t, Distance(0, 179.95, 0, -179.95), 12.0)
}

func TestValidPoint(t *testing.T) {
	assert.True(t, ValidPoint(55.75, 37.62))
	assert.False(t, ValidPoint(91, 0))
	assert.False(t, ValidPoint(0, -181))
}
