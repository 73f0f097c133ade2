package geoindex

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/location-search/internal/domain"
)

// Ring - замкнутое кольцо orb из вершин полигона ([lng, lat])
func Ring(polygon domain.QueryPolygon) orb.Ring {
	ring := make(orb.Ring, 0, len(polygon)+1)
	for _, p := range polygon {
		ring = append(ring, orb.Point{p.Longitude, p.Latitude})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// PolygonContains - проверка точки методом луча (even-odd) против
// замкнутого полигона. Меньше трёх вершин - ничего не содержит.
func PolygonContains(polygon domain.QueryPolygon, point domain.GeoPoint) bool {
	return NewContainer(polygon).Contains(point)
}

// Container - предвычисленное кольцо для многократных проверок одного полигона
type Container struct {
	ring  orb.Ring
	valid bool
}

// NewContainer - кольцо строится один раз на запрос
func NewContainer(polygon domain.QueryPolygon) *Container {
	return &Container{ring: Ring(polygon), valid: len(polygon) >= 3}
}

// Contains - см. PolygonContains
func (c *Container) Contains(point domain.GeoPoint) bool {
	if !c.valid {
		return false
	}
	return planar.RingContains(c.ring, orb.Point{point.Longitude, point.Latitude})
}
