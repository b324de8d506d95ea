// Package geo provides the geographic bounding box, the local projected
// frame, and the planar geometry primitives every downstream component
// operates on.
package geo

import (
	"fmt"
	"math"
)

// KmPerDegLat is the approximate north-south extent of one degree of
// latitude. East-west extent shrinks with cos(lat).
const KmPerDegLat = 111.32

// BoundingBox is a geographic bounding box in WGS84 lon/lat degrees.
type BoundingBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// FromCenter builds a bbox from a center point and dimensions in km.
func FromCenter(lat, lon, widthKm, heightKm float64) BoundingBox {
	kmPerDegLon := KmPerDegLat * math.Cos(lat*math.Pi/180)
	halfW := (widthKm / 2) / kmPerDegLon
	halfH := (heightKm / 2) / KmPerDegLat
	return BoundingBox{
		MinLon: lon - halfW,
		MinLat: lat - halfH,
		MaxLon: lon + halfW,
		MaxLat: lat + halfH,
	}
}

// Validate checks the min < max invariants on both axes.
func (b BoundingBox) Validate() error {
	if b.MinLon >= b.MaxLon {
		return fmt.Errorf("bbox longitude range [%g, %g] is degenerate", b.MinLon, b.MaxLon)
	}
	if b.MinLat >= b.MaxLat {
		return fmt.Errorf("bbox latitude range [%g, %g] is degenerate", b.MinLat, b.MaxLat)
	}
	if b.MinLat < -90 || b.MaxLat > 90 {
		return fmt.Errorf("bbox latitude range [%g, %g] outside [-90, 90]", b.MinLat, b.MaxLat)
	}
	return nil
}

// Center returns the (lat, lon) center of the box.
func (b BoundingBox) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// WidthKm returns the east-west extent at the center latitude.
func (b BoundingBox) WidthKm() float64 {
	centerLat := (b.MinLat + b.MaxLat) / 2
	return (b.MaxLon - b.MinLon) * KmPerDegLat * math.Cos(centerLat*math.Pi/180)
}

// HeightKm returns the north-south extent.
func (b BoundingBox) HeightKm() float64 {
	return (b.MaxLat - b.MinLat) * KmPerDegLat
}
