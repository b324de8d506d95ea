package geo

import "math"

// Frame is a local planar projection centered on a bounding box. It is an
// equirectangular projection scaled to meters at the center latitude, which
// keeps distortion negligible at tactical and operational map extents.
// A Frame is immutable once derived from its BoundingBox.
type Frame struct {
	bbox      BoundingBox
	centerLat float64
	centerLon float64
	mPerDegX  float64
	mPerDegY  float64
}

// NewFrame derives the projected frame for a bounding box.
func NewFrame(bbox BoundingBox) *Frame {
	lat, lon := bbox.Center()
	return &Frame{
		bbox:      bbox,
		centerLat: lat,
		centerLon: lon,
		mPerDegX:  KmPerDegLat * 1000 * math.Cos(lat*math.Pi/180),
		mPerDegY:  KmPerDegLat * 1000,
	}
}

// BBox returns the bounding box the frame was derived from.
func (f *Frame) BBox() BoundingBox { return f.bbox }

// Project converts a lon/lat pair into projected meters.
func (f *Frame) Project(lon, lat float64) Point {
	return Point{
		X: (lon - f.centerLon) * f.mPerDegX,
		Y: (lat - f.centerLat) * f.mPerDegY,
	}
}

// Unproject converts a projected point back to (lon, lat).
func (f *Frame) Unproject(p Point) (lon, lat float64) {
	return f.centerLon + p.X/f.mPerDegX, f.centerLat + p.Y/f.mPerDegY
}

// Bounds returns the projected rectangle covering the bounding box.
func (f *Frame) Bounds() Rect {
	min := f.Project(f.bbox.MinLon, f.bbox.MinLat)
	max := f.Project(f.bbox.MaxLon, f.bbox.MaxLat)
	return Rect{MinX: min.X, MinY: min.Y, MaxX: max.X, MaxY: max.Y}
}
