package ccl

// Bounds represents a geographic bounding box in WGS-84 coordinates.
//
// Coordinates are in signed decimal degrees.
type Bounds struct {
	MinLon float64 // Western edge
	MaxLon float64 // Eastern edge
	MinLat float64 // Southern edge
	MaxLat float64 // Northern edge
}

// Contains returns true if the point (lon, lat) is within the bounds.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// Intersects returns true if the given bounds intersects with this bounds.
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxLon < b.MinLon ||
		other.MinLon > b.MaxLon ||
		other.MaxLat < b.MinLat ||
		other.MinLat > b.MaxLat)
}

// Union returns the smallest bounds containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	u := b
	if other.MinLon < u.MinLon {
		u.MinLon = other.MinLon
	}
	if other.MaxLon > u.MaxLon {
		u.MaxLon = other.MaxLon
	}
	if other.MinLat < u.MinLat {
		u.MinLat = other.MinLat
	}
	if other.MaxLat > u.MaxLat {
		u.MaxLat = other.MaxLat
	}
	return u
}

// segmentBounds calculates the bounding box of a decoded segment.
func segmentBounds(s Segment) Bounds {
	bounds := Bounds{
		MinLon: s.Lon[0], MaxLon: s.Lon[0],
		MinLat: s.Lat[0], MaxLat: s.Lat[0],
	}
	for i := 1; i < len(s.Lon); i++ {
		if s.Lon[i] < bounds.MinLon {
			bounds.MinLon = s.Lon[i]
		}
		if s.Lon[i] > bounds.MaxLon {
			bounds.MaxLon = s.Lon[i]
		}
		if s.Lat[i] < bounds.MinLat {
			bounds.MinLat = s.Lat[i]
		}
		if s.Lat[i] > bounds.MaxLat {
			bounds.MaxLat = s.Lat[i]
		}
	}
	return bounds
}
