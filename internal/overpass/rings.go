package overpass

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// relationGeometry stitches the way members of a boundary relation into a
// geometry. Outer ways are assembled into rings by endpoint matching; closed
// rings become polygons, inner rings become holes of the polygon containing
// them, and unclosed leftovers are kept as line strings so partial data from
// the server still draws.
func relationGeometry(el Element) orb.Geometry {
	var outer, inner []orb.LineString
	for _, m := range el.Members {
		if m.Type != "way" || len(m.Geometry) < 2 {
			continue
		}

		ls := make(orb.LineString, 0, len(m.Geometry))
		for _, pt := range m.Geometry {
			ls = append(ls, orb.Point{pt.Lon, pt.Lat})
		}

		if m.Role == "inner" {
			inner = append(inner, ls)
		} else {
			// "outer" or untagged
			outer = append(outer, ls)
		}
	}

	outerRings, open := assembleRings(outer)
	innerRings, _ := assembleRings(inner)

	polygons := make([]orb.Polygon, 0, len(outerRings))
	for _, r := range outerRings {
		polygons = append(polygons, orb.Polygon{r})
	}

	for _, hole := range innerRings {
		for i := range polygons {
			if planar.PolygonContains(polygons[i][:1], hole[0]) {
				polygons[i] = append(polygons[i], hole)
				break
			}
		}
	}

	switch {
	case len(polygons) == 0 && len(open) == 0:
		return nil
	case len(polygons) == 1 && len(open) == 0:
		return polygons[0]
	case len(open) == 0:
		mp := make(orb.MultiPolygon, 0, len(polygons))
		return append(mp, polygons...)
	default:
		c := make(orb.Collection, 0, len(polygons)+len(open))
		for _, p := range polygons {
			c = append(c, p)
		}
		for _, ls := range open {
			c = append(c, ls)
		}
		return c
	}
}

// assembleRings greedily chains segments whose endpoints coincide. OSM ways
// share nodes, so coordinate equality is exact.
func assembleRings(segments []orb.LineString) (rings []orb.Ring, open []orb.LineString) {
	pending := make([]orb.LineString, len(segments))
	copy(pending, segments)

	for len(pending) > 0 {
		cur := append(orb.LineString(nil), pending[0]...)
		pending = pending[1:]

		for {
			if len(cur) > 3 && cur[0] == cur[len(cur)-1] {
				rings = append(rings, orb.Ring(cur))
				break
			}

			idx := -1
			for i, s := range pending {
				switch cur[len(cur)-1] {
				case s[0]:
					cur = append(cur, s[1:]...)
					idx = i
				case s[len(s)-1]:
					cur = append(cur, reverse(s)[1:]...)
					idx = i
				}
				if idx >= 0 {
					break
				}
			}

			if idx < 0 {
				open = append(open, cur)
				break
			}
			pending = append(pending[:idx], pending[idx+1:]...)
		}
	}

	return rings, open
}

func reverse(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[len(ls)-1-i] = p
	}

	return out
}
