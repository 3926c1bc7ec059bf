// Package georisk queries the Philippine government ArcGIS services behind
// the GeoRisk portal: the PAGASA rainfall forecast raster and the MGB
// detailed flood susceptibility polygons. Both clients fail open, every
// failure becomes a typed unavailable/default value rather than an error.
package georisk

import (
	"fmt"
	"strconv"
)

// pointGeometry renders an ArcGIS point geometry parameter in WGS-84.
func pointGeometry(lat, lon float64) string {
	return fmt.Sprintf(`{"x":%v,"y":%v,"spatialReference":{"wkid":4326}}`, lon, lat)
}

// coerceFloat handles ArcGIS attribute values, which arrive as JSON numbers
// or strings depending on the layer.
func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
