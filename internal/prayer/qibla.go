// Package prayer provides the prayer-window helpers: daily prayer times
// from the upstream provider, the next-prayer countdown, and the qibla
// bearing toward the Kaaba.
package prayer

import "math"

// Kaaba coordinates in Mecca.
const (
	kaabaLat = 21.422487
	kaabaLng = 39.826206
)

// QiblaBearing returns the great-circle initial bearing from the given
// location to the Kaaba, in compass degrees normalized to [0, 360).
func QiblaBearing(latitude, longitude float64) float64 {
	lat1 := latitude * math.Pi / 180
	lat2 := kaabaLat * math.Pi / 180
	lngDiff := (kaabaLng - longitude) * math.Pi / 180

	y := math.Sin(lngDiff)
	x := math.Cos(lat1)*math.Tan(lat2) - math.Sin(lat1)*math.Cos(lngDiff)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	bearing = math.Mod(bearing+360, 360)
	return bearing
}
