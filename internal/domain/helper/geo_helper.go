package helper

import (
	"math"

	"github.com/paulmach/orb"

	"Course-App/internal/domain/model"
)

const earthRadiusKm = 6371.0

// HaversineDistance は2地点間の大円距離を計算する (km)
func HaversineDistance(p1, p2 model.Location) float64 {
	lat1 := p1.Latitude * math.Pi / 180
	lng1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lng2 := p2.Longitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// PathDistanceKm は連続する地点間の距離の合計を計算する (km)
func PathDistanceKm(points []model.Location) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += HaversineDistance(points[i], points[i+1])
	}
	return total
}

// ToLineString は地点列を orb.LineString に変換する
func ToLineString(points []model.Location) orb.LineString {
	line := make(orb.LineString, 0, len(points))
	for _, p := range points {
		line = append(line, p.ToPoint())
	}
	return line
}

// BoundOf は座標を持つスポット全体の境界ボックスを返す
func BoundOf(places []*model.PlaceRecord) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, p := range places {
		if p == nil || !p.HasCoordinates {
			continue
		}
		if !found {
			bound = p.Location.ToPoint().Bound()
			found = true
			continue
		}
		bound = bound.Extend(p.Location.ToPoint())
	}
	return bound, found
}
