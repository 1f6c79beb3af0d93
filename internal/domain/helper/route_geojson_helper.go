package helper

import (
	"math"

	"github.com/paulmach/orb/geojson"

	"Course-App/internal/domain/model"
)

// BuildRouteGeoJSON は訪問順のスポットと経路線から FeatureCollection を作る
// 座標を持たないスポットが含まれる場合は nil
func BuildRouteGeoJSON(stops []*model.PlaceRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	points := make([]model.Location, 0, len(stops))

	for i, place := range stops {
		if place == nil || !place.HasCoordinates {
			return nil
		}
		feature := geojson.NewFeature(place.Location.ToPoint())
		feature.Properties["title"] = place.Title
		feature.Properties["category"] = string(place.Category)
		feature.Properties["order"] = i + 1
		fc.Append(feature)
		points = append(points, place.Location)
	}

	if len(points) >= 2 {
		path := geojson.NewFeature(ToLineString(points))
		path.Properties["distance_km"] = PathDistanceKm(points)
		fc.Append(path)
	}
	if bound, ok := BoundOf(stops); ok {
		fc.BBox = geojson.NewBBox(bound)
	}
	return fc
}

// EstimateWalking は距離とプロフィールから徒歩所要時間を見積もる
func EstimateWalking(distanceKm float64, profile string, fromDirectionAPI bool) model.WalkingEstimate {
	speed := model.WalkSpeedForProfile(profile)
	minutes := int(math.Ceil(distanceKm / speed * 60))
	return model.WalkingEstimate{
		DistanceKm:       math.Round(distanceKm*100) / 100,
		DurationMinutes:  minutes,
		SpeedKmPerHour:   speed,
		FromDirectionAPI: fromDirectionAPI,
	}
}
