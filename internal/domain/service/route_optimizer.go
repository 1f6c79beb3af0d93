package service

import (
	"errors"
	"fmt"
	"math"

	"Course-App/internal/domain/helper"
	"Course-App/internal/domain/model"
)

// RouteOptimizer はコースの3スポットを移動距離が最短になる順に並べ替える
type RouteOptimizer struct {
	catalog *Catalog
}

// NewRouteOptimizer は新しいRouteOptimizerインスタンスを作成
func NewRouteOptimizer(catalog *Catalog) *RouteOptimizer {
	return &RouteOptimizer{catalog: catalog}
}

type locatedStop struct {
	stop     model.CourseStop
	location model.Location
}

// Optimize は全順列のハバーサイン距離を比較し最短の訪問順を選ぶ（同距離なら先に見つかった順）
// 座標のないスポットがあれば PlaceNotFoundError を返す
func (o *RouteOptimizer) Optimize(draft model.CourseDraft) (*model.OptimizedCourse, error) {
	if len(draft.Stops) != 3 {
		return nil, errors.New("ルート最適化には3箇所のスポットが必要です")
	}

	located := make([]locatedStop, 0, len(draft.Stops))
	for _, stop := range draft.Stops {
		place, ok := o.catalog.Lookup(stop.Category, stop.PlaceTitle)
		if !ok || !place.HasCoordinates {
			return nil, &model.PlaceNotFoundError{Category: stop.Category, Title: stop.PlaceTitle}
		}
		located = append(located, locatedStop{stop: stop, location: place.Location})
	}

	var best []locatedStop
	shortest := math.Inf(1)
	for _, route := range GeneratePermutations(located) {
		points := make([]model.Location, len(route))
		for i, s := range route {
			points[i] = s.location
		}
		distance := helper.PathDistanceKm(points)
		if distance < shortest {
			shortest = distance
			best = route
		}
	}
	if best == nil {
		return nil, fmt.Errorf("コース%d: 有効な訪問順が見つかりません", draft.CourseID)
	}

	stops := make([]model.CourseStop, len(best))
	order := make([]model.Category, len(best))
	points := make([]model.Location, len(best))
	for i, s := range best {
		stops[i] = s.stop
		order[i] = s.stop.Category
		points[i] = s.location
	}

	return &model.OptimizedCourse{
		CourseDraft: model.CourseDraft{
			CourseID: draft.CourseID,
			Title:    draft.Title,
			Stops:    stops,
		},
		VisitingOrder:   order,
		TotalDistanceKm: shortest,
		Path:            helper.ToLineString(points),
	}, nil
}
