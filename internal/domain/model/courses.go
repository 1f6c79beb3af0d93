package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CourseStop はコース内の1スポット（カテゴリとスポット名の組）
type CourseStop struct {
	Category   Category `json:"category"`
	PlaceTitle string   `json:"place_title"`
}

// CourseDraft LLMが提案したコース（未検証）
type CourseDraft struct {
	CourseID int          `json:"course_id"`
	Title    string       `json:"title"`
	Stops    []CourseStop `json:"stops"`
}

// OptimizedCourse 移動距離が最短になるよう並べ替えたコース
type OptimizedCourse struct {
	CourseDraft
	VisitingOrder   []Category     `json:"visiting_order"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	Path            orb.LineString `json:"-"`
}

// CandidatePools はカテゴリごとの候補スポット（検索＋リランキング済み）
type CandidatePools map[Category][]*PlaceRecord

// Titles は指定カテゴリの候補タイトル一覧を順序通りに返す
func (p CandidatePools) Titles(category Category) []string {
	places := p[category]
	titles := make([]string, 0, len(places))
	for _, place := range places {
		titles = append(titles, place.Title)
	}
	return titles
}

// Explanation コースの説明（タイトルと3つの長所）
type Explanation struct {
	Title        string   `json:"title"`
	Advantages   []string `json:"advantages"`
	Text         string   `json:"explanation"`
	UsedFallback bool     `json:"used_fallback"`
}

// FacilitySummary コース全体で利用できるバリアフリー設備
type FacilitySummary struct {
	Wheelchair bool `json:"wheelchair"`
	Toilet     bool `json:"toilet"`
	Parking    bool `json:"parking"`
	Elevator   bool `json:"elevator"`
}

// WalkingEstimate 徒歩移動の目安
type WalkingEstimate struct {
	DistanceKm       float64 `json:"distance_km"`
	DurationMinutes  int     `json:"duration_minutes"`
	SpeedKmPerHour   float64 `json:"speed_km_per_hour"`
	FromDirectionAPI bool    `json:"from_directions_api"`
}

// FinalCourse 呼び出し側に返す完成したコース
type FinalCourse struct {
	CourseID      int                        `json:"course_id"`
	Title         string                     `json:"title"`
	Explanation   string                     `json:"explanation"`
	Advantages    []string                   `json:"advantages"`
	Attraction    *PlaceRecord               `json:"attraction"`
	Cafe          *PlaceRecord               `json:"cafe"`
	Restaurant    *PlaceRecord               `json:"restaurant"`
	VisitingOrder []Category                 `json:"visiting_order"`
	Facilities    FacilitySummary            `json:"facilities"`
	Walking       WalkingEstimate            `json:"walking"`
	RouteGeoJSON  *geojson.FeatureCollection `json:"route_geojson,omitempty"`
}

// Place はカテゴリに対応するスポットを返す
func (c *FinalCourse) Place(category Category) *PlaceRecord {
	switch category {
	case CategoryAttraction:
		return c.Attraction
	case CategoryCafe:
		return c.Cafe
	case CategoryRestaurant:
		return c.Restaurant
	default:
		return nil
	}
}

// RecommendRequest コース推薦の入力
type RecommendRequest struct {
	TravelerProfile string   `json:"traveler_profile"`
	PurposeTags     []string `json:"purpose_tags"`
	Region          *string  `json:"region"`
}

// RegionFilter 地域指定があれば値を、なければ空文字列を返す
func (r *RecommendRequest) RegionFilter() string {
	if r.Region == nil {
		return ""
	}
	return *r.Region
}
