package repository

import (
	"context"

	"Course-App/internal/domain/model"
)

// WalkingRouteRepository は訪問順に沿った徒歩距離（km）を返す
type WalkingRouteRepository interface {
	GetWalkingDistanceKm(ctx context.Context, stops []model.Location) (float64, error)
}
