package repository

import (
	"context"
	"encoding/json"

	"Course-App/internal/domain/model"
)

// PlaceSourceRepository はカテゴリごとの生スポットレコード（JSON配列）を提供する
type PlaceSourceRepository interface {
	LoadRawPlaces(ctx context.Context) (map[model.Category]json.RawMessage, error)
}
