package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
	"Course-App/internal/infrastructure/database"
)

type SupabasePlaceSource struct {
	client *database.SupabaseClient
}

func NewSupabasePlaceSource(client *database.SupabaseClient) repository.PlaceSourceRepository {
	return &SupabasePlaceSource{
		client: client,
	}
}

type placeRow struct {
	ID      int64           `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func (r *SupabasePlaceSource) LoadRawPlaces(ctx context.Context) (map[model.Category]json.RawMessage, error) {
	raw := make(map[model.Category]json.RawMessage, 3)
	for _, category := range model.AllCategories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, _, err := r.client.GetClient().From("places").Select("id,payload", "", false).Eq("category", string(category)).Execute()
		if err != nil {
			return nil, fmt.Errorf("%s のスポット取得失敗: %w", category.Label(), err)
		}

		payloads, err := decodePlaceRows(data)
		if err != nil {
			return nil, fmt.Errorf("%s のJSONアンマーシャル失敗: %w", category.Label(), err)
		}

		encoded, err := json.Marshal(payloads)
		if err != nil {
			return nil, fmt.Errorf("%s のJSON変換に失敗: %w", category.Label(), err)
		}
		raw[category] = encoded
	}
	return raw, nil
}

// decodePlaceRows は id 昇順に並べた payload の一覧を返す
func decodePlaceRows(data []byte) ([]json.RawMessage, error) {
	var rows []placeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	payloads := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		payloads = append(payloads, row.Payload)
	}
	return payloads, nil
}
