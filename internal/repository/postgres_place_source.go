package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
	"Course-App/internal/infrastructure/database"
)

const selectPlacePayloadsQuery = `SELECT payload FROM places WHERE category = $1 ORDER BY id`

// PostgresPlaceSource は places テーブル（JSONB payload）からスポットを読み込む
type PostgresPlaceSource struct {
	client *database.PostgreSQLClient
}

func NewPostgresPlaceSource(client *database.PostgreSQLClient) repository.PlaceSourceRepository {
	return &PostgresPlaceSource{
		client: client,
	}
}

func (r *PostgresPlaceSource) LoadRawPlaces(ctx context.Context) (map[model.Category]json.RawMessage, error) {
	raw := make(map[model.Category]json.RawMessage, 3)
	for _, category := range model.AllCategories() {
		payloads, err := r.loadCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(payloads)
		if err != nil {
			return nil, fmt.Errorf("%s のJSON変換に失敗: %w", category.Label(), err)
		}
		raw[category] = data
	}
	return raw, nil
}

func (r *PostgresPlaceSource) loadCategory(ctx context.Context, category model.Category) ([]json.RawMessage, error) {
	rows, err := r.client.DB.QueryContext(ctx, selectPlacePayloadsQuery, string(category))
	if err != nil {
		return nil, fmt.Errorf("%s のスポット取得に失敗: %w", category.Label(), err)
	}
	defer rows.Close()

	payloads := []json.RawMessage{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%s の行スキャンに失敗: %w", category.Label(), err)
		}
		payloads = append(payloads, json.RawMessage(payload))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s の行読み取りに失敗: %w", category.Label(), err)
	}
	return payloads, nil
}
