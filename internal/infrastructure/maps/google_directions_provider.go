package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Course-App/internal/domain/model"
	"Course-App/internal/domain/repository"
)

const defaultDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"

// GoogleDirectionsProvider はGoogle Maps Directions APIを使用した徒歩距離取得の実装
type GoogleDirectionsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleDirectionsProvider は新しいプロバイダを生成する
func NewGoogleDirectionsProvider(apiKey string) *GoogleDirectionsProvider {
	return NewGoogleDirectionsProviderWithBaseURL(apiKey, defaultDirectionsURL)
}

// NewGoogleDirectionsProviderWithBaseURL は接続先を指定してプロバイダを生成する
func NewGoogleDirectionsProviderWithBaseURL(apiKey, baseURL string) *GoogleDirectionsProvider {
	return &GoogleDirectionsProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ repository.WalkingRouteRepository = (*GoogleDirectionsProvider)(nil)

// GetWalkingDistanceKm は訪問順に沿った徒歩ルートの総距離を取得する (km)
func (g *GoogleDirectionsProvider) GetWalkingDistanceKm(ctx context.Context, stops []model.Location) (float64, error) {
	if len(stops) < 2 {
		return 0, errors.New("地点が2つ以上必要です")
	}

	// 1. APIリクエストURLを構築
	reqURL := g.buildURL(stops[0], stops[1:]...)

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp googleRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return 0, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if apiResp.Status != "" && apiResp.Status != "OK" {
		return 0, fmt.Errorf("APIエラー (%s): %s", apiResp.Status, apiResp.ErrorMessage)
	}
	if len(apiResp.Routes) == 0 {
		return 0, errors.New("APIから有効なルートが返されませんでした")
	}

	// 4. 区間距離を合計
	var totalMeters int
	for _, leg := range apiResp.Routes[0].Legs {
		totalMeters += leg.Distance.Value
	}
	return float64(totalMeters) / 1000, nil
}

func (g *GoogleDirectionsProvider) buildURL(origin model.Location, waypoints ...model.Location) string {
	params := url.Values{}
	params.Set("origin", formatLocation(origin))
	// 最後の地点がdestinationになる
	destination := waypoints[len(waypoints)-1]
	params.Set("destination", formatLocation(destination))

	// 経由地を設定
	if len(waypoints) > 1 {
		viaPoints := make([]string, 0, len(waypoints)-1)
		for _, wp := range waypoints[:len(waypoints)-1] {
			viaPoints = append(viaPoints, formatLocation(wp))
		}
		params.Set("waypoints", strings.Join(viaPoints, "|"))
	}

	params.Set("mode", "walking")
	params.Set("language", "ko")
	params.Set("key", g.apiKey)

	return fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
}

func formatLocation(l model.Location) string {
	return fmt.Sprintf("%f,%f", l.Latitude, l.Longitude)
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type googleRouteResponse struct {
	Routes       []route `json:"routes"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}
type route struct {
	Legs []leg `json:"legs"`
}
type leg struct {
	Distance distance `json:"distance"`
}
type distance struct {
	Value int `json:"value"` // meters
}
