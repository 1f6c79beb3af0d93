package helper

import (
	"strconv"
	"strings"

	"Course-App/internal/domain/model"
)

// ExtractLocation は生レコードから座標を取り出す
// 優先順: coordinates オブジェクト → 最上位の latitude/longitude → mapy/mapx
// 見つからない場合は (0,0), false を返す
func ExtractLocation(raw map[string]any) (model.Location, bool) {
	lat, latOK := extractCoordinate(raw, "latitude", "mapy")
	lng, lngOK := extractCoordinate(raw, "longitude", "mapx")
	return model.Location{Latitude: lat, Longitude: lng}, latOK && lngOK
}

func extractCoordinate(raw map[string]any, key, fallbackKey string) (float64, bool) {
	// 1. coordinates オブジェクトから探す
	if nested, ok := raw["coordinates"].(map[string]any); ok {
		if v, ok := toFloat(nested[key]); ok {
			return v, true
		}
	}

	// 2. 最上位レベルから探す
	if v, ok := toFloat(raw[key]); ok {
		return v, true
	}

	// 3. mapx/mapy フォールバック
	if v, ok := toFloat(raw[fallbackKey]); ok {
		return v, true
	}

	return 0.0, false
}

// toFloat は数値または数値文字列を float64 に変換する（0 は未設定扱い）
func toFloat(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f == 0 {
		return 0, false
	}
	return f, true
}

// ExtractFacilities は設備タグをリストまたはカンマ区切り文字列から取り出す
func ExtractFacilities(value any) []string {
	var facilities []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				facilities = append(facilities, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if strings.TrimSpace(s) != "" {
				facilities = append(facilities, strings.TrimSpace(s))
			}
		}
	}
	if facilities == nil {
		return []string{}
	}
	return facilities
}
