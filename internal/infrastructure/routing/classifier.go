package routing

import (
	"strings"
	"unicode"

	"github.com/Nyukimin/geonavi/internal/domain/routing"
	"github.com/Nyukimin/geonavi/internal/infrastructure/logger"
)

// キーワードルール（上から順に評価、最初にマッチしたものが優先）
var (
	geocodeKeywords = []string{"geocode", "address to", "coordinates of", "where is"}
	poiKeywords     = []string{"find", "search", "near", "poi", "cafe", "restaurant", "park"}
	routeKeywords   = []string{"route", "directions", "how to get", "navigate", "distance"}
	weatherKeywords = []string{"weather", "temperature", "forecast"}
)

// Classifier はキーワードベースの決定的ルーター実装
type Classifier struct{}

// NewClassifier は新しいClassifierを作成
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify はクエリをサーバー・ツール・引数の組に分類
// 必ず決定を返す（どのルールにも一致しない場合はgeocodeにフォールバック）
func (c *Classifier) Classify(query string) routing.Decision {
	lower := strings.ToLower(query)

	decision := c.classify(query, lower)

	logger.DebugCF("classifier", "query classified", map[string]interface{}{
		"server": decision.Server.String(),
		"tool":   decision.Tool,
	})

	return decision
}

func (c *Classifier) classify(query, lower string) routing.Decision {
	// 1. ジオコーディング関連
	if containsAny(lower, geocodeKeywords) {
		if strings.Contains(lower, "reverse") || strings.Contains(lower, "coordinates to address") {
			lat, lon := ExtractCoords(query)
			return routing.NewDecision(routing.ServerGeo, "reverse_geocode", map[string]interface{}{
				"lat": lat,
				"lon": lon,
			})
		}
		return routing.NewDecision(routing.ServerGeo, "geocode", map[string]interface{}{
			"address": ExtractAddress(query),
		})
	}

	// 2. POI検索関連
	if containsAny(lower, poiKeywords) {
		category, lat, lon := ExtractPOI(query)
		return routing.NewDecision(routing.ServerGeo, "search_poi", map[string]interface{}{
			"query": category,
			"lat":   lat,
			"lon":   lon,
		})
	}

	// 3. 経路・距離関連
	if containsAny(lower, routeKeywords) {
		if strings.Contains(lower, "fastest") || strings.Contains(lower, "quickest") {
			start, end := ExtractLocations(query)
			return routing.NewDecision(routing.ServerRouting, "fastest_route", map[string]interface{}{
				"start": start,
				"end":   end,
			})
		}

		startLat, startLon, endLat, endLon := ExtractTwoCoords(query)
		args := map[string]interface{}{
			"start_lat": startLat,
			"start_lon": startLon,
			"end_lat":   endLat,
			"end_lon":   endLon,
		}

		if strings.Contains(lower, "distance") {
			return routing.NewDecision(routing.ServerRouting, "get_distance", args)
		}
		return routing.NewDecision(routing.ServerRouting, "get_route", args)
	}

	// 4. 天気関連
	if containsAny(lower, weatherKeywords) {
		if strings.Contains(lower, "overlay") || strings.Contains(lower, "tile") {
			x, y, zoom := ExtractTile(query)
			return routing.NewDecision(routing.ServerWeather, "weather_overlay", map[string]interface{}{
				"tile_x": x,
				"tile_y": y,
				"zoom":   zoom,
			})
		}

		// 数字とカンマを含む場合は座標指定とみなす
		if containsDigit(query) && strings.Contains(query, ",") {
			lat, lon := ExtractCoords(query)
			return routing.NewDecision(routing.ServerWeather, "get_temperature", map[string]interface{}{
				"lat": lat,
				"lon": lon,
			})
		}

		return routing.NewDecision(routing.ServerWeather, "get_weather", map[string]interface{}{
			"location": ExtractLocation(query),
		})
	}

	// 5. デフォルト: クエリ全体を住所としてgeocode
	return routing.NewDecision(routing.ServerGeo, "geocode", map[string]interface{}{
		"address": strings.TrimSpace(query),
	})
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
