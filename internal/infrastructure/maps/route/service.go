package route

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Nyukimin/geonavi/internal/domain/maps"
	"github.com/Nyukimin/geonavi/internal/infrastructure/logger"
)

// 経路推定に使う平均速度（km/h）
const averageSpeedKmh = 50.0

const kmToMiles = 0.621371

// Geocoder は地名から座標を引くための依存
type Geocoder interface {
	Geocode(ctx context.Context, address string) (maps.Payload, error)
}

// Service は経路・距離計算サービスの実装
// 経路は直線距離ベースの推定（モック）、距離計算は正確
type Service struct {
	geocoder Geocoder
}

// NewService は新しいServiceを作成
func NewService(geocoder Geocoder) *Service {
	return &Service{geocoder: geocoder}
}

// haversine は2点間の大円距離をkmで返す
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	dlat := toRadians(lat2 - lat1)
	dlon := toRadians(lon2 - lon1)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Route は2点間の経路を返す
func (s *Service) Route(ctx context.Context, startLat, startLon, endLat, endLon float64) (maps.Payload, error) {
	distance := haversine(startLat, startLon, endLat, endLon)
	estimatedMinutes := (distance / averageSpeedKmh) * 60

	return maps.Payload{
		"success":                true,
		"start":                  map[string]interface{}{"lat": startLat, "lon": startLon},
		"end":                    map[string]interface{}{"lat": endLat, "lon": endLon},
		"distance_km":            round2(distance),
		"estimated_time_minutes": round1(estimatedMinutes),
		"waypoints": []map[string]interface{}{
			{"lat": startLat, "lon": startLon},
			{"lat": (startLat + endLat) / 2, "lon": (startLon + endLon) / 2},
			{"lat": endLat, "lon": endLon},
		},
		"note": "Mock route - using straight-line distance estimation",
	}, nil
}

// Distance は2点間の直線距離を返す
func (s *Service) Distance(ctx context.Context, startLat, startLon, endLat, endLon float64) (maps.Payload, error) {
	distance := haversine(startLat, startLon, endLat, endLon)

	return maps.Payload{
		"success":        true,
		"start":          map[string]interface{}{"lat": startLat, "lon": startLon},
		"end":            map[string]interface{}{"lat": endLat, "lon": endLon},
		"distance_km":    round2(distance),
		"distance_miles": round2(distance * kmToMiles),
	}, nil
}

// FastestRoute は2地点間の最速経路を返す
// 地点は "lat,lon" 形式の座標または住所文字列
func (s *Service) FastestRoute(ctx context.Context, start, end string) (maps.Payload, error) {
	startLat, startLon, err := s.resolveCoords(ctx, start)
	if err != nil {
		return nil, err
	}

	endLat, endLon, err := s.resolveCoords(ctx, end)
	if err != nil {
		return nil, err
	}

	payload, err := s.Route(ctx, startLat, startLon, endLat, endLon)
	if err != nil {
		return nil, err
	}

	payload["start_location"] = start
	payload["end_location"] = end
	payload["route_type"] = "fastest"

	return payload, nil
}

// resolveCoords は地点文字列を座標に解決
// 座標形式でなければジオコーディングする
func (s *Service) resolveCoords(ctx context.Context, location string) (float64, float64, error) {
	if looksLikeCoords(location) {
		parts := strings.SplitN(location, ",", 2)
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat == nil && errLon == nil {
			return lat, lon, nil
		}
	}

	logger.DebugCF("maps.route", "geocoding location", map[string]interface{}{
		"location": location,
	})

	payload, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		return 0, 0, fmt.Errorf("could not geocode: %s: %w", location, err)
	}

	success, _ := payload["success"].(bool)
	if !success {
		return 0, 0, fmt.Errorf("could not geocode: %s", location)
	}

	lat, latOK := payload["lat"].(float64)
	lon, lonOK := payload["lon"].(float64)
	if !latOK || !lonOK {
		return 0, 0, fmt.Errorf("could not geocode: %s", location)
	}

	return lat, lon, nil
}

// looksLikeCoords は数字・記号のみで構成されたカンマ区切り文字列かを判定
func looksLikeCoords(location string) bool {
	if !strings.Contains(location, ",") {
		return false
	}

	stripped := strings.NewReplacer(".", "", "-", "", ",", "", " ", "").Replace(location)
	if stripped == "" {
		return false
	}

	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
