package weather

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Nyukimin/geonavi/internal/domain/maps"
)

var weatherConditions = []string{"sunny", "cloudy", "rainy", "partly cloudy"}

var overlayConditions = []string{"clear", "cloudy", "rainy"}

// Service はモック気象データサービスの実装
// 実際のAPIを使わず、妥当なレンジ内のランダム値を返す
type Service struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewService は新しいServiceを作成
func NewService() *Service {
	return &Service{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Weather は指定地点の現在の天気を返す
func (s *Service) Weather(ctx context.Context, location string) (maps.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Payload{
		"success":        true,
		"location":       location,
		"condition":      weatherConditions[s.rng.Intn(len(weatherConditions))],
		"temperature_c":  round1(s.uniform(15, 30)),
		"temperature_f":  round1(s.uniform(59, 86)),
		"humidity":       40 + s.rng.Intn(41),
		"wind_speed_kmh": round1(s.uniform(5, 25)),
		"note":           "Mock weather data - use real API for actual conditions",
	}, nil
}

// Temperature は指定座標の気温を返す
func (s *Service) Temperature(ctx context.Context, lat, lon float64) (maps.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempC := round1(s.uniform(10, 35))

	return maps.Payload{
		"success":       true,
		"lat":           lat,
		"lon":           lon,
		"temperature_c": tempC,
		"temperature_f": round1(tempC*9/5 + 32),
		"note":          "Mock temperature data - use real API for actual conditions",
	}, nil
}

// Overlay は地図タイルの気象オーバーレイデータを返す
// タイル座標はWebメルカトル方式でlat/lon境界に変換する
func (s *Service) Overlay(ctx context.Context, tileX, tileY, zoom int) (maps.Payload, error) {
	north, west := tileToLatLon(tileX, tileY, zoom)
	south, east := tileToLatLon(tileX+1, tileY+1, zoom)

	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Payload{
		"success": true,
		"tile":    map[string]interface{}{"x": tileX, "y": tileY, "zoom": zoom},
		"bounds": map[string]interface{}{
			"north": round6(north),
			"south": round6(south),
			"east":  round6(east),
			"west":  round6(west),
		},
		"weather_data": map[string]interface{}{
			"condition":       overlayConditions[s.rng.Intn(len(overlayConditions))],
			"temperature_avg": round1(s.uniform(15, 30)),
			"precipitation":   s.rng.Intn(2) == 0,
		},
		"note": "Mock overlay data - use real API for actual weather tiles",
	}, nil
}

// tileToLatLon はタイル座標の北西角をlat/lonに変換
func tileToLatLon(tileX, tileY, zoom int) (lat, lon float64) {
	n := math.Pow(2, float64(zoom))
	lon = float64(tileX)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(tileY)/n)))
	lat = latRad * 180 / math.Pi
	return lat, lon
}

func (s *Service) uniform(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round6(v float64) float64 {
	return math.Round(v*1000000) / 1000000
}
