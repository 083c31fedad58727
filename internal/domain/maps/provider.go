package maps

import "context"

// Payload はプロバイダーが返す結果データ
// 少なくとも success フィールドを持ち、失敗時は error フィールドを含む
type Payload map[string]interface{}

// GeoProvider はジオコーディングサービスの抽象化
type GeoProvider interface {
	Geocode(ctx context.Context, address string) (Payload, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (Payload, error)
	SearchPOI(ctx context.Context, query string, lat, lon float64) (Payload, error)
}

// RouteProvider は経路・距離計算サービスの抽象化
type RouteProvider interface {
	Route(ctx context.Context, startLat, startLon, endLat, endLon float64) (Payload, error)
	Distance(ctx context.Context, startLat, startLon, endLat, endLon float64) (Payload, error)
	FastestRoute(ctx context.Context, start, end string) (Payload, error)
}

// WeatherProvider は天気情報サービスの抽象化
type WeatherProvider interface {
	Weather(ctx context.Context, location string) (Payload, error)
	Temperature(ctx context.Context, lat, lon float64) (Payload, error)
	Overlay(ctx context.Context, tileX, tileY, zoom int) (Payload, error)
}
