package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/geonavi/internal/domain/maps"
	"github.com/Nyukimin/geonavi/internal/domain/tool"
)

// fakeGeo は呼び出し回数を記録するGeoProvider
type fakeGeo struct {
	calls   int
	payload maps.Payload
	err     error
}

func (f *fakeGeo) Geocode(ctx context.Context, address string) (maps.Payload, error) {
	f.calls++
	return f.payload, f.err
}

func (f *fakeGeo) ReverseGeocode(ctx context.Context, lat, lon float64) (maps.Payload, error) {
	f.calls++
	return f.payload, f.err
}

func (f *fakeGeo) SearchPOI(ctx context.Context, query string, lat, lon float64) (maps.Payload, error) {
	f.calls++
	return f.payload, f.err
}

type fakeRoute struct {
	calls   int
	payload maps.Payload
	err     error
}

func (f *fakeRoute) Route(ctx context.Context, startLat, startLon, endLat, endLon float64) (maps.Payload, error) {
	f.calls++
	return f.payload, f.err
}

func (f *fakeRoute) Distance(ctx context.Context, startLat, startLon, endLat, endLon float64) (maps.Payload, error) {
	f.calls++
	return f.payload, f.err
}

func (f *fakeRoute) FastestRoute(ctx context.Context, start, end string) (maps.Payload, error) {
	f.calls++
	return f.payload, f.err
}

type fakeWeather struct {
	calls    int
	lastTile [3]int
	payload  maps.Payload
	err      error
}

func (f *fakeWeather) Weather(ctx context.Context, location string) (maps.Payload, error) {
	f.calls++
	return f.payload, f.err
}

func (f *fakeWeather) Temperature(ctx context.Context, lat, lon float64) (maps.Payload, error) {
	f.calls++
	return f.payload, f.err
}

func (f *fakeWeather) Overlay(ctx context.Context, tileX, tileY, zoom int) (maps.Payload, error) {
	f.calls++
	f.lastTile = [3]int{tileX, tileY, zoom}
	return f.payload, f.err
}

func newTestDispatcher() (*Dispatcher, *fakeGeo, *fakeRoute, *fakeWeather) {
	geo := &fakeGeo{payload: maps.Payload{"success": true}}
	route := &fakeRoute{payload: maps.Payload{"success": true}}
	weather := &fakeWeather{payload: maps.Payload{"success": true}}
	return NewDispatcher(tool.DefaultCatalog(), geo, route, weather), geo, route, weather
}

func TestDispatcher_Execute_Success(t *testing.T) {
	d, geo, _, _ := newTestDispatcher()

	result := d.Execute(context.Background(), "geocode", map[string]interface{}{
		"address": "AUB, Beirut",
	})

	assert.True(t, result.OK)
	assert.Equal(t, "geocode", result.Tool)
	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, true, result.Payload["success"])
}

func TestDispatcher_Execute_UnknownTool(t *testing.T) {
	d, geo, route, weather := newTestDispatcher()

	result := d.Execute(context.Background(), "launch_rocket", map[string]interface{}{})

	assert.False(t, result.OK)
	assert.Equal(t, "unknown tool: launch_rocket", result.Err)
	assert.Equal(t, 0, geo.calls+route.calls+weather.calls)
}

func TestDispatcher_Execute_Validation(t *testing.T) {
	tests := []struct {
		name     string
		toolName string
		args     map[string]interface{}
		wantErr  string
	}{
		{
			name:     "必須引数の欠落",
			toolName: "geocode",
			args:     map[string]interface{}{},
			wantErr:  "missing required argument: address",
		},
		{
			name:     "nilの引数は欠落扱い",
			toolName: "get_weather",
			args:     map[string]interface{}{"location": nil},
			wantErr:  "missing required argument: location",
		},
		{
			name:     "数値引数に文字列",
			toolName: "reverse_geocode",
			args:     map[string]interface{}{"lat": "33.89", "lon": 35.50},
			wantErr:  "argument lat must be a number",
		},
		{
			name:     "整数引数に小数",
			toolName: "weather_overlay",
			args:     map[string]interface{}{"tile_x": 10.5, "tile_y": 7, "zoom": 5},
			wantErr:  "argument tile_x must be an integer",
		},
		{
			name:     "文字列引数に数値",
			toolName: "get_weather",
			args:     map[string]interface{}{"location": 42.0},
			wantErr:  "argument location must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, geo, route, weather := newTestDispatcher()

			result := d.Execute(context.Background(), tt.toolName, tt.args)

			assert.False(t, result.OK)
			assert.Equal(t, tt.wantErr, result.Err)
			// 検証失敗時はプロバイダーを呼ばない
			assert.Equal(t, 0, geo.calls+route.calls+weather.calls)
		})
	}
}

func TestDispatcher_Execute_IntegerAcceptsIntegralFloat(t *testing.T) {
	// JSON経由の整数はfloat64で届く
	d, _, _, weather := newTestDispatcher()

	result := d.Execute(context.Background(), "weather_overlay", map[string]interface{}{
		"tile_x": 10.0,
		"tile_y": 7.0,
		"zoom":   5.0,
	})

	require.True(t, result.OK)
	assert.Equal(t, [3]int{10, 7, 5}, weather.lastTile)
}

func TestDispatcher_Execute_ProviderError(t *testing.T) {
	geo := &fakeGeo{err: errors.New("nominatim API error: status=503")}
	d := NewDispatcher(tool.DefaultCatalog(), geo, &fakeRoute{}, &fakeWeather{})

	result := d.Execute(context.Background(), "geocode", map[string]interface{}{
		"address": "Beirut",
	})

	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Err)

	// LLMへ返すペイロードはsuccess=falseに正規化される
	payload := result.ResultPayload()
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, result.Err, payload["error"])
}

func TestDispatcher_Execute_AllCatalogToolsRouted(t *testing.T) {
	d, geo, route, weather := newTestDispatcher()

	argsByTool := map[string]map[string]interface{}{
		"geocode":         {"address": "Beirut"},
		"reverse_geocode": {"lat": 33.89, "lon": 35.50},
		"search_poi":      {"query": "cafe", "lat": 33.89, "lon": 35.50},
		"get_route":       {"start_lat": 33.89, "start_lon": 35.50, "end_lat": 34.43, "end_lon": 35.84},
		"get_distance":    {"start_lat": 33.89, "start_lon": 35.50, "end_lat": 34.43, "end_lon": 35.84},
		"fastest_route":   {"start": "Beirut", "end": "Tripoli"},
		"get_weather":     {"location": "Beirut"},
		"get_temperature": {"lat": 33.89, "lon": 35.50},
		"weather_overlay": {"tile_x": 10, "tile_y": 7, "zoom": 5},
	}

	for name, args := range argsByTool {
		result := d.Execute(context.Background(), name, args)
		assert.True(t, result.OK, "tool %s should succeed", name)
	}

	assert.Equal(t, 3, geo.calls)
	assert.Equal(t, 3, route.calls)
	assert.Equal(t, 3, weather.calls)
}

func TestDispatcher_Definitions(t *testing.T) {
	d, _, _, _ := newTestDispatcher()

	defs := d.Definitions()

	require.Len(t, defs, 9)

	names := make(map[string]bool)
	for _, def := range defs {
		assert.Equal(t, "function", def.Type)
		assert.NotEmpty(t, def.Function.Description)
		assert.Equal(t, "object", def.Function.Parameters["type"])
		names[def.Function.Name] = true
	}

	assert.True(t, names["geocode"])
	assert.True(t, names["weather_overlay"])
}
