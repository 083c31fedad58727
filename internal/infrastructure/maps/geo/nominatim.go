package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Nyukimin/geonavi/internal/domain/maps"
	"github.com/Nyukimin/geonavi/internal/infrastructure/logger"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "geonavi/1.0"
)

// NominatimProvider はNominatim APIによるジオコーディング実装
type NominatimProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimProvider は新しいNominatimProviderを作成
// baseURL/userAgentが空の場合はデフォルト値を使用
func NewNominatimProvider(baseURL, userAgent string) *NominatimProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &NominatimProvider{
		baseURL:   baseURL,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// nominatimPlace はNominatimレスポンスの1件分
// lat/lonは文字列で返ってくる
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Error       string `json:"error"`
}

// Geocode は住所を座標に変換
func (p *NominatimProvider) Geocode(ctx context.Context, address string) (maps.Payload, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	var places []nominatimPlace
	if err := p.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	if len(places) == 0 {
		return maps.Payload{
			"success": false,
			"error":   "Address not found",
			"address": address,
		}, nil
	}

	place := places[0]
	return maps.Payload{
		"success": true,
		"address": displayNameOr(place.DisplayName, address),
		"lat":     parseFloat(place.Lat),
		"lon":     parseFloat(place.Lon),
		"type":    typeOrUnknown(place.Type),
	}, nil
}

// ReverseGeocode は座標を住所に変換
func (p *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (maps.Payload, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	var place nominatimPlace
	if err := p.get(ctx, "/reverse", params, &place); err != nil {
		return nil, err
	}

	if place.Error != "" {
		return maps.Payload{
			"success": false,
			"error":   place.Error,
			"lat":     lat,
			"lon":     lon,
		}, nil
	}

	return maps.Payload{
		"success": true,
		"address": displayNameOr(place.DisplayName, "Unknown address"),
		"lat":     lat,
		"lon":     lon,
		"type":    typeOrUnknown(place.Type),
	}, nil
}

// SearchPOI は指定座標の周辺でPOIを検索
func (p *NominatimProvider) SearchPOI(ctx context.Context, query string, lat, lon float64) (maps.Payload, error) {
	latStr := strconv.FormatFloat(lat, 'f', -1, 64)
	lonStr := strconv.FormatFloat(lon, 'f', -1, 64)

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s near %s,%s", query, latStr, lonStr))
	params.Set("format", "json")
	params.Set("limit", "10")
	params.Set("lat", latStr)
	params.Set("lon", lonStr)

	var places []nominatimPlace
	if err := p.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0, len(places))
	for _, place := range places {
		results = append(results, map[string]interface{}{
			"name":     displayNameOr(place.DisplayName, "Unknown"),
			"lat":      parseFloat(place.Lat),
			"lon":      parseFloat(place.Lon),
			"type":     typeOrUnknown(place.Type),
			"category": typeOrUnknown(place.Category),
		})
	}

	return maps.Payload{
		"success": true,
		"query":   query,
		"center":  map[string]interface{}{"lat": lat, "lon": lon},
		"count":   len(results),
		"results": results,
	}, nil
}

// get はNominatimエンドポイントへのGETリクエストを実行
func (p *NominatimProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := p.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Nominatimの利用規約によりUser-Agentは必須
	req.Header.Set("User-Agent", p.userAgent)

	logger.DebugCF("maps.geo", "nominatim request", map[string]interface{}{
		"path": path,
	})

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim API error: status=%d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func displayNameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func typeOrUnknown(t string) string {
	if t == "" {
		return "unknown"
	}
	return t
}
