package routing

import (
	"regexp"
	"strconv"
	"strings"
)

// 抽出失敗時のフォールバック定数
const (
	DefaultLat = 33.8938 // ベイルート
	DefaultLon = 35.5018

	DefaultEndLat = 34.4344 // トリポリ
	DefaultEndLon = 35.8444

	DefaultStartName = "Beirut"
	DefaultEndName   = "Tripoli"

	DefaultPOICategory = "place"

	DefaultTileX = 10
	DefaultTileY = 7
	DefaultZoom  = 5
)

var (
	coordPattern  = regexp.MustCompile(`(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)`)
	tilePattern   = regexp.MustCompile(`tile[_\s]*(\d+)[,\s]+(\d+)[,\s]+zoom[_\s]*(\d+)`)
	fromToPattern = regexp.MustCompile(`from\s+(.+?)\s+to\s+(.+)`)
)

// クエリ先頭から取り除く住所プレフィックス
var addressPrefixes = []string{"find", "geocode", "where is", "address of", "coordinates of"}

// クエリ中のどこかに現れる地名プレフィックス
var locationPrefixes = []string{"weather in", "weather at", "temperature in", "temperature at"}

// POIカテゴリの固定リスト（先頭一致優先）
var poiCategories = []string{"cafe", "restaurant", "park", "hotel", "museum", "hospital"}

// ExtractCoords はクエリから最初の座標ペアを抽出
// 見つからない場合はベイルートの座標を返す
func ExtractCoords(query string) (float64, float64) {
	match := coordPattern.FindStringSubmatch(query)
	if match == nil {
		return DefaultLat, DefaultLon
	}

	lat, errLat := strconv.ParseFloat(match[1], 64)
	lon, errLon := strconv.ParseFloat(match[2], 64)
	if errLat != nil || errLon != nil {
		return DefaultLat, DefaultLon
	}

	return lat, lon
}

// ExtractCoordPairs はクエリ中の全座標ペアをテキスト順に抽出
func ExtractCoordPairs(query string) [][2]float64 {
	matches := coordPattern.FindAllStringSubmatch(query, -1)
	pairs := make([][2]float64, 0, len(matches))

	for _, match := range matches {
		lat, errLat := strconv.ParseFloat(match[1], 64)
		lon, errLon := strconv.ParseFloat(match[2], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		pairs = append(pairs, [2]float64{lat, lon})
	}

	return pairs
}

// ExtractTwoCoords はクエリから始点・終点の座標を抽出
// 座標ペアが2つ未満の場合はベイルート→トリポリを返す
// 3ペア以上あっても最初の2つのみを使用する（意図的な仕様）
func ExtractTwoCoords(query string) (float64, float64, float64, float64) {
	pairs := ExtractCoordPairs(query)
	if len(pairs) >= 2 {
		return pairs[0][0], pairs[0][1], pairs[1][0], pairs[1][1]
	}
	return DefaultLat, DefaultLon, DefaultEndLat, DefaultEndLon
}

// ExtractAddress はクエリから住所部分を抽出
// 既知のプレフィックスが先頭にあれば取り除く
func ExtractAddress(query string) string {
	lower := strings.ToLower(query)
	for _, prefix := range addressPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(query[len(prefix):])
		}
	}
	return strings.TrimSpace(query)
}

// ExtractLocation はクエリから地名部分を抽出
// 既知のプレフィックスがどこかに現れたらその後ろを返す
func ExtractLocation(query string) string {
	lower := strings.ToLower(query)
	for _, prefix := range locationPrefixes {
		if idx := strings.Index(lower, prefix); idx >= 0 {
			return strings.TrimSpace(query[idx+len(prefix):])
		}
	}
	return strings.TrimSpace(query)
}

// ExtractPOI はクエリからPOIカテゴリと検索中心座標を抽出
// カテゴリが見つからない場合は汎用カテゴリを返す
func ExtractPOI(query string) (string, float64, float64) {
	lower := strings.ToLower(query)

	category := DefaultPOICategory
	for _, c := range poiCategories {
		if strings.Contains(lower, c) {
			category = c
			break
		}
	}

	lat, lon := ExtractCoords(query)
	return category, lat, lon
}

// ExtractTile はクエリからタイル座標とズームレベルを抽出
// パターンに一致しない場合は固定タイルを返す
func ExtractTile(query string) (int, int, int) {
	match := tilePattern.FindStringSubmatch(strings.ToLower(query))
	if match == nil {
		return DefaultTileX, DefaultTileY, DefaultZoom
	}

	x, errX := strconv.Atoi(match[1])
	y, errY := strconv.Atoi(match[2])
	zoom, errZ := strconv.Atoi(match[3])
	if errX != nil || errY != nil || errZ != nil {
		return DefaultTileX, DefaultTileY, DefaultZoom
	}

	return x, y, zoom
}

// ExtractLocations はクエリから "from X to Y" 形式の2地点を抽出
// 一致しない場合はベイルート→トリポリを返す
func ExtractLocations(query string) (string, string) {
	match := fromToPattern.FindStringSubmatch(strings.ToLower(query))
	if match == nil {
		return DefaultStartName, DefaultEndName
	}
	return strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
}
