package tool

import (
	"github.com/Nyukimin/geonavi/internal/domain/routing"
)

// ArgType は引数の型制約を表す
type ArgType string

// 引数型の定数定義
const (
	ArgNumber  ArgType = "number"
	ArgInteger ArgType = "integer"
	ArgString  ArgType = "string"
)

// Arg は操作の必須引数を表す
type Arg struct {
	Name        string
	Type        ArgType
	Description string
}

// Operation はサーバーが公開する操作の定義
type Operation struct {
	Name        string
	Server      routing.Server
	Description string
	Args        []Arg // 順序付きの必須引数リスト
}

// Schema はJSON Schema形式のパラメータ定義を返す
func (o Operation) Schema() map[string]interface{} {
	properties := make(map[string]interface{}, len(o.Args))
	required := make([]string, 0, len(o.Args))

	for _, arg := range o.Args {
		properties[arg.Name] = map[string]interface{}{
			"type":        string(arg.Type),
			"description": arg.Description,
		}
		required = append(required, arg.Name)
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Catalog は操作カタログ（起動時に一度構築し、以後不変）
type Catalog struct {
	ops    []Operation
	byName map[string]Operation
}

// NewCatalog は新しいCatalogを作成
func NewCatalog(ops ...Operation) *Catalog {
	byName := make(map[string]Operation, len(ops))
	for _, op := range ops {
		byName[op.Name] = op
	}
	return &Catalog{
		ops:    ops,
		byName: byName,
	}
}

// Lookup は操作名から操作定義を取得
func (c *Catalog) Lookup(name string) (Operation, bool) {
	op, ok := c.byName[name]
	return op, ok
}

// Operations は全操作を定義順に返す
func (c *Catalog) Operations() []Operation {
	return c.ops
}

// DefaultCatalog は全9操作の標準カタログを構築
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Operation{
			Name:        "geocode",
			Server:      routing.ServerGeo,
			Description: "Convert an address to latitude and longitude coordinates. Use this when user asks for coordinates of a location or wants to geocode an address.",
			Args: []Arg{
				{Name: "address", Type: ArgString, Description: "The address to geocode (e.g., 'AUB, Beirut, Lebanon')"},
			},
		},
		Operation{
			Name:        "reverse_geocode",
			Server:      routing.ServerGeo,
			Description: "Convert latitude and longitude coordinates to a formatted address. Use this when user provides coordinates and wants to know the address.",
			Args: []Arg{
				{Name: "lat", Type: ArgNumber, Description: "Latitude coordinate"},
				{Name: "lon", Type: ArgNumber, Description: "Longitude coordinate"},
			},
		},
		Operation{
			Name:        "search_poi",
			Server:      routing.ServerGeo,
			Description: "Search for points of interest (POIs) near a location. Use this when user wants to find cafes, restaurants, parks, hotels, or other places near a location.",
			Args: []Arg{
				{Name: "query", Type: ArgString, Description: "Search query (e.g., 'cafe', 'restaurant', 'park', 'hotel')"},
				{Name: "lat", Type: ArgNumber, Description: "Latitude of the search center"},
				{Name: "lon", Type: ArgNumber, Description: "Longitude of the search center"},
			},
		},
		Operation{
			Name:        "get_route",
			Server:      routing.ServerRouting,
			Description: "Get a route between two points with distance and estimated time. Use this when user wants directions or a route between two locations.",
			Args: []Arg{
				{Name: "start_lat", Type: ArgNumber, Description: "Starting point latitude"},
				{Name: "start_lon", Type: ArgNumber, Description: "Starting point longitude"},
				{Name: "end_lat", Type: ArgNumber, Description: "Destination latitude"},
				{Name: "end_lon", Type: ArgNumber, Description: "Destination longitude"},
			},
		},
		Operation{
			Name:        "get_distance",
			Server:      routing.ServerRouting,
			Description: "Calculate the straight-line distance between two points. Use this when user asks for distance between two locations or coordinates.",
			Args: []Arg{
				{Name: "start_lat", Type: ArgNumber, Description: "Starting point latitude"},
				{Name: "start_lon", Type: ArgNumber, Description: "Starting point longitude"},
				{Name: "end_lat", Type: ArgNumber, Description: "Destination latitude"},
				{Name: "end_lon", Type: ArgNumber, Description: "Destination longitude"},
			},
		},
		Operation{
			Name:        "fastest_route",
			Server:      routing.ServerRouting,
			Description: "Find the fastest route between two locations (can be addresses or coordinates). Use this when user asks for fastest/quickest route.",
			Args: []Arg{
				{Name: "start", Type: ArgString, Description: "Starting address or 'lat,lon' coordinates"},
				{Name: "end", Type: ArgString, Description: "Destination address or 'lat,lon' coordinates"},
			},
		},
		Operation{
			Name:        "get_weather",
			Server:      routing.ServerWeather,
			Description: "Get current weather conditions for a location. Use this when user asks about weather in a place.",
			Args: []Arg{
				{Name: "location", Type: ArgString, Description: "Location name or address (e.g., 'Beirut, Lebanon')"},
			},
		},
		Operation{
			Name:        "get_temperature",
			Server:      routing.ServerWeather,
			Description: "Get temperature at specific coordinates. Use this when user asks for temperature at coordinates.",
			Args: []Arg{
				{Name: "lat", Type: ArgNumber, Description: "Latitude coordinate"},
				{Name: "lon", Type: ArgNumber, Description: "Longitude coordinate"},
			},
		},
		Operation{
			Name:        "weather_overlay",
			Server:      routing.ServerWeather,
			Description: "Get weather overlay data for a map tile. Use this when user asks about weather tiles or overlays.",
			Args: []Arg{
				{Name: "tile_x", Type: ArgInteger, Description: "Tile X coordinate"},
				{Name: "tile_y", Type: ArgInteger, Description: "Tile Y coordinate"},
				{Name: "zoom", Type: ArgInteger, Description: "Zoom level"},
			},
		},
	)
}
