package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nyukimin/geonavi/internal/domain/llm"
	"github.com/Nyukimin/geonavi/internal/domain/maps"
	"github.com/Nyukimin/geonavi/internal/domain/tool"
	"github.com/Nyukimin/geonavi/internal/infrastructure/logger"
)

// handlerFunc は検証済み引数でプロバイダー操作を呼び出す
type handlerFunc func(ctx context.Context, args map[string]interface{}) (maps.Payload, error)

// Dispatcher はツール名から各プロバイダー操作への振り分けを行う
// Executeはエラーを返さない。すべての失敗はResultに正規化される
type Dispatcher struct {
	catalog  *tool.Catalog
	handlers map[string]handlerFunc
}

// NewDispatcher は3プロバイダーを束ねたDispatcherを作成
func NewDispatcher(catalog *tool.Catalog, geo maps.GeoProvider, route maps.RouteProvider, weather maps.WeatherProvider) *Dispatcher {
	d := &Dispatcher{
		catalog:  catalog,
		handlers: make(map[string]handlerFunc),
	}

	d.handlers["geocode"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return geo.Geocode(ctx, args["address"].(string))
	}
	d.handlers["reverse_geocode"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return geo.ReverseGeocode(ctx, args["lat"].(float64), args["lon"].(float64))
	}
	d.handlers["search_poi"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return geo.SearchPOI(ctx, args["query"].(string), args["lat"].(float64), args["lon"].(float64))
	}
	d.handlers["get_route"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return route.Route(ctx,
			args["start_lat"].(float64), args["start_lon"].(float64),
			args["end_lat"].(float64), args["end_lon"].(float64))
	}
	d.handlers["get_distance"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return route.Distance(ctx,
			args["start_lat"].(float64), args["start_lon"].(float64),
			args["end_lat"].(float64), args["end_lon"].(float64))
	}
	d.handlers["fastest_route"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return route.FastestRoute(ctx, args["start"].(string), args["end"].(string))
	}
	d.handlers["get_weather"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return weather.Weather(ctx, args["location"].(string))
	}
	d.handlers["get_temperature"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return weather.Temperature(ctx, args["lat"].(float64), args["lon"].(float64))
	}
	d.handlers["weather_overlay"] = func(ctx context.Context, args map[string]interface{}) (maps.Payload, error) {
		return weather.Overlay(ctx, args["tile_x"].(int), args["tile_y"].(int), args["zoom"].(int))
	}

	return d
}

// Execute はツールを実行し、結果を常にResultとして返す
// 未知のツール、引数不正、プロバイダーエラーはすべて失敗Resultに正規化
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]interface{}) (result tool.Result) {
	// ハンドラー内のpanicも失敗Resultとして回収する
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("dispatcher", "tool execution panicked", map[string]interface{}{
				"tool":  name,
				"panic": fmt.Sprintf("%v", r),
			})
			result = tool.Failure(name, fmt.Sprintf("tool execution failed: %v", r))
		}
	}()

	op, ok := d.catalog.Lookup(name)
	if !ok {
		return tool.Failure(name, fmt.Sprintf("unknown tool: %s", name))
	}

	validated, err := validateArgs(op, args)
	if err != nil {
		logger.WarnCF("dispatcher", "argument validation failed", map[string]interface{}{
			"tool":  name,
			"error": err.Error(),
		})
		return tool.Failure(name, err.Error())
	}

	handler := d.handlers[name]

	logger.InfoCF("dispatcher", "executing tool", map[string]interface{}{
		"tool":   name,
		"server": op.Server.String(),
	})

	payload, err := handler(ctx, validated)
	if err != nil {
		logger.ErrorCF("dispatcher", "tool execution failed", map[string]interface{}{
			"tool":  name,
			"error": err.Error(),
		})
		return tool.Failure(name, err.Error())
	}

	return tool.Success(name, payload)
}

// Definitions はカタログ全体をLLMのfunction calling定義に変換
func (d *Dispatcher) Definitions() []llm.ToolDefinition {
	ops := d.catalog.Operations()

	defs := make([]llm.ToolDefinition, 0, len(ops))
	for _, op := range ops {
		defs = append(defs, llm.ToolDefinition{
			Type: "function",
			Function: llm.FunctionSchema{
				Name:        op.Name,
				Description: op.Description,
				Parameters:  op.Schema(),
			},
		})
	}

	return defs
}

// validateArgs は操作定義に対して引数を検証し、型を正規化して返す
// JSON経由の数値はfloat64で届くため、integerは整数値のfloat64も受理する
func validateArgs(op tool.Operation, args map[string]interface{}) (map[string]interface{}, error) {
	validated := make(map[string]interface{}, len(op.Args))

	for _, arg := range op.Args {
		raw, ok := args[arg.Name]
		if !ok || raw == nil {
			return nil, fmt.Errorf("missing required argument: %s", arg.Name)
		}

		switch arg.Type {
		case tool.ArgNumber:
			f, ok := toFloat(raw)
			if !ok {
				return nil, fmt.Errorf("argument %s must be a number", arg.Name)
			}
			validated[arg.Name] = f

		case tool.ArgInteger:
			f, ok := toFloat(raw)
			if !ok || f != float64(int(f)) {
				return nil, fmt.Errorf("argument %s must be an integer", arg.Name)
			}
			validated[arg.Name] = int(f)

		case tool.ArgString:
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("argument %s must be a string", arg.Name)
			}
			validated[arg.Name] = s

		default:
			validated[arg.Name] = raw
		}
	}

	return validated, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
