package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nyukimin/geonavi/internal/domain/routing"
	"github.com/Nyukimin/geonavi/internal/domain/tool"
)

type stubClassifier struct {
	decision routing.Decision
}

func (s *stubClassifier) Classify(query string) routing.Decision {
	return s.decision
}

type stubDispatcher struct {
	lastName string
	lastArgs map[string]interface{}
	result   tool.Result
}

func (s *stubDispatcher) Execute(ctx context.Context, name string, args map[string]interface{}) tool.Result {
	s.lastName = name
	s.lastArgs = args
	return s.result
}

func TestAssistant_Process(t *testing.T) {
	classifier := &stubClassifier{
		decision: routing.NewDecision(routing.ServerGeo, "geocode", map[string]interface{}{
			"address": "AUB, Beirut",
		}),
	}
	dispatcher := &stubDispatcher{
		result: tool.Success("geocode", map[string]interface{}{
			"success": true,
			"lat":     33.9008,
			"lon":     35.4823,
		}),
	}

	assistant := NewAssistant(classifier, dispatcher)

	result := assistant.Process(context.Background(), "Geocode AUB")

	assert.Equal(t, "Geocode AUB", result.Query)
	assert.Equal(t, routing.ServerGeo, result.Server)
	assert.Equal(t, "geocode", result.Tool)
	assert.Equal(t, true, result.Result["success"])

	// 分類結果の引数がそのままディスパッチャーに渡る
	assert.Equal(t, "geocode", dispatcher.lastName)
	assert.Equal(t, "AUB, Beirut", dispatcher.lastArgs["address"])
}

func TestAssistant_Process_ToolFailure(t *testing.T) {
	classifier := &stubClassifier{
		decision: routing.NewDecision(routing.ServerWeather, "get_weather", map[string]interface{}{
			"location": "Beirut",
		}),
	}
	dispatcher := &stubDispatcher{
		result: tool.Failure("get_weather", "weather service unavailable"),
	}

	assistant := NewAssistant(classifier, dispatcher)

	result := assistant.Process(context.Background(), "What's the weather in Beirut?")

	// 失敗もペイロードに正規化されて返る
	assert.Equal(t, false, result.Result["success"])
	assert.Equal(t, "weather service unavailable", result.Result["error"])
}

func TestFormatResult(t *testing.T) {
	result := QueryResult{
		Query:  "Geocode AUB",
		Server: routing.ServerGeo,
		Tool:   "geocode",
		Result: map[string]interface{}{"success": true, "lat": 33.9008},
	}

	formatted := FormatResult(result)

	assert.Contains(t, formatted, "Server: GEO | Tool: geocode")
	assert.Contains(t, formatted, `"success": true`)
	assert.Contains(t, formatted, strings.Repeat("=", 60))
}

func TestExampleQueries(t *testing.T) {
	queries := ExampleQueries()

	assert.Len(t, queries, 6)
	assert.Contains(t, queries, "Find cafes near AUB")
}
