package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nyukimin/geonavi/internal/domain/routing"
	"github.com/Nyukimin/geonavi/internal/domain/tool"
	"github.com/Nyukimin/geonavi/internal/infrastructure/logger"
)

// Classifier はクエリをツール呼び出しに分類する
type Classifier interface {
	Classify(query string) routing.Decision
}

// Dispatcher はツールを実行する
type Dispatcher interface {
	Execute(ctx context.Context, name string, args map[string]interface{}) tool.Result
}

// QueryResult はクエリ1件の処理結果
type QueryResult struct {
	Query  string
	Server routing.Server
	Tool   string
	Result map[string]interface{}
}

// Assistant はLLMを使わない直接ルーティングのアシスタント
// キーワード分類でツールを決定し、そのまま実行する
type Assistant struct {
	classifier Classifier
	dispatcher Dispatcher
}

// NewAssistant は新しいAssistantを作成
func NewAssistant(classifier Classifier, dispatcher Dispatcher) *Assistant {
	return &Assistant{
		classifier: classifier,
		dispatcher: dispatcher,
	}
}

// Process はクエリを分類・実行し、結果を返す
// ツールの失敗も結果ペイロードに正規化されるため、エラーは返さない
func (a *Assistant) Process(ctx context.Context, query string) QueryResult {
	decision := a.classifier.Classify(query)

	logger.InfoCF("assistant", "processing query", map[string]interface{}{
		"query":  query,
		"server": decision.Server.String(),
		"tool":   decision.Tool,
	})

	result := a.dispatcher.Execute(ctx, decision.Tool, decision.Arguments)

	return QueryResult{
		Query:  query,
		Server: decision.Server,
		Tool:   decision.Tool,
		Result: result.ResultPayload(),
	}
}

// FormatResult は処理結果を表示用に整形
func FormatResult(r QueryResult) string {
	data, err := json.MarshalIndent(r.Result, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf("%v", r.Result))
	}

	separator := strings.Repeat("=", 60)

	var b strings.Builder
	b.WriteString("\n" + separator + "\n")
	b.WriteString(fmt.Sprintf("Server: %s | Tool: %s\n", strings.ToUpper(r.Server.String()), r.Tool))
	b.WriteString(separator + "\n")
	b.Write(data)
	b.WriteString("\n" + separator + "\n")

	return b.String()
}

// ExampleQueries は動作確認用のサンプルクエリを返す
func ExampleQueries() []string {
	return []string{
		"Find cafes near AUB",
		"Geocode American University of Beirut",
		"What's the weather in Beirut?",
		"Get route from Beirut to Tripoli",
		"What's the distance between 33.8938,35.5018 and 34.4344,35.8444?",
		"Temperature at 33.8938, 35.5018",
	}
}
