package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nyukimin/geonavi/internal/domain/llm"
	"github.com/Nyukimin/geonavi/internal/domain/tool"
	"github.com/Nyukimin/geonavi/internal/infrastructure/logger"
)

// 無限ループ防止のための推論回数上限
const defaultMaxIterations = 5

const (
	retryMessage = "I'm having trouble processing your request. Please try again with a simpler question."

	emptyResponseMessage = "I processed your request but didn't get a response. Please try rephrasing your question."
)

const systemPrompt = `You are a helpful assistant that can help users with geocoding, routing, and weather queries.
You have access to several tools:
- Geo tools: geocode addresses, reverse geocode coordinates, search for points of interest (REAL DATA from OpenStreetMap)
- Routing tools: get routes, calculate distances, find fastest routes (MOCK DATA - but distance calculations are accurate)
- Weather tools: get weather, temperature and tile overlays (MOCK DATA)

IMPORTANT INSTRUCTIONS:
1. When a user asks about a location by name (like "AUB", "Beirut", "Tripoli"), you may need to geocode it first to get coordinates
2. For POI searches, you need coordinates - if the user gives a location name, geocode it first, then search for POIs
3. For routing between locations, geocode both locations first, then call get_route or get_distance
4. Always use the tools when appropriate - don't just guess or make up information
5. After calling tools, provide a clear, helpful response based on the actual results

Example workflow:
- User: "Find cafes near AUB"
- Step 1: Call geocode("AUB") to get coordinates
- Step 2: Call search_poi("cafe", lat, lon) with the coordinates from step 1
- Step 3: Present the results to the user`

// ToolExecutor はツールの実行と定義の列挙を提供する
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]interface{}) tool.Result
	Definitions() []llm.ToolDefinition
}

// Options はConversationの動作設定
type Options struct {
	MaxIterations int
	MaxTokens     int
	Temperature   float64
}

// Conversation はLLMによるツール呼び出しの会話ループを統括
// 履歴はプロセス内に保持し、ツール結果を含めてLLMに渡す
type Conversation struct {
	provider      llm.LLMProvider
	tools         ToolExecutor
	maxIterations int
	maxTokens     int
	temperature   float64
	history       []llm.Message
}

// NewConversation は新しいConversationを作成
func NewConversation(provider llm.LLMProvider, tools ToolExecutor, opts Options) *Conversation {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	return &Conversation{
		provider:      provider,
		tools:         tools,
		maxIterations: maxIterations,
		maxTokens:     maxTokens,
		temperature:   temperature,
		history: []llm.Message{
			{Role: "system", Content: systemPrompt},
		},
	}
}

// Process はユーザーメッセージを処理し、最終応答を返す
// LLMがツールを要求する限り実行と再問い合わせを繰り返し、上限に達したら打ち切る
func (c *Conversation) Process(ctx context.Context, userMessage string) (string, error) {
	c.history = append(c.history, llm.Message{
		Role:    "user",
		Content: userMessage,
	})

	for iteration := 0; iteration < c.maxIterations; iteration++ {
		resp, err := c.provider.Chat(ctx, llm.ChatRequest{
			Messages:    c.history,
			Tools:       c.tools.Definitions(),
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		})
		if err != nil {
			return "", fmt.Errorf("llm chat failed: %w", err)
		}

		logger.DebugCF("orchestrator", "llm response", map[string]interface{}{
			"iteration":   iteration + 1,
			"tool_calls":  len(resp.ToolCalls),
			"tokens_used": resp.TokensUsed,
		})

		// IDのないツール呼び出しにも相関IDを振っておく
		for i := range resp.ToolCalls {
			if resp.ToolCalls[i].ID == "" {
				resp.ToolCalls[i].ID = tool.NewInvocationID()
			}
		}

		c.history = append(c.history, assistantMessage(resp))

		if len(resp.ToolCalls) == 0 {
			if resp.Content == "" {
				return emptyResponseMessage, nil
			}
			return resp.Content, nil
		}

		for _, call := range resp.ToolCalls {
			logger.InfoCF("orchestrator", "tool call requested", map[string]interface{}{
				"tool": call.Name,
				"id":   call.ID,
			})

			result := c.tools.Execute(ctx, call.Name, call.Arguments)

			content, err := json.Marshal(result.ResultPayload())
			if err != nil {
				content = []byte(fmt.Sprintf(`{"success":false,"error":"%s"}`, err))
			}

			c.history = append(c.history, llm.Message{
				Role:       "tool",
				Content:    string(content),
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}

	logger.WarnCF("orchestrator", "iteration limit reached", map[string]interface{}{
		"max_iterations": c.maxIterations,
	})

	return retryMessage, nil
}

// Reset は会話履歴をシステムプロンプトのみに戻す
func (c *Conversation) Reset() {
	c.history = []llm.Message{
		{Role: "system", Content: systemPrompt},
	}
}

// History は現在の会話履歴のコピーを返す
func (c *Conversation) History() []llm.Message {
	out := make([]llm.Message, len(c.history))
	copy(out, c.history)
	return out
}

// assistantMessage はLLM応答を履歴用のassistantメッセージに変換
// ツール呼び出しはOpenAI互換のtool_calls形式で保持する
func assistantMessage(resp llm.ChatResponse) llm.Message {
	msg := llm.Message{
		Role:    "assistant",
		Content: resp.Content,
	}

	for _, call := range resp.ToolCalls {
		args, err := json.Marshal(call.Arguments)
		if err != nil {
			args = []byte("{}")
		}

		msg.ToolCalls = append(msg.ToolCalls, llm.ToolCall{
			ID:   call.ID,
			Type: "function",
			Function: &llm.FunctionCall{
				Name:      call.Name,
				Arguments: string(args),
			},
		})
	}

	return msg
}
