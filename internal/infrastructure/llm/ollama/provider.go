package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Nyukimin/geonavi/internal/domain/llm"
	"github.com/Nyukimin/geonavi/internal/infrastructure/logger"
)

const defaultBaseURL = "http://localhost:11434"

// OllamaProvider はOllamaのOpenAI互換エンドポイント実装（function calling対応）
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider は新しいOllamaProviderを作成
func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Chat はツール定義付きでチャット補完を実行
func (p *OllamaProvider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	ollamaReq := map[string]interface{}{
		"model":    p.model,
		"messages": convertMessages(req.Messages),
		// モデルを常駐させ、コンテキスト長を抑えて安定させる
		"keep_alive": -1,
		"options": map[string]interface{}{
			"num_ctx": 8192,
		},
	}

	if len(req.Tools) > 0 {
		ollamaReq["tools"] = req.Tools
		ollamaReq["tool_choice"] = "auto"
	}

	if req.MaxTokens > 0 {
		ollamaReq["max_tokens"] = req.MaxTokens
	}

	if req.Temperature > 0 {
		ollamaReq["temperature"] = req.Temperature
	}

	reqBody, err := json.Marshal(ollamaReq)
	if err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	logger.DebugCF("llm.ollama", "chat request", map[string]interface{}{
		"model":          p.model,
		"messages_count": len(req.Messages),
		"tools_count":    len(req.Tools),
	})

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return llm.ChatResponse{}, fmt.Errorf("ollama API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	return parseResponse(body)
}

// Name はプロバイダー名を返す
func (p *OllamaProvider) Name() string {
	return fmt.Sprintf("ollama-%s", p.model)
}

// convertMessages はドメインメッセージをOpenAI互換フォーマットに変換
func convertMessages(messages []llm.Message) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(messages))

	for _, msg := range messages {
		entry := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}

		if len(msg.ToolCalls) > 0 {
			entry["tool_calls"] = msg.ToolCalls
		}
		if msg.ToolCallID != "" {
			entry["tool_call_id"] = msg.ToolCallID
		}
		if msg.Role == "tool" && msg.Name != "" {
			entry["name"] = msg.Name
		}

		out = append(out, entry)
	}

	return out
}

// parseResponse はOpenAI互換レスポンスをパース
func parseResponse(body []byte) (llm.ChatResponse, error) {
	var ollamaResp struct {
		Choices []struct {
			Message struct {
				Content   string `json:"content"`
				ToolCalls []struct {
					ID       string `json:"id"`
					Type     string `json:"type"`
					Function *struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(ollamaResp.Choices) == 0 {
		return llm.ChatResponse{FinishReason: "stop"}, nil
	}

	choice := ollamaResp.Choices[0]

	toolCalls := make([]llm.PendingCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		if tc.Function == nil {
			continue
		}

		arguments := make(map[string]interface{})
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &arguments); err != nil {
				arguments["raw"] = tc.Function.Arguments
			}
		}

		toolCalls = append(toolCalls, llm.PendingCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: arguments,
		})
	}

	return llm.ChatResponse{
		Content:      choice.Message.Content,
		ToolCalls:    toolCalls,
		TokensUsed:   ollamaResp.Usage.TotalTokens,
		FinishReason: choice.FinishReason,
	}, nil
}
