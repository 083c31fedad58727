package openai

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

const defaultBaseURL = "https://api.openai.com"

// OpenAIProvider はOpenAI APIプロバイダーの実装（function calling対応）
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider は新しいOpenAIProviderを作成
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SetBaseURL はベースURLを設定（テスト用）
func (p *OpenAIProvider) SetBaseURL(url string) {
	p.baseURL = url
}

// Chat はツール定義付きでチャット補完を実行
func (p *OpenAIProvider) Chat(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	// OpenAI APIリクエスト構築
	openaiReq := map[string]interface{}{
		"model":    p.model,
		"messages": convertMessages(req.Messages),
	}

	// ツール定義（function calling）
	if len(req.Tools) > 0 {
		openaiReq["tools"] = req.Tools
		openaiReq["tool_choice"] = "auto"
	}

	if req.MaxTokens > 0 {
		openaiReq["max_tokens"] = req.MaxTokens
	}

	if req.Temperature > 0 {
		openaiReq["temperature"] = req.Temperature
	}

	reqBody, err := json.Marshal(openaiReq)
	if err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	// HTTPリクエスト作成
	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	logger.DebugCF("llm.openai", "chat request", map[string]interface{}{
		"model":          p.model,
		"messages_count": len(req.Messages),
		"tools_count":    len(req.Tools),
	})

	// リクエスト実行
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return llm.ChatResponse{}, fmt.Errorf("openai API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	return parseResponse(body)
}

// Name はプロバイダー名を返す
func (p *OpenAIProvider) Name() string {
	return fmt.Sprintf("openai-%s", p.model)
}

// convertMessages はドメインメッセージをOpenAI APIフォーマットに変換
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

// parseResponse はOpenAI APIレスポンスをパース
func parseResponse(body []byte) (llm.ChatResponse, error) {
	var openaiResp struct {
		Choices []struct {
			Message struct {
				Role      string `json:"role"`
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

	if err := json.Unmarshal(body, &openaiResp); err != nil {
		return llm.ChatResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(openaiResp.Choices) == 0 {
		return llm.ChatResponse{FinishReason: "stop"}, nil
	}

	choice := openaiResp.Choices[0]

	toolCalls := make([]llm.PendingCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		if tc.Function == nil {
			continue
		}

		arguments := make(map[string]interface{})
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &arguments); err != nil {
				// パース不能な引数はそのまま渡して後段で検証エラーにする
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
		TokensUsed:   openaiResp.Usage.TotalTokens,
		FinishReason: choice.FinishReason,
	}, nil
}
