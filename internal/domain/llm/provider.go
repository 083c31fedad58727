package llm

import "context"

// Message は会話メッセージを表す
type Message struct {
	Role       string     // "user", "assistant", "system", "tool"
	Content    string
	ToolCalls  []ToolCall // assistantメッセージが要求したツール呼び出し
	ToolCallID string     // toolメッセージの対応するツール呼び出しID
	Name       string     // toolメッセージのツール名
}

// ToolCall はOpenAI function calling形式のツール呼び出し
type ToolCall struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Function *FunctionCall `json:"function"`
}

// FunctionCall は呼び出される関数の名前と引数（JSON文字列）
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition はLLMに公開するツール定義
type ToolDefinition struct {
	Type     string         `json:"type"`
	Function FunctionSchema `json:"function"`
}

// FunctionSchema は関数のスキーマ定義
type FunctionSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// PendingCall はレスポンスに含まれるツール呼び出し（引数パース済み）
type PendingCall struct {
	ID        string
	Name      string
	Arguments map[string]interface{}
}

// ChatRequest はLLMチャットリクエスト
type ChatRequest struct {
	Messages    []Message
	Tools       []ToolDefinition
	MaxTokens   int
	Temperature float64
}

// ChatResponse はLLMチャットレスポンス
type ChatResponse struct {
	Content      string
	ToolCalls    []PendingCall
	TokensUsed   int
	FinishReason string
}

// LLMProvider は推論エンジンの抽象化
type LLMProvider interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	Name() string
}
