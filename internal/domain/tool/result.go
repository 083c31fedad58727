package tool

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invocation は単一のツール実行要求を表す
type Invocation struct {
	ID        string                 // 会話ターン内で結果を対応付けるための一意識別子
	Name      string                 // 操作名
	Arguments map[string]interface{} // 引数
}

// NewInvocationID は新しい実行IDを生成
func NewInvocationID() string {
	// フォーマット: YYYYMMDD-HHMMSS-{UUID先頭8文字}
	now := time.Now()
	datePrefix := now.Format("20060102-150405")
	uuidStr := uuid.New().String()[:8]

	return fmt.Sprintf("%s-%s", datePrefix, uuidStr)
}

// Result はツール実行の結果（成功または失敗のいずれか一方のみ）
type Result struct {
	OK      bool
	Tool    string
	Payload map[string]interface{} // 成功時のみ
	Err     string                 // 失敗時のみ
}

// Success は成功Resultを作成
func Success(toolName string, payload map[string]interface{}) Result {
	return Result{
		OK:      true,
		Tool:    toolName,
		Payload: payload,
	}
}

// Failure は失敗Resultを作成
func Failure(toolName, message string) Result {
	return Result{
		OK:   false,
		Tool: toolName,
		Err:  message,
	}
}

// ResultPayload は推論エンジンや呼び出し元に渡すペイロードを返す
// 失敗時は success=false とエラーメッセージを含むマップに正規化する
func (r Result) ResultPayload() map[string]interface{} {
	if r.OK {
		return r.Payload
	}
	return map[string]interface{}{
		"success": false,
		"error":   r.Err,
	}
}
