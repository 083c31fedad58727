package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level はログレベルを表す
type Level int

// ログレベルの定数定義
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu       sync.Mutex
	minLevel = LevelInfo
	output   io.Writer = os.Stderr
)

// SetLevel はログレベルを文字列で設定（"debug", "info", "warn", "error"）
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()

	switch strings.ToLower(level) {
	case "debug":
		minLevel = LevelDebug
	case "info":
		minLevel = LevelInfo
	case "warn", "warning":
		minLevel = LevelWarn
	case "error":
		minLevel = LevelError
	}
}

// SetOutput は出力先を設定（テスト用）
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// DebugCF はコンポーネントとフィールド付きでDEBUGログを出力
func DebugCF(component, message string, fields map[string]interface{}) {
	logCF(LevelDebug, "DEBUG", component, message, fields)
}

// InfoCF はコンポーネントとフィールド付きでINFOログを出力
func InfoCF(component, message string, fields map[string]interface{}) {
	logCF(LevelInfo, "INFO", component, message, fields)
}

// WarnCF はコンポーネントとフィールド付きでWARNログを出力
func WarnCF(component, message string, fields map[string]interface{}) {
	logCF(LevelWarn, "WARN", component, message, fields)
}

// ErrorCF はコンポーネントとフィールド付きでERRORログを出力
func ErrorCF(component, message string, fields map[string]interface{}) {
	logCF(LevelError, "ERROR", component, message, fields)
}

func logCF(level Level, tag, component, message string, fields map[string]interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if level < minLevel {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(fmt.Sprintf(" [%s] [%s] %s", tag, component, message))

	// フィールドはキー順で出力（ログの安定性のため）
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf(" %s=%v", k, fields[k]))
		}
	}
	b.WriteString("\n")

	fmt.Fprint(output, b.String())
}
