package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/Nyukimin/geonavi/internal/adapter/config"
	"github.com/Nyukimin/geonavi/internal/application/assistant"
	"github.com/Nyukimin/geonavi/internal/application/dispatcher"
	"github.com/Nyukimin/geonavi/internal/application/orchestrator"
	"github.com/Nyukimin/geonavi/internal/domain/llm"
	"github.com/Nyukimin/geonavi/internal/domain/tool"
	"github.com/Nyukimin/geonavi/internal/infrastructure/llm/ollama"
	"github.com/Nyukimin/geonavi/internal/infrastructure/llm/openai"
	"github.com/Nyukimin/geonavi/internal/infrastructure/logger"
	"github.com/Nyukimin/geonavi/internal/infrastructure/maps/geo"
	"github.com/Nyukimin/geonavi/internal/infrastructure/maps/route"
	"github.com/Nyukimin/geonavi/internal/infrastructure/maps/weather"
	"github.com/Nyukimin/geonavi/internal/infrastructure/routing"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "geonavi",
		Short: "Map services assistant with keyword and LLM routing",
		Long: `geonavi routes natural language queries about places, routes and
weather to geocoding, routing and weather tools. Queries can be answered
directly with keyword routing (ask) or through an LLM tool-calling
conversation (chat).`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(newAskCommand())
	rootCmd.AddCommand(newChatCommand())
	rootCmd.AddCommand(newExamplesCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAskCommand はキーワードルーティングで1クエリを処理するコマンド
func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [query]",
		Short: "Answer a single query with keyword routing (no LLM)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDependencies(false)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			result := deps.assistant.Process(cmd.Context(), query)
			fmt.Println(assistant.FormatResult(result))

			return nil
		},
	}
}

// newChatCommand はLLMツール呼び出しの対話ループを起動するコマンド
func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive LLM-routed chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDependencies(true)
			if err != nil {
				return err
			}

			return runChatLoop(cmd.Context(), deps.conversation)
		},
	}
}

// newExamplesCommand はサンプルクエリを一括実行するコマンド
func newExamplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Run the built-in example queries with keyword routing",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDependencies(false)
			if err != nil {
				return err
			}

			for _, query := range assistant.ExampleQueries() {
				fmt.Printf("\nQuery: %s\n", query)
				result := deps.assistant.Process(cmd.Context(), query)
				fmt.Println(assistant.FormatResult(result))
			}

			return nil
		},
	}
}

// Dependencies はアプリケーション依存関係
type Dependencies struct {
	assistant    *assistant.Assistant
	conversation *orchestrator.Conversation
}

// buildDependencies は依存関係を構築
// needLLM=falseのときはLLMプロバイダーを初期化しない
func buildDependencies(needLLM bool) (*Dependencies, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		// askとexamplesはLLM設定なしでも動かせる
		if !needLLM {
			cfg = &config.Config{}
			cfg.Log.Level = "info"
		} else {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	logger.SetLevel(cfg.Log.Level)

	// 1. Map Providers
	geoProvider := geo.NewNominatimProvider(cfg.Nominatim.BaseURL, cfg.Nominatim.UserAgent)
	routeProvider := route.NewService(geoProvider)
	weatherProvider := weather.NewService()

	// 2. Tool Dispatcher
	catalog := tool.DefaultCatalog()
	disp := dispatcher.NewDispatcher(catalog, geoProvider, routeProvider, weatherProvider)

	// 3. Keyword Routing
	classifier := routing.NewClassifier()
	asst := assistant.NewAssistant(classifier, disp)

	deps := &Dependencies{assistant: asst}

	// 4. LLM Conversation
	if needLLM {
		provider, err := buildLLMProvider(cfg)
		if err != nil {
			return nil, err
		}

		log.Printf("LLM provider: %s", provider.Name())

		deps.conversation = orchestrator.NewConversation(provider, disp, orchestrator.Options{
			MaxIterations: cfg.Agent.MaxIterations,
			MaxTokens:     cfg.Agent.MaxTokens,
			Temperature:   cfg.Agent.Temperature,
		})
	}

	return deps, nil
}

// buildLLMProvider は設定に応じたLLMプロバイダーを作成
func buildLLMProvider(cfg *config.Config) (llm.LLMProvider, error) {
	switch cfg.LLM.Provider {
	case "openai":
		provider := openai.NewOpenAIProvider(cfg.LLM.APIKey, cfg.LLM.Model)
		if cfg.LLM.BaseURL != "" {
			provider.SetBaseURL(cfg.LLM.BaseURL)
		}
		return provider, nil

	case "ollama":
		provider := ollama.NewOllamaProvider(cfg.LLM.BaseURL, cfg.LLM.Model)
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}

// runChatLoop は対話ループを実行
func runChatLoop(ctx context.Context, conv *orchestrator.Conversation) error {
	rl, err := readline.New("You: ")
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("Interactive Map Services Agent with LLM Routing")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("\nYou can ask questions like:")
	fmt.Println("  - 'Find cafes near AUB'")
	fmt.Println("  - 'What are the coordinates of American University of Beirut?'")
	fmt.Println("  - 'Get the distance between Beirut and Tripoli'")
	fmt.Println("  - 'What's the weather in Beirut?'")
	fmt.Println("\nType 'quit' or 'exit' to stop.")

	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl+C / Ctrl+D で終了
			break
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return nil
		case "reset":
			conv.Reset()
			fmt.Println("Conversation history cleared.")
			continue
		}

		answer, err := conv.Process(ctx, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("\nAssistant: %s\n", answer)
	}

	return nil
}

// getConfigPath は設定ファイルパスを取得
func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if path := os.Getenv("GEONAVI_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}
