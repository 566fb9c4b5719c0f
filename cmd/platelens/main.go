package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	gemini "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/bububa/platelens/analyzer"
	"github.com/bububa/platelens/components"
	"github.com/bububa/platelens/config"
	"github.com/bububa/platelens/correct"
	"github.com/bububa/platelens/estimate"
	"github.com/bububa/platelens/identify"
	"github.com/bububa/platelens/tools"
	"github.com/bububa/platelens/tools/fooddata"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-config file] <image_path> [user_corrections]\n", os.Args[0])
	flag.PrintDefaults()
}

func newLogger(mode string) *zap.SugaredLogger {
	var cfg zap.Config
	if mode == "dev" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// stdout is reserved for the report JSON
	cfg.OutputPaths = []string{"stderr"}
	return zap.Must(cfg.Build()).Sugar()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	imagePath := flag.Arg(0)
	corrections := flag.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogMode)
	defer logger.Sync()

	ctx := context.Background()
	client, err := gemini.NewClient(ctx, option.WithAPIKey(cfg.GoogleAPIKey))
	if err != nil {
		logger.Fatalw("gemini client init failed", "error", err)
	}
	defer client.Close()

	var llmOpts []components.GeminiOption
	if cfg.GeminiModel != "" {
		llmOpts = append(llmOpts, components.WithModel(cfg.GeminiModel))
	}
	llm := components.NewGemini(client, llmOpts...)

	lookupOpts := []fooddata.Option{
		fooddata.WithAPIKey(cfg.USDAAPIKey),
		fooddata.WithLogger(logger),
		fooddata.WithToolOptions(
			tools.WithStartHook(func(_ context.Context, t tools.ITool, input any) {
				logger.Debugw("tool start", "tool", t.Title(), "input", input)
			}),
		),
	}
	if cfg.USDABaseURL != "" {
		lookupOpts = append(lookupOpts, fooddata.WithBaseURL(cfg.USDABaseURL))
	}

	a := analyzer.New(
		identify.New(llm, identify.WithLogger(logger)),
		correct.New(llm, correct.WithLogger(logger)),
		fooddata.New(lookupOpts...),
		estimate.New(llm, estimate.WithLogger(logger)),
		analyzer.WithLogger(logger),
	)

	report := a.AnalyzeFile(ctx, imagePath, corrections)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Fatalw("report encoding failed", "error", err)
	}
}
