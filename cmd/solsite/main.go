// File path: cmd/solsite/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sunward/solsite/internal/agent"
	"github.com/sunward/solsite/internal/api"
	"github.com/sunward/solsite/internal/catalog"
	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/geocode"
	"github.com/sunward/solsite/internal/kb"
	"github.com/sunward/solsite/internal/llm"
	"github.com/sunward/solsite/internal/retriever"
	"github.com/sunward/solsite/internal/solar"
	"github.com/sunward/solsite/internal/tools"
	"github.com/sunward/solsite/internal/vector"
	"github.com/sunward/solsite/internal/weather"
	"github.com/sunward/solsite/internal/websearch"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("solsite: .env file not loaded", "error", err)
	} else {
		logger.Info("solsite: environment loaded from .env")
	}

	query := flag.String("query", "", "a single query to process")
	interactive := flag.Bool("interactive", false, "run in interactive mode")
	demo := flag.Bool("demo", false, "run the predefined demo queries")
	serve := flag.Bool("serve", false, "run the HTTP API server")
	addr := flag.String("addr", ":8081", "listen address for --serve")
	dataDir := flag.String("data", "data", "directory holding knowledge base documents")
	catalogPath := flag.String("catalog", "", "path to the SQLite analysis catalog (empty uses SOLSITE_DB_PATH)")
	flag.Parse()

	logger.Info("solsite: startup initiated", "data", *dataDir)

	toolCfg, err := tools.LoadConfig()
	if err != nil {
		logger.Error("solsite: tool config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	toolset := tools.NewToolset(toolCfg)

	provider := llm.NewProvider()
	logger.Info("solsite: llm provider ready", "provider", provider.Name())

	docs, err := kb.LoadDir(*dataDir)
	if err != nil {
		logger.Warn("solsite: knowledge base not loaded", "dir", *dataDir, "error", err)
	} else {
		logger.Info("solsite: knowledge base loaded", "chunks", len(docs))
	}

	vectorClient, err := vector.NewFromEnv(ctx)
	if err != nil {
		logger.Warn("solsite: chromadb not configured", "error", err)
		vectorClient = nil
	} else if vectorClient.Available() {
		logger.Info("solsite: chromadb available", "collection", vectorClient.Collection())
	} else {
		logger.Warn("solsite: chromadb unreachable", "collection", vectorClient.Collection())
	}

	var store vector.Store
	if vectorClient != nil {
		store = vectorClient
	}
	retr := retriever.New(docs, provider, store)
	if err := retr.Index(ctx); err != nil {
		logger.Warn("solsite: vector indexing skipped", "error", err)
	}

	catalogCfg := catalog.LoadConfig()
	if trimmed := strings.TrimSpace(*catalogPath); trimmed != "" {
		catalogCfg.Path = trimmed
	}
	history, err := catalog.OpenWithConfig(catalogCfg)
	if err != nil {
		logger.Error("solsite: analysis catalog unavailable", "path", catalogCfg.Path, "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer history.Close()

	runner := agent.New(provider, toolset, retr,
		agent.WithSolarClient(solar.NewClient()),
		agent.WithCatalog(history),
	)

	switch {
	case *serve:
		runServer(runner, provider, retr, history, *addr)
	case *query != "":
		runSingle(ctx, runner, *query)
	case *demo:
		runDemo(ctx, runner)
	case *interactive:
		runInteractive(ctx, runner)
	default:
		logger.Info("solsite: no mode selected, defaulting to interactive")
		runInteractive(ctx, runner)
	}

	logger.Info("solsite: finished")
}

func runServer(runner *agent.Agent, provider llm.Provider, retr *retriever.Retriever, history *catalog.Store, addr string) {
	logger := common.Logger()
	server, err := api.NewServer(runner, provider, retr,
		api.WithHistory(history),
		api.WithGeocoder(geocode.NewClient()),
		api.WithWebSearch(websearch.NewClient()),
		api.WithWeather(weather.NewClient()),
	)
	if err != nil {
		logger.Error("solsite: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}
	fmt.Printf("Serving on %s\n", addr)
	reachable := addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("solsite: server listening", "addr", addr, "health", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(addr, server); err != nil {
		logger.Error("solsite: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}

func runSingle(ctx context.Context, runner *agent.Agent, query string) {
	logger := common.Logger()
	logger.Info("solsite: processing single query", "query", query)
	res, err := runner.Analyze(ctx, query)
	if err != nil {
		logger.Error("solsite: query failed", "error", err)
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("\nAgent Response:\n%s\n", res.Response)
}

func runInteractive(ctx context.Context, runner *agent.Agent) {
	logger := common.Logger()
	fmt.Println("Welcome to the Solar Site Feasibility Assistant (Interactive Mode)!")
	fmt.Println("Ask questions about solar farm feasibility and transmission costs.")
	fmt.Println("Type 'quit' or 'exit' to end the session.")
	fmt.Println()
	fmt.Println("Example queries:")
	for i, q := range demoQueries {
		fmt.Printf("%d. %s\n", i+1, q.query)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYour Query: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lowered := strings.ToLower(line); lowered == "quit" || lowered == "exit" {
			logger.Info("solsite: exiting interactive mode")
			break
		}
		logger.Info("solsite: interactive query", "query", line)
		res, err := runner.Analyze(ctx, line)
		if err != nil {
			logger.Error("solsite: interactive query failed", "error", err)
			fmt.Println("An error occurred:", err)
			continue
		}
		fmt.Printf("\nAgent Response:\n%s\n", res.Response)
	}
}
