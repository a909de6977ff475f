// Command llamarouter-server is the thin HTTP entrypoint wiring the
// router's core components behind an OpenAI-compatible chat-completion
// endpoint. The HTTP transport and wire schema are outside spec.md's
// scope; this file exists only to make the core pipeline runnable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kadirpekel/llamarouter/config"
	"github.com/kadirpekel/llamarouter/intent"
	"github.com/kadirpekel/llamarouter/llmclient"
	"github.com/kadirpekel/llamarouter/logger"
	"github.com/kadirpekel/llamarouter/router"
	"github.com/kadirpekel/llamarouter/session"
	"github.com/kadirpekel/llamarouter/tool"
	"github.com/kadirpekel/llamarouter/tool/projectstool"
	"github.com/kadirpekel/llamarouter/toolexec"
	"github.com/kadirpekel/llamarouter/validator"
)

const projectsToolName = "projects"

const analyzerSystemPrompt = `You are an intent-analysis assistant for a project management system.
Classify the user's message into an action ("create" or "list"), a namespace, and
(if the action is create) a project_id. Respond with a brief justification.`

func main() {
	configPath := flag.String("config", "", "path to the router's YAML config file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading .env files: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.ParseLevel(cfg.Server.LogLevel), os.Stdout, cfg.Server.LogFormat)

	handler := wireHandler(cfg, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post("/v1/chat/completions", chatCompletionHandler(handler))

	srv := &http.Server{Addr: *addr, Handler: r}

	go func() {
		log.Info("llamarouter-server listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server exited with error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// wireHandler builds the router.Handler from config in the dependency
// order spec.md §2 names: Tool Registry; Intent Analyzer; Response
// Validator; Tool Executor; Agent (factory); Session Manager; Request
// Handler.
func wireHandler(cfg *config.Config, log *slog.Logger) *router.Handler {
	registry := tool.NewRegistry()
	initRegistry := func() error {
		return registry.Register(projectstool.NewTool(""))
	}

	ruleAnalyzer := intent.NewRuleAnalyzer(cfg.Rules, cfg.Analysis)

	newClient := func() llmclient.Provider {
		caps := llmclient.DetectCapabilities(cfg.LLM.Model, cfg.LLM.ToolCallingModels)
		return llmclient.New(cfg.LLM, caps.SupportsTools)
	}

	llmAnalyzer := intent.NewLLMAnalyzer(newClient(), ruleAnalyzer)
	analyzer := intent.NewHybridAnalyzer(llmAnalyzer, ruleAnalyzer, cfg.Analysis.ConfidenceThreshold)

	v := validator.New(cfg.Validation)
	executor := toolexec.New(registry, analyzer, initRegistry, log)

	factory := session.NewFactory(newClient, registry, analyzerSystemPrompt)
	sessions := session.New(factory)

	return router.New(sessions, v, executor, projectsToolName, func() int64 { return time.Now().Unix() }, log)
}
