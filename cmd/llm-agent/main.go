// Command llm-agent serves the query-answering agent over HTTP.
//
// It wires together the configured inference backend, the tool catalog and
// the agent, then exposes POST /query, GET /ws and GET /healthz.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarib95965/llm-agent/agent"
	"github.com/sarib95965/llm-agent/config"
	"github.com/sarib95965/llm-agent/inference"
	anthropicclient "github.com/sarib95965/llm-agent/inference/anthropic"
	"github.com/sarib95965/llm-agent/inference/groq"
	"github.com/sarib95965/llm-agent/logging"
	"github.com/sarib95965/llm-agent/prompt"
	"github.com/sarib95965/llm-agent/server"
	"github.com/sarib95965/llm-agent/tool"
	"github.com/sarib95965/llm-agent/tool/finance"
	"github.com/sarib95965/llm-agent/tool/websearch"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "llm-agent:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewDefaultLogger()
	logger.Info("starting", "provider", cfg.Provider, "addr", cfg.Addr)

	client, err := buildInferenceClient(cfg)
	if err != nil {
		return err
	}

	catalog, err := tool.NewCatalog(
		finance.New(func(o *finance.Options) {
			o.APIKey = cfg.FinnhubAPIKey
		}),
		websearch.New(func(o *websearch.Options) {
			o.APIKey = cfg.TavilyAPIKey
		}),
	)
	if err != nil {
		return err
	}

	a := agent.New(client, catalog, func(o *agent.Options) {
		o.Logger = logger
		o.DecisionTemperature = cfg.DecisionTemperature
		o.SynthesisTemperature = cfg.SynthesisTemperature
		o.MaxConcurrentTools = cfg.MaxConcurrentTools
	})

	srv := server.New(a, func(o *server.Options) {
		o.Logger = logger
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func buildInferenceClient(cfg *config.Settings) (inference.Client, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		return groq.New(func(o *groq.Options) {
			o.APIKey = cfg.GroqAPIKey
			o.SystemMessage = prompt.SystemInstruction
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropicclient.New(func(o *anthropicclient.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			o.SystemMessage = prompt.SystemInstruction
			if cfg.ModelName != "" {
				o.Model = anthropicsdk.Model(cfg.ModelName)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
