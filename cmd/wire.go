package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/ai"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/assistant"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/config"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/lookup"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/toolcall"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// app holds everything a command needs; closeFn releases the audit DB.
type app struct {
	svc     assistant.Service
	closeFn func()
}

func buildApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	chain, err := ai.BuildChain(cfg, logger)
	if err != nil {
		return nil, err
	}

	actions, err := toolcall.ParseActionSet(cfg.ToolActions)
	if err != nil {
		return nil, err
	}

	a := &app{closeFn: func() {}}

	var audit assistant.AuditLog
	if cfg.DatabaseURL != "" {
		repo, closeFn, err := openAudit(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		audit = repo
		a.closeFn = closeFn
		logger.Info("audit log enabled")
	}

	flights := lookup.NewFlightClient(cfg.AviationstackKey, "", logger)
	weather := lookup.NewWeatherClient("", "", logger)

	a.svc = assistant.NewService(audit, chain, flights, weather, assistant.Settings{
		Actions:    actions,
		BasePrompt: cfg.SystemPrompt,
		Window:     cfg.HistoryWindow,
		Options: ai.Options{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	}, logger)

	logger.Info("assistant ready", "actions", cfg.ToolActions, "window", cfg.HistoryWindow)
	return a, nil
}

// openAudit connects to the audit database and makes sure the table exists.
func openAudit(ctx context.Context, dsn string) (*assistant.AuditRepo, func(), error) {
	db, driver, err := assistant.OpenAuditDB(dsn)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}

	repo := assistant.NewAuditRepo(db, driver)
	if err := repo.Migrate(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db migrate: %w", err)
	}
	return repo, func() { db.Close() }, nil
}
