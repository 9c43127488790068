package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docchat/internal/backend"
	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/logger"
	"docchat/internal/monitor"
	"docchat/internal/orchestrator"
	"docchat/internal/session"
	"docchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docchat/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.New(cfg.Log.File, cfg.Log.Level)
	defer func() { _ = zlog.Sync() }()

	mode := domain.Mode(cfg.Mode)
	if mode != domain.ModeRAG && mode != domain.ModeKAG {
		log.Fatalf("unknown mode: %s", cfg.Mode)
	}
	variant := domain.Variant(cfg.KAG.Variant)
	switch variant {
	case domain.VariantStandard, domain.VariantSimplified, domain.VariantText:
	default:
		log.Fatalf("unknown kag variant: %s", cfg.KAG.Variant)
	}

	ragClient := backend.NewClient(backend.Config{
		BaseURL:  cfg.RAG.BaseURL,
		APIKey:   cfg.RAG.ResolvedAPIKey(),
		Username: cfg.RAG.Username,
		Password: cfg.RAG.ResolvedPassword(),
		Timeout:  time.Duration(cfg.RAG.TimeoutSecs) * time.Second,
	})
	kagClient := backend.NewClient(backend.Config{
		BaseURL:  cfg.KAG.BaseURL,
		APIKey:   cfg.KAG.ResolvedAPIKey(),
		Username: cfg.KAG.Username,
		Password: cfg.KAG.ResolvedPassword(),
		Timeout:  time.Duration(cfg.KAG.TimeoutSecs) * time.Second,
	})

	adapters := []domain.Adapter{
		backend.NewRAGAdapter(ragClient, cfg.RAG.Concise),
		backend.NewKAGStandardAdapter(kagClient),
		backend.NewKAGSimplifiedAdapter(kagClient),
		backend.NewKAGTextAdapter(kagClient),
	}
	probers := []domain.Prober{
		backend.NewHealthProber(domain.ModeRAG, ragClient),
		backend.NewHealthProber(domain.ModeKAG, kagClient),
	}

	mon := monitor.New(probers, time.Duration(cfg.Monitor.ProbeIntervalSecs)*time.Second, zlog)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mon.Start(ctx)

	tracker := session.New(mode, variant)
	orch := orchestrator.New(adapters, mon, tracker, orchestrator.Limits{
		RAGLimit:     cfg.RAG.K,
		KAGLimit:     cfg.KAG.Limit,
		DocumentType: cfg.KAG.DocumentType,
	}, zlog)

	m := tui.New(orch, mon, cfg.QuickQueries)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
