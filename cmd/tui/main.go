package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/app"
	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "launchpad-tui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to config file (defaults and LAUNCHPAD_* env when empty)")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// экран принадлежит TUI: логи идут в панель и, при наличии, в файл
	logs, err := logger.NewTUI(cfg.DebugLogging, cfg.LogFile, 200)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logs.Close()
	log := logs.Logger

	updates := ui.NewUpdateSender(256, log)
	a, err := app.New(cfg, app.Options{Observer: ui.Observer(updates)}, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			log.Warn("Shutdown incomplete", zap.Error(err))
		}
	}()

	var journal ui.Recorder
	if a.Journal != nil {
		journal = a.Journal
	}

	model := ui.NewModel(rootCtx, ui.Services{
		Operations: a.Orchestrator,
		Session:    a.Session,
		Registry:   a.Registry,
		Quoter:     a.Quotes,
		Balances:   a.Balances,
		LoadSigner: a.LoadSigner,
		Journal:    journal,
		Logs:       logs.Ring,
		Updates:    updates,

		QuoteDelay:      cfg.QuoteDebounce(),
		DefaultSlippage: cfg.DefaultSlippage,
		Logger:          log,
	})
	defer model.Close()

	program := tea.NewProgram(
		ui.NewSafeUIWrapper(model, log),
		tea.WithAltScreen(),
		tea.WithContext(rootCtx),
	)
	if _, err := program.Run(); err != nil && rootCtx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	log.Info("TUI stopped")
	return nil
}
