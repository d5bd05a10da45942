// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/balance"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/programs/computebudget"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/history"
	"github.com/rovshanmuradov/solana-launchpad/internal/operation"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

// App wires the launchpad components from a Config. Both front-ends share it.
type App struct {
	Config       *config.Config
	Client       blockchain.Client
	Registry     *token.Registry
	Aggregator   *quote.JupiterClient
	Quotes       *quote.Engine
	Balances     *balance.Refresher
	Store        *balance.Store
	Orchestrator *operation.Orchestrator
	Session      *operation.Session
	Journal      *history.Journal
	Metrics      *prometheus.Registry

	metricsSrv *http.Server
	logger     *zap.Logger
}

// Options are the parts a front-end may supply itself.
type Options struct {
	// Observer receives operation state transitions.
	Observer operation.Observer
	// Client overrides the RPC client, e.g. with an in-memory ledger.
	Client blockchain.Client
}

func New(cfg *config.Config, opts Options, logger *zap.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Registry: token.DefaultRegistry(),
		Session:  operation.NewSession(),
		Store:    &balance.Store{},
		Metrics:  prometheus.NewRegistry(),
		logger:   logger.Named("app"),
	}
	a.Metrics.MustRegister(collectors.NewGoCollector())

	a.Client = opts.Client
	if a.Client == nil {
		a.Client = solbc.NewClient(cfg.RPCURL, cfg.CommitmentType(), logger)
	}

	if cfg.AggregatorURL != "" {
		a.Aggregator = quote.NewJupiterClient(cfg.AggregatorURL, cfg.AggregatorRPS, nil, logger)
	}
	a.Quotes = quote.NewEngine(aggregatorOrNil(a.Aggregator), quote.DefaultRates(), cfg.QuoteTimeout(), logger)

	reader := balance.NewReader(a.Client, a.Registry, logger)
	a.Balances = balance.NewRefresher(reader, a.Store, balance.RefresherConfig{
		Delay:    cfg.RefreshDelay(),
		MaxTries: uint(cfg.RefreshTries),
	}, logger)

	pipeline := transaction.NewPipeline(a.Client, logger, transaction.Config{
		PollInterval:   cfg.PollInterval(),
		ConfirmTimeout: cfg.ConfirmTimeout(),
	}, transaction.NewMetrics(a.Metrics))

	b := builder.New(a.Client, logger, computebudget.Config{
		UnitLimit:     cfg.ComputeUnitLimit,
		MicroLamports: cfg.PriorityFeeMicroLamports,
	})

	deps := operation.Deps{
		Client:    a.Client,
		Builder:   b,
		Pipeline:  pipeline,
		Refresher: a.Balances,
		Explorer:  cfg.ExplorerURL,
		Observer:  opts.Observer,
		Logger:    logger,
	}
	if a.Aggregator != nil {
		deps.Aggregator = a.Aggregator
	}
	a.Orchestrator = operation.New(deps)

	if cfg.HistoryFile != "" {
		j, err := history.Open(cfg.HistoryFile, logger)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.Journal = j
	}

	if cfg.MetricsAddr != "" {
		a.serveMetrics(cfg.MetricsAddr)
	}

	a.logger.Info("Launchpad initialized",
		zap.String("rpc", cfg.MaskedRPCURL()),
		zap.String("commitment", cfg.Commitment),
		zap.Bool("aggregator", a.Aggregator != nil))
	return a, nil
}

// aggregatorOrNil keeps a nil *JupiterClient from becoming a non-nil interface.
func aggregatorOrNil(j *quote.JupiterClient) quote.Aggregator {
	if j == nil {
		return nil
	}
	return j
}

func (a *App) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Metrics, promhttp.HandlerOpts{}))
	a.metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("Metrics server stopped", zap.Error(err))
		}
	}()
	a.logger.Info("Serving metrics", zap.String("addr", addr))
}

// LoadSigner reads the configured keypair. A missing path is an error: the
// launchpad never generates keys on its own.
func (a *App) LoadSigner(context.Context) (transaction.Signer, error) {
	if a.Config.KeypairPath == "" {
		return nil, errors.New("keypair_path is not configured")
	}
	w, err := wallet.LoadWallet(a.Config.KeypairPath)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Connect loads the signer into the session. Balances of a previous identity are
// dropped together with its pending refresh.
func (a *App) Connect(ctx context.Context) error {
	signer, err := a.LoadSigner(ctx)
	if err != nil {
		return err
	}
	if !a.Session.Identity().Equals(signer.PublicKey()) {
		a.Balances.Cancel()
		a.Store.Clear()
	}
	a.Session.Connect(signer)
	return nil
}

// Record appends an outcome to the history file when one is configured.
func (a *App) Record(o operation.Outcome) {
	if a.Journal != nil {
		a.Journal.Record(a.Session.Identity(), o)
	}
}

// Close waits for a pending balance refresh and releases files and listeners.
func (a *App) Close(ctx context.Context) error {
	a.Balances.Cancel()
	a.Balances.Wait()

	var errs []error
	if a.Journal != nil {
		errs = append(errs, a.Journal.Close())
	}
	if a.metricsSrv != nil {
		errs = append(errs, a.metricsSrv.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
