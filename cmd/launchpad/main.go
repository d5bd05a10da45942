// cmd/launchpad: headless front-end for scripted Devnet runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/app"
	"github.com/rovshanmuradov/solana-launchpad/internal/builder"
	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/operation"
	"github.com/rovshanmuradov/solana-launchpad/internal/quote"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

const usage = `usage: launchpad [-config file] <command> [flags]

commands:
  address                                  print the wallet address
  balances                                 print SOL and token balances
  airdrop  -amount 1                       request Devnet SOL
  launch   -name N -symbol S [-uri U] [-supply N]
                                           create a Token-2022 token
  quote    -from SOL -to USDC -amount 1 [-slippage 0.5]
  swap     -from SOL -to USDC -amount 1 [-slippage 0.5]
`

// errFailed marks an operation that ended with a failed outcome.
var errFailed = errors.New("operation failed")

func main() {
	if err := run(os.Args[1:], app.Options{}, os.Stdout); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "launchpad: %v\n", err)
		}
		os.Exit(1)
	}
}

// run executes one command. opts lets callers swap the RPC client; results go to out.
func run(args []string, opts app.Options, out io.Writer) error {
	global := flag.NewFlagSet("launchpad", flag.ContinueOnError)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := global.String("config", "", "Path to config file")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewPretty(cfg.DebugLogging)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, opts, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Warn("Shutdown incomplete", zap.Error(err))
		}
	}()

	cmd, rest := global.Arg(0), global.Args()[1:]
	if cmd != "quote" {
		if err := a.Connect(ctx); err != nil {
			return fmt.Errorf("wallet: %w", err)
		}
	}

	switch cmd {
	case "address":
		fmt.Fprintln(out, a.Session.Identity())
		return nil
	case "balances":
		return balances(ctx, a, out)
	case "airdrop":
		return airdrop(ctx, a, rest, out)
	case "launch":
		return launch(ctx, a, rest, out)
	case "quote":
		_, err := getQuote(ctx, a, rest, "quote", out)
		return err
	case "swap":
		return swap(ctx, a, rest, out)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func balances(ctx context.Context, a *app.App, out io.Writer) error {
	snap, err := a.Balances.Now(ctx, a.Session.Identity())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wallet %s\n", a.Session.Identity())
	for _, asset := range a.Registry.All() {
		fmt.Fprintf(out, "  %-5s %s\n", asset.Symbol, snap.Get(asset.Address))
	}
	return nil
}

func airdrop(ctx context.Context, a *app.App, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("airdrop", flag.ContinueOnError)
	amount := fs.String("amount", "1", "SOL to request")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out, err := a.Orchestrator.Airdrop(ctx, a.Session, *amount)
	return report(a, w, out, err)
}

func launch(ctx context.Context, a *app.App, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("launch", flag.ContinueOnError)
	req := builder.LaunchRequest{}
	fs.StringVar(&req.Name, "name", "", "token name")
	fs.StringVar(&req.Symbol, "symbol", "", "token symbol")
	fs.StringVar(&req.URI, "uri", "", "metadata URI")
	fs.StringVar(&req.Supply, "supply", "", "initial supply in whole tokens")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out, err := a.Orchestrator.LaunchToken(ctx, a.Session, req)
	return report(a, w, out, err)
}

type pairFlags struct {
	from, to token.Asset
	amount   string
	slippage uint16
}

func parsePair(a *app.App, args []string, name string) (pairFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	from := fs.String("from", "SOL", "input asset symbol")
	to := fs.String("to", "USDC", "output asset symbol")
	amount := fs.String("amount", "", "input amount")
	slippage := fs.Float64("slippage", a.Config.DefaultSlippage, "slippage tolerance, percent")
	if err := fs.Parse(args); err != nil {
		return pairFlags{}, err
	}

	var p pairFlags
	var ok bool
	if p.from, ok = a.Registry.BySymbol(*from); !ok {
		return p, fmt.Errorf("unknown asset %q", *from)
	}
	if p.to, ok = a.Registry.BySymbol(*to); !ok {
		return p, fmt.Errorf("unknown asset %q", *to)
	}
	bps, err := quote.SlippageBps(*slippage)
	if err != nil {
		return p, err
	}
	p.amount, p.slippage = *amount, bps
	return p, nil
}

func getQuote(ctx context.Context, a *app.App, args []string, name string, out io.Writer) (quote.Quote, error) {
	p, err := parsePair(a, args, name)
	if err != nil {
		return quote.Quote{}, err
	}
	q, err := a.Quotes.GetQuote(ctx, p.from, p.to, p.amount, p.slippage)
	if err != nil {
		return quote.Quote{}, err
	}
	fmt.Fprintf(out, "%s %s -> %s %s (min %s, impact %.2f%%, %s)\n",
		p.amount, p.from.Symbol,
		token.Format(q.OutAmount, p.to.Decimals, 6), p.to.Symbol,
		token.Format(q.MinOutAmount, p.to.Decimals, 6),
		q.PriceImpactPct, q.Source)
	return q, nil
}

func swap(ctx context.Context, a *app.App, args []string, w io.Writer) error {
	p, err := parsePair(a, args, "swap")
	if err != nil {
		return err
	}
	req := operation.SwapRequest{From: p.from, To: p.to, Amount: p.amount}
	if q, err := a.Quotes.GetQuote(ctx, p.from, p.to, p.amount, p.slippage); err == nil {
		req.Quote = &q
	}
	out, err := a.Orchestrator.Swap(ctx, a.Session, req)
	return report(a, w, out, err)
}

func report(a *app.App, w io.Writer, out operation.Outcome, err error) error {
	if err != nil {
		return err
	}
	a.Record(out)
	fmt.Fprintln(w, out.Message)
	if out.ExplorerURL != "" {
		fmt.Fprintln(w, out.ExplorerURL)
	}
	if out.Status != operation.StatusSuccess {
		return errFailed
	}
	return nil
}
