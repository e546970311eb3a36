package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/letbuildnow/solPaper/config"
	"github.com/letbuildnow/solPaper/feeds"
	"github.com/letbuildnow/solPaper/journal"
	"github.com/letbuildnow/solPaper/ledger"
	"github.com/letbuildnow/solPaper/logger"
	"github.com/letbuildnow/solPaper/market"
	"github.com/letbuildnow/solPaper/slippage"
	"github.com/letbuildnow/solPaper/stats"
	"github.com/letbuildnow/solPaper/store"
)

var rootCmd = &cobra.Command{
	Use:   "solpaper",
	Short: "Paper-trade Solana memecoins against live DEX prices",
	Long: `solPaper simulates memecoin trading with virtual SOL.

Prices come from a fallback chain of public sources (Pump.fun bonding
curves, DexScreener, Jupiter, Birdeye) with a short cache, trades incur
randomized slippage, and every portfolio survives restarts through an
atomic JSON snapshot plus a sqlite trade journal.`,
	SilenceUsage: true,
}

var (
	cfgPath string
	userID  int64
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().Int64VarP(&userID, "user", "u", 1, "acting user id")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// app wires the engines together for one command invocation.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	quotes  market.QuoteSource
	ledger  *ledger.Engine
	stats   *stats.Engine
	journal journal.Journal
}

func newApp() (*app, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	var j journal.Journal = journal.Nop{}
	if cfg.Journal.Type == "sqlite" {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
	}

	st := store.NewJSON(cfg.Snapshot.Path)
	state, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	jup := feeds.NewJupiter(cfg.Feeds.JupiterURL)
	dex := feeds.NewDexScreener(cfg.Feeds.DexScreenerURL)
	quotes := feeds.New(feeds.Options{
		Providers: []feeds.Provider{
			feeds.NewPumpFun(cfg.Feeds.PumpFunURL),
			dex,
			jup,
			feeds.NewBirdeye(cfg.Feeds.BirdeyeURL),
		},
		Rates:  feeds.NewRateResolver(jup, dex, log),
		TTL:    cfg.Feeds.CacheTTL.Std(),
		Logger: log,
	})

	led := ledger.NewEngine(ledger.Options{
		Quotes:          quotes,
		Slippage:        slippage.New(),
		Journal:         j,
		Store:           st,
		Logger:          log,
		StartingBalance: cfg.Ledger.StartingBalance,
		FundCap:         cfg.Ledger.FundCap,
		State:           &state,
	})

	se := stats.NewEngine(stats.Options{
		Ledger:   led,
		Quotes:   quotes,
		Journal:  j,
		AdminIDs: cfg.AdminIDs,
		Logger:   log,
	})

	return &app{
		cfg:     cfg,
		log:     log,
		quotes:  quotes,
		ledger:  led,
		stats:   se,
		journal: j,
	}, nil
}

// close flushes state and the journal. Errors are reported, not fatal:
// the in-memory run already finished.
func (a *app) close() {
	if err := a.ledger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: final snapshot flush failed: %v\n", err)
	}
	if err := a.journal.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal close failed: %v\n", err)
	}
	_ = a.log.Sync()
}
