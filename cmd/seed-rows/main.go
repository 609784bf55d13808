package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beerlog/beerboard/internal/seedcheck"
	"github.com/beerlog/beerboard/pkg/logger"
)

func main() {
	var (
		baseURL = flag.String("verify-url", "", "Base URL of a running server to verify against (e.g. http://localhost:9080)")
		output  = flag.String("out", "seed.csv", "CSV file to write; point the server's SOURCE_CSV at it")
		rows    = flag.Int("rows", seedcheck.DefaultRows, "Number of data rows to generate")
		members = flag.Int("members", seedcheck.DefaultMembers, "Number of distinct members")
		seed    = flag.Uint64("seed", seedcheck.DefaultSeed, "Generator seed")
		days    = flag.Int("days", seedcheck.DefaultDays, "Date spread in days")
		timeout = flag.Duration("timeout", seedcheck.DefaultTimeout, "HTTP request timeout")
		wait    = flag.Duration("wait", seedcheck.DefaultWait, "How long to wait for the server to refresh")
		verbose = flag.Bool("verbose", false, "Log the whole leaderboard")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &seedcheck.Config{
		BaseURL: *baseURL,
		Output:  *output,
		Rows:    *rows,
		Members: *members,
		Seed:    *seed,
		Days:    *days,
		Timeout: *timeout,
		Wait:    *wait,
		Verbose: *verbose,
	}
	stats, err := seedcheck.Run(ctx, cfg)
	if err != nil {
		logger.Get().Error(ctx, "seed run failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
	logger.Get().Info(ctx, "seed run finished",
		logger.Int("rows", stats.RowsGenerated),
		logger.Int("entries", stats.Entries),
		logger.Duration("took", stats.Duration.Round(time.Millisecond)),
	)
}
