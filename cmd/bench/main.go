// README: Benchmark runner; generates demo rosters and times matching passes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"carpool/internal/modules/matching"
)

type Config struct {
	Passengers int
	Drivers    int
	Runs       int
	Seed       int64
	Direction  string
}

func loadConfig() Config {
	var cfg Config
	flag.IntVar(&cfg.Passengers, "passengers", envOrDefaultInt("CARPOOL_BENCH_PASSENGERS", 40), "Passengers per run")
	flag.IntVar(&cfg.Drivers, "drivers", envOrDefaultInt("CARPOOL_BENCH_DRIVERS", 10), "Drivers per run")
	flag.IntVar(&cfg.Runs, "runs", envOrDefaultInt("CARPOOL_BENCH_RUNS", 20), "Number of matching runs")
	flag.Int64Var(&cfg.Seed, "seed", 1, "Deterministic generator seed")
	flag.StringVar(&cfg.Direction, "direction", "to_event", "Trip direction (to_event or from_event)")
	flag.Parse()
	return cfg
}

func main() {
	cfg := loadConfig()

	svc := matching.NewService(nil, nil)
	cmd := generate(cfg)

	var total time.Duration
	var matched, unmatched int
	for i := 0; i < cfg.Runs; i++ {
		start := time.Now()
		res, err := svc.Match(context.Background(), cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "match failed: %v\n", err)
			os.Exit(1)
		}
		total += time.Since(start)
		matched = res.Metadata.MatchedPassengers
		unmatched = len(res.UnmatchedPassengers)
	}

	fmt.Println("== Summary ==")
	fmt.Printf("passengers=%d drivers=%d runs=%d\n", cfg.Passengers, cfg.Drivers, cfg.Runs)
	fmt.Printf("matched=%d unmatched=%d\n", matched, unmatched)
	fmt.Printf("avg=%s total=%s\n", total/time.Duration(cfg.Runs), total)
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
