// Command reap runs the probe suite against a sign-up/login deployment.
//
// With -ui-url / -api-url it probes a real target; with neither it starts the
// built-in stand-in application and probes that (self-test mode). -mode
// selects the scenario subset (all, ui, api), -run / -skip filter scenarios
// by regex, and -report prints a human-readable summary at the end.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/NoodlesKamiSama/reap/internal/config"
	"github.com/NoodlesKamiSama/reap/internal/harness"
	"github.com/NoodlesKamiSama/reap/internal/obs"
	"github.com/NoodlesKamiSama/reap/internal/probe"
	apisuite "github.com/NoodlesKamiSama/reap/internal/suites/api"
	uisuite "github.com/NoodlesKamiSama/reap/internal/suites/ui"
	"github.com/NoodlesKamiSama/reap/internal/target"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := config.ParseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %s\n", err)
		return 1
	}
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	obs.Init()
	cfg.PrintStartupSummary()

	if cfg.SelfTest() {
		baseURL, shutdown, err := startStandIn()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start stand-in target: %s\n", err)
			return 1
		}
		defer shutdown()
		cfg.UIBaseURL = baseURL
		cfg.APIBaseURL = baseURL
		fmt.Fprintf(os.Stderr, "Stand-in target listening at %s\n\n", baseURL)
	}

	filter, err := harness.NewRegexFilter(cfg.RunFilter, cfg.SkipFilter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	logger := &harness.ConsoleLogger{W: os.Stdout, Verbose: cfg.Debug}
	results := harness.Run(filter, logger, func(c *harness.Context) {
		// A subset only runs when its base URL is known; with -api-url alone
		// the UI subset is silently absent rather than probing nothing.
		if cfg.RunsAPI() && cfg.APIBaseURL != "" {
			apisuite.Run(c, probe.NewClient(cfg.APIBaseURL, cfg))
		}
		if cfg.RunsUI() && cfg.UIBaseURL != "" {
			uisuite.Run(c, cfg.UIBaseURL, cfg)
		}
	})

	if cfg.Report {
		harness.PrintReport(os.Stdout, results)
	}
	if !results.OK() {
		return 1
	}
	return 0
}

// startStandIn launches the built-in application on a loopback port.
// Rate limits are set high so every non-burst scenario sees the target's
// validation behavior rather than its throttling; whether a ten-request
// burst trips a limiter is an observation, not an assertion.
func startStandIn() (string, func(), error) {
	standIn := target.NewServer(target.RateLimitConfig{
		RPS:             10000,
		Burst:           100000,
		CleanupInterval: time.Hour,
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		standIn.Close()
		return "", nil, err
	}

	server := &http.Server{Handler: standIn.Handler()}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			obs.Pkg("main").Error("stand-in server stopped", "error", err)
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		standIn.Close()
	}
	return "http://" + listener.Addr().String(), shutdown, nil
}
