package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lookbusy1344/deci/config"
	"github.com/lookbusy1344/deci/console"
	"github.com/lookbusy1344/deci/loader"
	"github.com/lookbusy1344/deci/service"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion  = flag.Bool("version", false, "Show version information")
		showHelp     = flag.Bool("help", false, "Show help information")
		evalExpr     = flag.String("eval", "", "Evaluate a single expression and print the result")
		batchFile    = flag.String("file", "", "Evaluate a batch file of expressions, one per line")
		tuiMode      = flag.Bool("tui", false, "Start the full-screen TUI console")
		apiServer    = flag.Bool("api-server", false, "Start the HTTP/WebSocket API server")
		apiPort      = flag.Int("port", 0, "API server port (overrides config; used with -api-server)")
		configPath   = flag.String("config", "", "Configuration file path (default: platform config dir)")
		roundMode    = flag.String("round-mode", "", "Round mode name stored as the config's console default (overrides config; round() in expressions always uses half-even)")
		decimalPoint = flag.String("decimal-point", "", "Decimal point character (overrides config)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("deci %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *roundMode != "" {
		cfg.Console.DefaultRound = *roundMode
	}
	if *decimalPoint != "" {
		cfg.Display.DecimalPoint = *decimalPoint
	}

	modeCount := boolToInt(*evalExpr != "") + boolToInt(*batchFile != "") + boolToInt(*tuiMode) + boolToInt(*apiServer)
	if modeCount > 1 {
		fmt.Fprintln(os.Stderr, "Error: -eval, -file, -tui and -api-server are mutually exclusive")
		os.Exit(1)
	}

	switch {
	case *evalExpr != "":
		runEval(cfg, *evalExpr)
	case *batchFile != "":
		runBatchFile(cfg, *batchFile)
	case *apiServer:
		runAPIServer(cfg, *apiPort)
	case *tuiMode:
		runTUI(cfg)
	default:
		runREPL(cfg)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// runEval evaluates a single expression and prints its result, exiting
// non-zero if evaluation fails.
func runEval(cfg *config.Config, expr string) {
	ev := console.NewEvaluator()
	result, err := ev.Evaluate(expr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(cfg.FormatValue(result))
}

// runBatchFile evaluates every expression in path in order and prints a
// per-line report, exiting non-zero if any line failed.
func runBatchFile(cfg *config.Config, path string) {
	report, err := loader.RunFile(path, console.NewEvaluator())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Printf("%d: %s\n  error: %v\n", res.Line, res.Expression, res.Err)
			continue
		}
		fmt.Printf("%d: %s\n  %s = %s\n", res.Line, res.Expression, res.ValueRef, cfg.FormatValue(res.Result))
	}

	if report.ErrorCount() > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d lines failed\n", report.ErrorCount(), len(report.Results))
		os.Exit(1)
	}
}

// runREPL starts the line-mode interactive console on stdin/stdout.
func runREPL(cfg *config.Config) {
	repl := console.NewREPL(cfg, os.Stdin, os.Stdout)
	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "REPL error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the full-screen tview console.
func runTUI(cfg *config.Config) {
	tui := console.NewTUI(cfg)
	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

// runAPIServer starts the HTTP/WebSocket server and blocks until it
// receives SIGINT/SIGTERM, then shuts down gracefully.
func runAPIServer(cfg *config.Config, portOverride int) {
	addr := cfg.Service.ListenAddr
	if portOverride != 0 {
		addr = fmt.Sprintf(":%d", portOverride)
	}

	srv := service.NewServer(addr, cfg.Service.MaxBatchSize, cfg.Service.HistoryBufSize)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down deci API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Printf(`deci %s - fixed-precision decimal arithmetic console

Usage:
  deci                          Start the line-mode interactive console
  deci -tui                     Start the full-screen console
  deci -eval EXPR                Evaluate one expression and print the result
  deci -file PATH                 Evaluate a batch file of expressions (one per line)
  deci -api-server [-port N]     Start the HTTP/WebSocket API server

Options:
  -help                Show this help message
  -version             Show version information
  -config PATH          Configuration file path (default: platform config dir)
  -round-mode NAME       Round mode name stored as the config's console default (e.g. half-even,
                        truncate, away, floor, ceil, half-away, half-truncate, half-ceil,
                        half-floor); round() in expressions always uses half-even
  -decimal-point CHAR     Decimal point character (default: ".")
  -port N               API server port (used with -api-server)

Console expression syntax:
  + - * / mod            arithmetic operators, left-to-right with * / mod tighter than + -
  ( expr )               parentheses
  round(a, b) trunc(a, b) floor(a, b) ceil(a, b)   round a to a multiple of b
  $1, $2, ...            reference an earlier result by its position in this session

Examples:
  deci -eval "0.1 + 0.2"
  deci -eval "1 / 3"
  deci -file expressions.txt
  deci -api-server -port 8765
`, Version)
}
