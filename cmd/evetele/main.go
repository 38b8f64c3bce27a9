package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/corriander/eve-telemetrics/internal/config"
	"github.com/corriander/eve-telemetrics/internal/logging"
	"github.com/corriander/eve-telemetrics/internal/version"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"serve", "refresh configured regions and serve /health", runServe},
	{"market", "fetch and show a region's market orders", runMarket},
	{"orders", "show the character's open orders", runOrders},
	{"wallet", "show wallet balance, journal and transactions", runWallet},
	{"marketlog", "import market logs exported by the client", runMarketlog},
	{"version", "print version information", runVersion},
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "usage: %s [-config path] <command> [flags]\n\ncommands:\n", version.AppName)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nglobal flags:")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config file")
	envPath := flag.String("env", ".env", "path to .env file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == flag.Arg(0) {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	// Console-only logger until the file logger exists.
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := config.LoadDotEnv(*envPath); err != nil {
		bootLogger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}
	if err := config.EnsureDirs(); err != nil {
		bootLogger.Error("failed to create user dirs", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		bootLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		bootLogger.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	logger.Info("starting",
		"command", cmd.name,
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	a := &app{cfg: cfg, logger: logger, out: os.Stdout}
	defer a.close()

	if err := cmd.run(ctx, a, flag.Args()[1:]); err != nil {
		logger.Error("command failed", "command", cmd.name, "error", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd.name, err)
		a.close()
		closer.Close()
		os.Exit(1)
	}
}

func runVersion(_ context.Context, a *app, _ []string) error {
	_, err := fmt.Fprintf(a.out, "%s %s\n", version.HumanAppName, version.String())
	return err
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}
