// Package main is the entry point for auditsend, a command line
// audit-event sender built on the netaudit engine.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vyrodovalexey/netaudit/internal/audit"
	"github.com/vyrodovalexey/netaudit/internal/auditd"
	"github.com/vyrodovalexey/netaudit/internal/config"
	"github.com/vyrodovalexey/netaudit/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool

	event     string
	op        string
	arg       string
	uuidStr   string
	name      string
	iface     string
	ifindex   int
	args      string
	fail      bool
	reason    string
	stdinMode bool
	watch     bool
	metrics   string
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	cfg := loadConfig(flags)
	logger := initLogger(cfg, flags)
	defer func() { _ = logger.Sync() }()

	registry := prometheus.NewRegistry()
	mgr := audit.NewManager(audit.Config{Enabled: cfg.Audit.Enabled},
		audit.WithLogger(logger),
		audit.WithMetrics(audit.NewMetricsWithRegisterer("netaudit", registry)),
		audit.WithTransport(auditd.New()),
	)
	defer mgr.Close()

	if flags.stdinMode {
		runPipe(flags, logger, mgr, registry)
		return
	}

	sendOne(flags, logger, mgr)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	var flags cliFlags

	flag.StringVar(&flags.configPath,
		"config", getEnvOrDefault("NETAUDIT_CONFIG_PATH", "configs/netaudit.yaml"),
		"Path to configuration file")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flag.StringVar(&flags.logFormat, "log-format", "", "Log format override (json, console)")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version information")

	flag.StringVar(&flags.event, "event", "generic", "Event shape (generic, connection, device)")
	flag.StringVar(&flags.op, "op", "", "Operation name")
	flag.StringVar(&flags.arg, "arg", "", "Argument for generic events")
	flag.StringVar(&flags.uuidStr, "uuid", "", "Connection UUID for connection events")
	flag.StringVar(&flags.name, "name", "", "Connection display name for connection events")
	flag.StringVar(&flags.iface, "interface", "", "Interface name for device events")
	flag.IntVar(&flags.ifindex, "ifindex", 0, "Interface index for device events")
	flag.StringVar(&flags.args, "args", "", "Free-form args field")
	flag.BoolVar(&flags.fail, "fail", false, "Record the operation as failed")
	flag.StringVar(&flags.reason, "reason", "", "Failure reason (log sink only)")
	flag.BoolVar(&flags.stdinMode, "stdin", false,
		"Read 'op arg' pairs from stdin and emit a generic event per line")
	flag.BoolVar(&flags.watch, "watch-config", false,
		"Watch the configuration file for changes (stdin mode)")
	flag.StringVar(&flags.metrics, "metrics-listen", "",
		"Address to serve Prometheus metrics on (stdin mode)")
	flag.Parse()

	return flags
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("auditsend version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// loadConfig loads the configuration, falling back to defaults when
// the file does not exist.
func loadConfig(flags cliFlags) *config.Config {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.DefaultConfig()
		}
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// initLogger initializes the logger from configuration plus flag
// overrides.
func initLogger(cfg *config.Config, flags cliFlags) observability.Logger {
	logCfg := observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if flags.logLevel != "" {
		logCfg.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		logCfg.Format = flags.logFormat
	}

	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// selfActor describes the auditsend process itself as the actor.
func selfActor() audit.ActorContext {
	return audit.UnixProcessActor(uint64(os.Getpid()), uint64(os.Getuid()))
}

// sendOne dispatches a single event described by the flags.
func sendOne(flags cliFlags, logger observability.Logger, mgr *audit.Manager) {
	if flags.op == "" {
		fmt.Fprintln(os.Stderr, "an operation name is required (-op)")
		os.Exit(2)
	}

	ctx := context.Background()
	result := !flags.fail
	actor := selfActor()

	switch flags.event {
	case "generic":
		mgr.LogGenericEvent(ctx, flags.op, flags.arg, result, actor, flags.reason)

	case "connection":
		var conn *audit.Connection
		if flags.uuidStr != "" || flags.name != "" {
			conn = &audit.Connection{Name: flags.name}
			if flags.uuidStr != "" {
				id, err := uuid.Parse(flags.uuidStr)
				if err != nil {
					fmt.Fprintf(os.Stderr, "invalid connection uuid: %v\n", err)
					os.Exit(2)
				}
				conn.UUID = id
			}
		}
		mgr.LogConnectionEvent(ctx, flags.op, conn, result, flags.args, actor, flags.reason)

	case "device":
		if flags.iface == "" {
			fmt.Fprintln(os.Stderr, "device events require an interface name (-interface)")
			os.Exit(2)
		}
		dev := &audit.Device{Interface: flags.iface, IfIndex: flags.ifindex}
		mgr.LogDeviceEvent(ctx, flags.op, dev, result, flags.args, actor, flags.reason)

	default:
		fmt.Fprintf(os.Stderr, "unknown event shape: %s\n", flags.event)
		os.Exit(2)
	}

	logger.Debug("event dispatched",
		observability.String("op", flags.op),
		observability.Bool("active", mgr.IsActive()),
	)
}

// runPipe reads "op arg" pairs from stdin and emits a generic event
// per line, optionally watching the configuration file and serving
// metrics while running.
func runPipe(flags cliFlags, logger observability.Logger, mgr *audit.Manager, registry *prometheus.Registry) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if flags.watch {
		startConfigWatcher(ctx, flags.configPath, logger, mgr)
	}

	if flags.metrics != "" {
		startMetricsServer(flags.metrics, logger, registry)
	}

	actor := selfActor()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		op, arg, _ := strings.Cut(line, " ")
		mgr.LogGenericEvent(ctx, op, arg, true, actor, "")
	}

	if err := scanner.Err(); err != nil {
		logger.Error("failed reading stdin", observability.Error(err))
	}
}

// startConfigWatcher wires configuration changes to the manager.
func startConfigWatcher(
	ctx context.Context,
	path string,
	logger observability.Logger,
	mgr *audit.Manager,
) {
	watcher, err := config.NewWatcher(path,
		func(cfg *config.Config) {
			mgr.ApplyConfig(audit.Config{Enabled: cfg.Audit.Enabled})
		},
		config.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create config watcher", observability.Error(err))
		return
	}

	if err := watcher.Start(ctx); err != nil {
		logger.Error("failed to start config watcher", observability.Error(err))
	}
}

// startMetricsServer serves the Prometheus registry over HTTP.
func startMetricsServer(addr string, logger observability.Logger, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", observability.Error(err))
		}
	}()

	logger.Info("serving metrics", observability.String("addr", addr))
}
