package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/cache"
	"github.com/dzieju/dzieju-app2/internal/config"
	"github.com/dzieju/dzieju-app2/internal/mail"
	"github.com/dzieju/dzieju-app2/internal/ops"
	"github.com/dzieju/dzieju-app2/internal/worker"
)

// pollInterval matches the coordinator contract: background results are
// drained on a short fixed schedule, never waited on.
const pollInterval = 100 * time.Millisecond

var (
	version     = "dev"
	showVersion = flag.Bool("version", false, "Show version information")
	listOps     = flag.Bool("list", false, "List available operations")
	paramsJSON  = flag.String("params", "{}", "Operation parameters as a JSON object")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("mailsearch version %s\n", version)
		os.Exit(0)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	accounts, err := config.LoadAccounts(cfg.AccountsPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load accounts")
	}

	mailCache, err := cache.NewCache(cfg.CachePath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize cache")
	}
	defer mailCache.Close()

	cacheStore := cache.NewStore(mailCache, logger)

	for i := range accounts.Accounts {
		if _, err := cacheStore.UpsertAccount(&accounts.Accounts[i]); err != nil {
			logger.WithError(err).WithField("account", accounts.Accounts[i].Name).Warn("Failed to cache account")
		}
	}

	manager, err := mail.NewManager(accounts, cacheStore, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create mail manager")
	}
	defer manager.Close()

	registry := ops.NewRegistry(cfg, manager, cacheStore, logger)

	if *listOps {
		for _, op := range registry.List() {
			fmt.Printf("%-18s %s\n", op.Name(), op.Description())
		}
		return
	}

	opName := flag.Arg(0)
	if opName == "" {
		fmt.Fprintln(os.Stderr, "usage: mailsearch [-params '{...}'] <operation>")
		fmt.Fprintln(os.Stderr, "       mailsearch -list")
		os.Exit(2)
	}

	var params map[string]interface{}
	if err := json.Unmarshal([]byte(*paramsJSON), &params); err != nil {
		logger.WithError(err).Fatal("Invalid -params JSON")
	}

	if _, err := registry.Start(opName, params); err != nil {
		logger.WithError(err).Fatal("Failed to start operation")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Drain the worker queue on a fixed interval until the terminal result
	// arrives; an interrupt flips the cancellation flag and keeps polling so
	// the cancelled outcome is still reported.
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigChan:
			logger.WithField("signal", sig).Info("Cancelling operation")
			registry.Cancel()
		case <-ticker.C:
			for _, res := range registry.Poll() {
				emitResult(res, logger)
				if res.Kind == worker.KindError {
					os.Exit(1)
				}
				return
			}
		}
	}
}

// emitResult writes the terminal outcome to stdout as JSON.
func emitResult(res worker.Result, logger *logrus.Logger) {
	out := map[string]interface{}{
		"op":     res.Op,
		"status": string(res.Kind),
	}
	if res.Message != "" {
		out["message"] = res.Message
	}
	if res.Payload != nil {
		out["result"] = res.Payload
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		logger.WithError(err).Error("Failed to encode result")
	}
}
