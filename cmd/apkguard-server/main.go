// Command apkguard-server runs apkguard as an HTTP service: a /scan
// endpoint that evaluates a posted bundle fixture against the live rule
// pack, a websocket feed that streams each report to connected
// dashboards as it completes, and optional Postgres-backed run history.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apkguard/apkguard/config"
	"github.com/apkguard/apkguard/rule"
	"github.com/apkguard/apkguard/store"
)

const historyConnectTimeout = 10 * time.Second

var (
	flagConfig = flag.String("conf", "", "Path to apkguard.yaml")
	flagAddr   = flag.String("addr", "", "Listen address, overriding config's http_addr")
)

func main() {
	flag.Parse()
	logger := log.New(os.Stderr, "[apkguard-server] ", log.LstdFlags)

	cfg := config.Default()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			logger.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *flagAddr != "" {
		cfg.HTTPAddr = *flagAddr
	}

	pack := &rule.Pack{}
	if cfg.RulePackDir != "" {
		loaded, err := cfg.LoadRulePack()
		if err != nil {
			logger.Fatalf("loading rule pack: %v", err)
		}
		pack = loaded
	}

	h := &apiHandler{pack: pack, hub: NewHub()}
	go h.hub.Run()

	if cfg.HistoryDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), historyConnectTimeout)
		s, err := store.Open(ctx, cfg.HistoryDSN)
		cancel()
		if err != nil {
			logger.Fatalf("opening run history store: %v", err)
		}
		h.store = s
	}

	stop := make(chan struct{})
	if cfg.RulePackDir != "" {
		watcher, err := config.NewRulePackWatcher(cfg.RulePackDir, func(p *rule.Pack) {
			h.pack = p
		}, logger)
		if err != nil {
			logger.Fatalf("starting rule pack watcher: %v", err)
		}
		go watcher.Run(stop)
	}

	router := setupRouter(h)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Print("shutting down")
		close(stop)
		os.Exit(0)
	}()

	logger.Printf("listening on %s with %d rules", cfg.HTTPAddr, len(pack.Rules))
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
