package main

import (
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scoutly/creatorscout/pkg/common"
	"github.com/scoutly/creatorscout/pkg/driver"
	"github.com/scoutly/creatorscout/pkg/labels"
	"github.com/scoutly/creatorscout/pkg/registry"
	"github.com/scoutly/creatorscout/pkg/server"
	"github.com/scoutly/creatorscout/pkg/session"
	"github.com/scoutly/creatorscout/pkg/suggest"
	"github.com/scoutly/creatorscout/pkg/tracking"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var suggestUrl = os.Getenv("SUGGEST_URL")
var searchUrl = os.Getenv("SEARCH_URL")
var platform = os.Getenv("PLATFORM")
var rabbitUrl = os.Getenv("RABBIT_URL")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var facetConfigPath = os.Getenv("FACET_CONFIG")
var listenAddress = ":8080"
var debugAddress = ":8081"

func loadRegistry() *registry.Registry {
	if facetConfigPath == "" {
		return registry.MustDefault()
	}
	reg, err := registry.LoadFile(facetConfigPath)
	if err != nil {
		log.Fatalf("Failed to load facet config %s: %v", facetConfigPath, err)
	}
	log.Printf("Loaded facet overrides from %s", facetConfigPath)
	return reg
}

func main() {
	flag.Parse()

	if suggestUrl == "" || searchUrl == "" {
		log.Fatalf("SUGGEST_URL and SEARCH_URL must be set")
	}

	reg := loadRegistry()

	var shared labels.SharedCache
	if redisUrl != "" {
		cache := labels.NewRedisCache(redisUrl, redisPassword, 0)
		defer cache.Close()
		shared = cache
		log.Printf("Shared label cache enabled, url: %s", redisUrl)
	}

	var trk tracking.Tracking
	if rabbitUrl != "" {
		rabbit, err := tracking.NewRabbitTracking(rabbitUrl)
		if err != nil {
			log.Fatalf("Failed to create rabbit tracking: %v", err)
		}
		defer rabbit.Close()
		trk = rabbit
		log.Printf("Search event tracking enabled")
	}

	sessions := session.NewManager(session.Options{
		Registry: reg,
		Fetcher: suggest.NewHTTPFetcher(suggest.HTTPFetcherOptions{
			BaseURL:  suggestUrl,
			Platform: platform,
		}),
		SearchClient: driver.NewHTTPSearchClient(searchUrl),
		SharedLabels: shared,
	}, 2*time.Hour)

	stop := make(chan struct{})
	defer close(stop)
	sessions.StartSweeper(5*time.Minute, stop)

	srv := server.NewWebServer(sessions, reg, trk)

	go func() {
		debugMux := http.NewServeMux()
		debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		debugMux.Handle("/metrics", promhttp.Handler())
		if enableProfiling != nil && *enableProfiling {
			log.Println("Profiling enabled")
			debugMux.HandleFunc("/debug/pprof/", pprof.Index)
			debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		}
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", srv.ClientHandler()))

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	httpServer := common.NewServerWithTimeouts(&http.Server{Addr: listenAddress, Handler: mux}, timeouts)
	common.RunServerWithShutdown(httpServer, "creator scout api", timeouts.Shutdown, timeouts.Hook)
}
